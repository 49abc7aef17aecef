package tts

import "github.com/yoockh/preptalk/internal/models"

// The dialect → voice mapping lives here and nowhere else.
var voiceTable = map[string]string{
	models.DialectCantonese: "yue-HK-child-f1",
	models.DialectMandarin:  "cmn-CN-child-f1",
}

// VoiceFor returns the voice id for a dialect.
func VoiceFor(dialect string) (string, bool) {
	v, ok := voiceTable[dialect]
	return v, ok
}
