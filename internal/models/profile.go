package models

// AgeBand is the kindergarten year of the child, K1 through K3.
type AgeBand string

const (
	AgeBandK1 AgeBand = "K1"
	AgeBandK2 AgeBand = "K2"
	AgeBandK3 AgeBand = "K3"
)

func (a AgeBand) Valid() bool {
	switch a {
	case AgeBandK1, AgeBandK2, AgeBandK3:
		return true
	}
	return false
}

// SchoolType values the profile may target.
const (
	SchoolTypeAcademic      = "academic"
	SchoolTypeHolistic      = "holistic"
	SchoolTypeInternational = "international"
	SchoolTypeTraditional   = "traditional"
)

const (
	LanguageZH = "zh"
	LanguageEN = "en"
)

// Profile is the child profile as supplied by the caller. The pipeline reads
// it and retains nothing beyond the call.
type Profile struct {
	ProfileID         string   `json:"profile_id"`
	Name              string   `json:"name"`
	AgeBand           AgeBand  `json:"age_band"`
	Gender            string   `json:"gender,omitempty"`
	Interests         []string `json:"interests"`
	TargetSchoolTypes []string `json:"target_school_types"`
	PreferredLanguage string   `json:"preferred_language"`
}

// Language returns the preferred language, defaulting to zh.
func (p Profile) Language() string {
	if p.PreferredLanguage == LanguageEN {
		return LanguageEN
	}
	return LanguageZH
}
