package models

// Topic ids form a closed set; Generate rejects everything else.
const (
	TopicSelfIntroduction = "self-introduction"
	TopicInterests        = "interests"
	TopicFamily           = "family"
	TopicObservation      = "observation"
	TopicScenarios        = "scenarios"
	TopicSchoolLife       = "school-life"
	TopicManners          = "manners"
)

type Topic struct {
	ID      string `json:"id"`
	TitleZH string `json:"title_zh"`
	TitleEN string `json:"title_en"`
}

// Title returns the display title for the given language.
func (t Topic) Title(language string) string {
	if language == LanguageEN {
		return t.TitleEN
	}
	return t.TitleZH
}

var topics = []Topic{
	{ID: TopicSelfIntroduction, TitleZH: "自我介紹", TitleEN: "Self Introduction"},
	{ID: TopicInterests, TitleZH: "興趣愛好", TitleEN: "Hobbies and Interests"},
	{ID: TopicFamily, TitleZH: "我的家庭", TitleEN: "My Family"},
	{ID: TopicObservation, TitleZH: "觀察描述", TitleEN: "Observation and Description"},
	{ID: TopicScenarios, TitleZH: "情境應對", TitleEN: "Everyday Scenarios"},
	{ID: TopicSchoolLife, TitleZH: "學校生活", TitleEN: "School Life"},
	{ID: TopicManners, TitleZH: "禮貌應對", TitleEN: "Manners and Courtesy"},
}

var topicIndex = func() map[string]Topic {
	m := make(map[string]Topic, len(topics))
	for _, t := range topics {
		m[t.ID] = t
	}
	return m
}()

// Topics returns the closed topic set in catalogue order.
func Topics() []Topic {
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out
}

func TopicByID(id string) (Topic, bool) {
	t, ok := topicIndex[id]
	return t, ok
}
