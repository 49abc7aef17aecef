package text

import (
	"sort"
	"strings"

	"github.com/yoockh/preptalk/internal/models"
)

// Fallback produces teaching content without any upstream call. Output is
// deterministic for a given (topic, language, interests) so fallback bundles
// cache exactly like generated ones.
type Fallback struct{}

type canned struct {
	goal      string
	script    string
	questions []string
	answer    string
	tips      []string
}

// Build returns a complete, valid TeachingContent for the topic. The child's
// first interest (alphabetically, so the result is stable) is woven into the
// questions where the topic allows it.
func (Fallback) Build(p models.Profile, topic models.Topic) models.TeachingContent {
	table := cannedZH
	if p.Language() == models.LanguageEN {
		table = cannedEN
	}
	c, ok := table[topic.ID]
	if !ok {
		c = table[models.TopicSelfIntroduction]
	}

	interest := firstInterest(p, p.Language())
	content := models.TeachingContent{
		TeachingGoal:    c.goal,
		ParentScript:    c.script,
		SampleQuestions: replaceAll(c.questions, interest),
		ModelAnswer:     strings.ReplaceAll(c.answer, "%s", interest),
		Tips:            replaceAll(c.tips, interest),
	}
	return content
}

// Complete pads short question or tip lists up to the minimum using canned
// items, skipping duplicates. Upstream content is otherwise untouched.
func (f Fallback) Complete(c *models.TeachingContent, p models.Profile, topic models.Topic) {
	if len(c.SampleQuestions) >= models.MinListLen && len(c.Tips) >= models.MinListLen {
		return
	}
	filler := f.Build(p, topic)
	c.SampleQuestions = padList(c.SampleQuestions, filler.SampleQuestions, models.MinListLen)
	c.Tips = padList(c.Tips, filler.Tips, models.MinListLen)
}

func padList(list, filler []string, min int) []string {
	seen := make(map[string]struct{}, len(list))
	for _, s := range list {
		seen[s] = struct{}{}
	}
	for _, s := range filler {
		if len(list) >= min {
			break
		}
		if _, dup := seen[s]; dup {
			continue
		}
		list = append(list, s)
		seen[s] = struct{}{}
	}
	return list
}

func firstInterest(p models.Profile, lang string) string {
	if len(p.Interests) == 0 {
		if lang == models.LanguageEN {
			return "drawing"
		}
		return "畫畫"
	}
	sorted := make([]string, len(p.Interests))
	copy(sorted, p.Interests)
	sort.Strings(sorted)
	return sorted[0]
}

func replaceAll(list []string, interest string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = strings.ReplaceAll(s, "%s", interest)
	}
	return out
}

var cannedZH = map[string]canned{
	models.TopicSelfIntroduction: {
		goal:   "讓小朋友可以大方、清楚咁介紹自己嘅名字、年齡同最喜歡嘅事物。",
		script: "同小朋友面對面坐好，扮演面試老師，先微笑講「你好呀，可唔可以介紹吓自己？」，等小朋友講完先補充，唔好打斷。",
		questions: []string{
			"你好呀，可唔可以介紹吓自己？",
			"你今年幾多歲呀？讀邊一班？",
			"你最鍾意做啲咩呀？",
		},
		answer: "老師你好！我叫做小朋友，今年五歲，讀K2。我最鍾意%s，每日都會玩一陣。多謝老師！",
		tips: []string{
			"練習時望住對方眼睛講嘢，聲音唔使大但要清楚。",
			"答案唔好死背，每次可以轉一樣最鍾意嘅嘢講。",
			"講完記得補一句「多謝老師」，俾老師留下好印象。",
		},
	},
	models.TopicInterests: {
		goal:   "訓練小朋友講出自己嘅興趣，並且加一個具體細節，唔係淨係「我鍾意」。",
		script: "攞住小朋友平時玩開嘅嘢做道具，問佢點解鍾意，引導佢講一件具體嘅事，例如上次砌咗啲咩。",
		questions: []string{
			"你平時放學之後鍾意做咩呀？",
			"你玩%s嗰陣，最開心係邊一部分？",
			"你可唔可以教我點樣玩？",
		},
		answer: "我最鍾意%s。上個星期我自己完成咗一個好難嘅部分，媽媽話我好有耐性。",
		tips: []string{
			"追問一句「然後呢？」幫小朋友講多一個細節。",
			"避免幫小朋友接話，俾佢自己諗完先。",
		},
	},
	models.TopicFamily: {
		goal:   "讓小朋友自然講出屋企有邊啲人、大家一齊做啲咩，表達對家人嘅感謝。",
		script: "攞張全家福相片，逐個人問「呢個係邊個呀？佢平時同你做啲咩？」，最後引導小朋友講一句想多謝邊個。",
		questions: []string{
			"你屋企有邊啲人呀？",
			"平時邊個送你返學㗎？",
			"你哋一家人最鍾意一齊做咩？",
		},
		answer: "我屋企有爸爸、媽媽同埋我。每日媽媽送我返學，星期六我哋會一齊去公園。我好多謝媽媽照顧我。",
		tips: []string{
			"答案重點係家庭日常，唔使講家人嘅職位或者成就。",
			"教小朋友講一句感謝嘅話，老師好欣賞識感恩嘅小朋友。",
		},
	},
	models.TopicObservation: {
		goal:   "訓練小朋友有次序咁描述圖片：顏色、數量、位置，再講埋發生緊咩事。",
		script: "搵一張街市或者公園嘅圖片，先問「你見到啲咩？」，再逐步問顏色、有幾多個、喺邊度，最後問「你估發生緊咩事？」。",
		questions: []string{
			"呢張圖入面你見到啲咩呀？",
			"圖入面有幾多個人？佢哋著咩顏色衫？",
			"你估吓圖入面發生緊咩事？",
		},
		answer: "我見到一個公園，有三個小朋友玩緊滑梯。着紅色衫嘅小朋友排緊隊，我估佢哋玩得好開心。",
		tips: []string{
			"教小朋友用「我見到……有……喺……」嘅句式。",
			"俾小朋友大膽估，估錯都冇問題，重點係肯講。",
		},
	},
	models.TopicScenarios: {
		goal:   "訓練小朋友面對日常小難題時冷靜應對：先安慰或者道歉，再搵大人幫手。",
		script: "同小朋友角色扮演：你做喊緊嘅同學仔或者走失嘅情境，問小朋友「你會點做？」，引導佢講出第一句話同埋搵邊個幫手。",
		questions: []string{
			"如果同學仔喺你隔離喊緊，你會點做呀？",
			"如果你喺商場搵唔到媽媽，你會點做？",
			"如果你唔小心整爛咗人哋嘅玩具，你會講咩？",
		},
		answer: "我會先問同學仔「你冇事嘛？」，陪住佢，然後話俾老師知，等老師嚟幫手。",
		tips: []string{
			"教定小朋友一句開頭：「你冇事嘛？」或者「對唔住」。",
			"提醒小朋友遇到困難要搵著制服嘅職員或者老師幫手。",
		},
	},
	models.TopicSchoolLife: {
		goal:   "讓小朋友講出幼稚園生活嘅具體片段，同埋點解想入讀新學校。",
		script: "放學路上同小朋友傾「今日最開心係咩事？」，揀一件最具體嘅事練習講三句：發生咗咩、同邊個、點解開心。",
		questions: []string{
			"你喺幼稚園最鍾意邊一堂呀？",
			"小息嗰陣你同邊個玩？玩啲咩？",
			"你點解想嚟我哋學校讀書呀？",
		},
		answer: "我最鍾意畫畫堂，上次我畫咗一隻大象，老師貼咗喺壁報板度。我想嚟呢度讀書，因為哥哥話呢度嘅圖書角好大。",
		tips: []string{
			"答「點解想嚟呢間學校」時講一個具體原因就夠。",
			"俾小朋友練習講完整三句，唔好淨係答一個詞。",
		},
	},
	models.TopicManners: {
		goal:   "訓練入房、打招呼、等候同道別嘅禮貌用語同身體語言。",
		script: "喺屋企門口做一次完整流程：敲門、講「老師早晨」、坐好、雙手擺膝頭、完咗講「拜拜，多謝老師」。每日練一次。",
		questions: []string{
			"入到課室你會同老師講咩呀？",
			"老師講嘢嗰陣你應該點做？",
			"走嘅時候你會點同老師講再見？",
		},
		answer: "我會同老師講「老師早晨！」，老師講嘢嗰陣我會坐定定留心聽，走嗰陣我會講「拜拜，多謝老師」。",
		tips: []string{
			"身體語言同說話一齊練：微笑、企直、眼望老師。",
			"日常生活入面見到保安姨姨都練吓打招呼。",
		},
	},
}

var cannedEN = map[string]canned{
	models.TopicSelfIntroduction: {
		goal:   "Help the child introduce themselves clearly: name, age, class and one thing they love.",
		script: "Sit facing your child and play the interviewer. Smile and say \"Hello, can you tell me about yourself?\" Let the child finish before adding anything.",
		questions: []string{
			"Hello! Can you tell me about yourself?",
			"How old are you? Which class are you in?",
			"What do you like doing best?",
		},
		answer: "Good morning! My name is on my badge, I am five years old and I am in K2. I love %s and I play it every day. Thank you!",
		tips: []string{
			"Practise eye contact; the voice should be clear, not loud.",
			"Do not memorise one fixed answer; rotate the favourite thing each time.",
			"End with a thank-you, interviewers notice it.",
		},
	},
	models.TopicInterests: {
		goal:   "Train the child to name an interest and add one concrete detail, not just \"I like it\".",
		script: "Use the child's own toy as a prop. Ask why they like it and guide them to one specific moment, like what they built last time.",
		questions: []string{
			"What do you like doing after school?",
			"When you play %s, what is the best part?",
			"Can you teach me how to play it?",
		},
		answer: "I love %s. Last week I finished a really hard part all by myself, and Mum said I was very patient.",
		tips: []string{
			"Ask \"and then what?\" to draw out one more detail.",
			"Do not finish sentences for the child; wait.",
		},
	},
	models.TopicFamily: {
		goal:   "Help the child talk about who is at home, what the family does together, and say one thank-you.",
		script: "Hold a family photo and point at each person: \"Who is this? What do you do together?\" End by asking who the child wants to thank.",
		questions: []string{
			"Who lives with you at home?",
			"Who brings you to school every day?",
			"What does your family like doing together?",
		},
		answer: "I live with Daddy, Mummy and me. Mummy walks me to school every day, and on Saturdays we go to the park together. I am thankful Mummy takes care of me.",
		tips: []string{
			"Keep it about daily routine, not family achievements.",
			"Teach one sentence of gratitude; interviewers value it.",
		},
	},
	models.TopicObservation: {
		goal:   "Train ordered picture description: colours, numbers, positions, then a guess about what is happening.",
		script: "Pick a market or playground picture. Ask \"what can you see?\" first, then colours, how many, where, and finally \"what do you think is happening?\"",
		questions: []string{
			"What can you see in this picture?",
			"How many people are there? What colours are they wearing?",
			"What do you think is happening here?",
		},
		answer: "I can see a park. Three children are playing on the slide. The child in the red shirt is queuing up. I think they are having fun.",
		tips: []string{
			"Teach the frame \"I can see... there are... next to...\".",
			"Let the child guess boldly; a wrong guess is fine.",
		},
	},
	models.TopicScenarios: {
		goal:   "Train calm responses to small dilemmas: comfort or apologise first, then find an adult.",
		script: "Role-play: you are the crying classmate or the lost-in-the-mall scene. Ask \"what would you do?\" and guide the first sentence plus who to ask for help.",
		questions: []string{
			"If a classmate next to you is crying, what would you do?",
			"If you cannot find Mummy in the mall, what would you do?",
			"If you broke someone's toy by accident, what would you say?",
		},
		answer: "I would ask my classmate \"are you okay?\" and stay with them. Then I would tell the teacher so she can come and help.",
		tips: []string{
			"Pre-teach one opening line: \"are you okay?\" or \"I'm sorry\".",
			"Remind the child to find a teacher or a staff member in uniform.",
		},
	},
	models.TopicSchoolLife: {
		goal:   "Help the child describe a concrete moment of kindergarten life and why they want to join the new school.",
		script: "On the walk home ask \"what was the happiest thing today?\" Pick one concrete moment and practise three sentences: what happened, with whom, why it was fun.",
		questions: []string{
			"What is your favourite lesson at kindergarten?",
			"Who do you play with at recess? What do you play?",
			"Why would you like to come to our school?",
		},
		answer: "My favourite lesson is art. Last time I drew an elephant and my teacher put it on the board. I want to come here because my brother says the reading corner is really big.",
		tips: []string{
			"One concrete reason is enough for \"why our school\".",
			"Practise full three-sentence answers, not single words.",
		},
	},
	models.TopicManners: {
		goal:   "Train greeting, waiting and goodbye words together with the matching body language.",
		script: "Run the full routine at your front door: knock, say \"good morning, teacher\", sit nicely with hands on knees, finish with \"goodbye, thank you teacher\". Once a day.",
		questions: []string{
			"What do you say when you walk into the classroom?",
			"What should you do while the teacher is talking?",
			"How do you say goodbye when you leave?",
		},
		answer: "I say \"good morning, teacher!\" When the teacher is talking I sit still and listen. When I leave I say \"goodbye, thank you teacher\".",
		tips: []string{
			"Practise words and body language together: smile, stand tall, look at the teacher.",
			"Greet the building's security guard daily for real-life practice.",
		},
	},
}
