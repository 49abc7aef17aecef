package prompts

import "github.com/yoockh/preptalk/internal/models"

// Shared system prompt. The reply-shape contract lives here so every topic
// gets the same structured-JSON expectation.
const systemPrompt = `You are an experienced coach preparing Hong Kong children for primary-school admission interviews (小一面試). You write teaching material for parents to rehearse with their child at home.

Reply with a single JSON object and nothing else, using exactly these keys:
{
  "teaching_goal": "what this session trains, one or two sentences",
  "parent_script": "how the parent should run the rehearsal, spoken to the parent",
  "sample_questions": ["2 to 5 questions an interviewer would actually ask"],
  "model_answer": "one model answer a child of this age could give, in the child's voice",
  "tips": ["2 to 5 short coaching tips for the parent"]
}

Keep the language age-appropriate, warm and concrete. Do not wrap the JSON in code fences.`

const profileBlock = `Child profile:
- age band: {{age_band}}
- gender: {{gender}}
- interests: {{interests}}
- target school types: {{school_types}}

Write all field values in {{language}}.`

// catalog holds the built-in per-topic templates. Versions are monotonic and
// bumped by hand whenever prompt text changes, so cached bundles invalidate.
var catalog = []Template{
	{
		TopicID: models.TopicSelfIntroduction,
		Version: 4,
		System:  systemPrompt,
		User: `Topic: {{topic}}.

The child will be asked to introduce themselves: name, age, class, family, and one thing they love. Interviewers look for clear speech, eye contact, and a natural mention of a genuine interest rather than a memorised list.

` + profileBlock,
	},
	{
		TopicID: models.TopicInterests,
		Version: 3,
		System:  systemPrompt,
		User: `Topic: {{topic}}.

The child will be asked what they like to do and why. Build the questions around the child's declared interests ({{interests}}) and teach the child to give one concrete detail, not just "I like it".

` + profileBlock,
	},
	{
		TopicID: models.TopicFamily,
		Version: 3,
		System:  systemPrompt,
		User: `Topic: {{topic}}.

The child will be asked about the people at home: who they live with, what they do together, who takes them to school. Keep answers warm and specific; interviewers listen for family routine and gratitude, not status.

` + profileBlock,
	},
	{
		TopicID: models.TopicObservation,
		Version: 2,
		System:  systemPrompt,
		User: `Topic: {{topic}}.

The child will be shown a picture or object and asked to describe it. Train colour, number, position words and a simple guess about what is happening. Sample questions should name a concrete everyday scene the parent can reproduce at home.

` + profileBlock,
	},
	{
		TopicID: models.TopicScenarios,
		Version: 2,
		System:  systemPrompt,
		User: `Topic: {{topic}}.

The child will be given a small everyday dilemma (a classmate is crying, they broke a toy, they are lost in a mall) and asked what they would do. Train a calm first sentence, asking an adult for help, and saying sorry or thank you where it fits.

` + profileBlock,
	},
	{
		TopicID: models.TopicSchoolLife,
		Version: 1,
		System:  systemPrompt,
		User: `Topic: {{topic}}.

The child will be asked about kindergarten: favourite lesson, playtime, teachers and friends, and why they want to join the new school. For {{school_types}} schools, questions often probe whether the child can sit, listen and share.

` + profileBlock,
	},
	{
		TopicID: models.TopicManners,
		Version: 1,
		System:  systemPrompt,
		User: `Topic: {{topic}}.

The child will be observed on greetings and courtesy: entering the room, greeting the interviewer, waiting for their turn, saying goodbye. Train the words and the body language together.

` + profileBlock,
	},
}
