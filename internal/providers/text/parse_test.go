package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `{
	"teaching_goal": "goal",
	"parent_script": "script",
	"sample_questions": ["q1", "q2", "q3"],
	"model_answer": "answer",
	"tips": ["t1", "t2"]
}`

func TestParseStrictJSON(t *testing.T) {
	c, err := ParseContent(validDoc)
	require.NoError(t, err)
	assert.Equal(t, "goal", c.TeachingGoal)
	assert.Len(t, c.SampleQuestions, 3)
	assert.Len(t, c.Tips, 2)
}

func TestParseCodeFencedJSON(t *testing.T) {
	c, err := ParseContent("```json\n" + validDoc + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "answer", c.ModelAnswer)
}

func TestParseJSONSurroundedByProse(t *testing.T) {
	c, err := ParseContent("Sure! Here is the content:\n" + validDoc + "\nHope that helps.")
	require.NoError(t, err)
	assert.Equal(t, "script", c.ParentScript)
}

func TestParseBracesInsideStrings(t *testing.T) {
	doc := `{"teaching_goal":"use {curly} words","parent_script":"s","sample_questions":["a}","b"],"model_answer":"m","tips":["t1","t2"]}`
	c, err := ParseContent("noise " + doc)
	require.NoError(t, err)
	assert.Equal(t, "use {curly} words", c.TeachingGoal)
}

func TestParseRejectsBlankField(t *testing.T) {
	doc := `{"teaching_goal":"  ","parent_script":"s","sample_questions":["a","b"],"model_answer":"m","tips":["t1","t2"]}`
	_, err := ParseContent(doc)
	assert.Error(t, err)
}

func TestParseKeepsShortList(t *testing.T) {
	doc := `{"teaching_goal":"g","parent_script":"s","sample_questions":["only one"],"model_answer":"m","tips":["t1","t2"]}`
	c, err := ParseContent(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"only one"}, c.SampleQuestions)
}

func TestParseRejectsEmptyList(t *testing.T) {
	doc := `{"teaching_goal":"g","parent_script":"s","sample_questions":[],"model_answer":"m","tips":["t1","t2"]}`
	_, err := ParseContent(doc)
	assert.Error(t, err)
}

func TestParseRejectsBlankListItem(t *testing.T) {
	doc := `{"teaching_goal":"g","parent_script":"s","sample_questions":["a"," "],"model_answer":"m","tips":["t1","t2"]}`
	_, err := ParseContent(doc)
	assert.Error(t, err)
}

func TestParseTruncatesLongLists(t *testing.T) {
	doc := `{"teaching_goal":"g","parent_script":"s","sample_questions":["a","b","c","d","e","f","g"],"model_answer":"m","tips":["t1","t2"]}`
	c, err := ParseContent(doc)
	require.NoError(t, err)
	assert.Len(t, c.SampleQuestions, 5)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, c.SampleQuestions)
}

func TestParseRejectsNonJSON(t *testing.T) {
	_, err := ParseContent("I am a coherent but unstructured reply about interviews.")
	assert.Error(t, err)
}

func TestParseRejectsEmpty(t *testing.T) {
	_, err := ParseContent("")
	assert.Error(t, err)
}
