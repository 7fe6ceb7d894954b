package evaluator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchlens/startup-meter/internal/types"
)

func fullAnswerSet() types.AnswerSet {
	return types.AnswerSet{
		"We help small clinics predict patient no-shows",
		"Clinic managers at independent practices",
		"No-shows cost clinics 20% of revenue",
		"Subscription per clinic seat",
		"Existing tools only report, they don't predict",
		"HIPAA compliance and data access",
		"Pilot with 3 clinics showing 30% reduction",
		"Expand to dental and veterinary practices",
		"Calendar integrations create switching costs",
		"Founder ran clinic operations for 8 years",
	}
}

func TestBuildPromptIsPure(t *testing.T) {
	answers := fullAnswerSet()
	marketData := []types.SearchSnippet{
		{Title: "Market trends", Content: "Healthcare AI is growing"},
	}

	first := BuildPrompt(answers, marketData)
	second := BuildPrompt(answers, marketData)

	assert.Equal(t, first, second, "identical inputs must yield byte-identical prompts")
}

func TestBuildPromptSkipsEmptyAnswers(t *testing.T) {
	answers := fullAnswerSet()
	answers[2] = ""
	answers[5] = "   "

	prompt := BuildPrompt(answers, nil)
	questions := Questions()

	assert.NotContains(t, prompt, questions[2].Title)
	assert.NotContains(t, prompt, questions[5].Title)
	assert.Contains(t, prompt, questions[0].Title)
	assert.Contains(t, prompt, questions[9].Title)

	// Skipped questions leave no numbering gap artifacts
	assert.NotContains(t, prompt, "3. "+questions[2].Title)
}

func TestBuildPromptEmbedsAnswersVerbatim(t *testing.T) {
	answers := fullAnswerSet()
	answers[0] = `We sell "smart" widgets`

	prompt := BuildPrompt(answers, nil)

	// Verbatim embedding, no escaping of the inner quotes
	assert.Contains(t, prompt, `Answer: "We sell "smart" widgets"`)
}

func TestBuildPromptSubstitutesTemplatePlaceholder(t *testing.T) {
	answers := fullAnswerSet()
	prompt := BuildPrompt(answers, nil)

	assert.NotContains(t, prompt, "{answer}", "template placeholder must be replaced")
}

func TestBuildPromptIncludesMarketContext(t *testing.T) {
	marketData := []types.SearchSnippet{
		{Title: "First", Content: "alpha"},
		{Title: "Second", Content: "beta"},
	}

	prompt := BuildPrompt(fullAnswerSet(), marketData)

	assert.Contains(t, prompt, "Market Context (Real-time data):")
	assert.Contains(t, prompt, "1. First: alpha")
	assert.Contains(t, prompt, "2. Second: beta")
}

func TestBuildPromptEndsWithSchema(t *testing.T) {
	prompt := BuildPrompt(fullAnswerSet(), nil)

	require.True(t, strings.HasSuffix(prompt, "Only exceptional ideas score 80+."))
	assert.Contains(t, prompt, `"overallScore": 75`)
	assert.Contains(t, prompt, `"nextQuestion"`)
}

func TestBuildChatPromptDefaults(t *testing.T) {
	prompt := buildChatPrompt("why this score?", types.EvaluationPayload{OverallScore: 42})

	assert.Contains(t, prompt, "Overall Score: 42/100")
	assert.Contains(t, prompt, "Not provided")
	assert.Contains(t, prompt, "None identified")
	assert.Contains(t, prompt, `USER'S QUESTION: "why this score?"`)
}

func TestQuestionsAreStable(t *testing.T) {
	questions := Questions()

	require.Len(t, questions, types.QuestionCount)
	assert.Equal(t, "Value Proposition Analysis", questions[0].Title)
	assert.Equal(t, "Founder-Market Fit", questions[9].Title)
	for i, q := range questions {
		assert.Contains(t, q.Template, "{answer}", "question %d template must carry the placeholder", i+1)
	}
}
