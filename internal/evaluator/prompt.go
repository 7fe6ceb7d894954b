package evaluator

import (
	"fmt"
	"strings"

	"github.com/launchlens/startup-meter/internal/types"
)

const promptHeader = `You are a CRITICAL Startup Analyst with 15+ years of experience. You've seen thousands of startups fail and succeed.

BE HARSH AND REALISTIC. Most startup ideas are mediocre. Don't be a pleaser.

Analyze these startup answers and provide a brutally honest evaluation:

`

const promptSchema = `

Provide your evaluation in this EXACT JSON format:
{
  "executiveSnapshot": "2-3 sentences summarizing the overall assessment",
  "overallScore": 75,
  "individualScores": {
    "clarity": 82,
    "marketFit": 85,
    "feasibility": 75,
    "differentiation": 68
  },
  "strengths": ["strength1", "strength2", "strength3"],
  "weaknesses": ["weakness1", "weakness2", "weakness3"],
  "opportunities": ["opportunity1", "opportunity2"],
  "threats": ["threat1", "threat2"],
  "patternMatch": {
    "successful": {
      "name": "Similar successful startup",
      "reason": "Why they succeeded"
    },
    "failed": {
      "name": "Similar failed startup",
      "reason": "Why they failed"
    }
  },
  "recommendations": ["recommendation1", "recommendation2", "recommendation3"],
  "nextQuestion": "Engaging follow-up question for the founder",
  "businessValuation": {
    "level": "yellow",
    "text": "40-70%",
    "description": "Needs more validation"
  },
  "fundingReadiness": {
    "level": "yellow",
    "text": "40-70%",
    "description": "Needs more validation"
  },
  "marketMomentum": {
    "level": "green",
    "text": ">15% CAGR",
    "description": "Fast-growing sector, hot"
  },
  "riskExposure": {
    "level": "red",
    "text": "High",
    "description": "4+ risks, high fragility"
  }
}

BE CRITICAL. Most ideas score 40-60. Only exceptional ideas score 80+.`

// BuildPrompt renders the full evaluation prompt from the answers and the
// retrieved market snippets. It is a pure function: identical inputs yield
// byte-identical output. Questions with empty (trimmed) answers are skipped
// entirely.
//
// Answer text is embedded verbatim. The model prompt is therefore open to
// injection through user answers; changing that would also change what the
// model sees for legitimate answers, so it stays as-is.
func BuildPrompt(answers types.AnswerSet, marketData []types.SearchSnippet) string {
	questions := Questions()

	var b strings.Builder
	b.WriteString(promptHeader)

	for i, answer := range answers {
		if i >= len(questions) {
			break
		}
		trimmed := strings.TrimSpace(answer)
		if trimmed == "" {
			continue
		}
		q := questions[i]
		fmt.Fprintf(&b, "\n%d. %s:\n", i+1, q.Title)
		fmt.Fprintf(&b, "Answer: \"%s\"\n", answer)
		fmt.Fprintf(&b, "Analysis: %s\n", strings.ReplaceAll(q.Template, "{answer}", answer))
	}

	b.WriteString("\n\nMarket Context (Real-time data):\n")
	for i, data := range marketData {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, data.Title, data.Content)
	}

	b.WriteString(promptSchema)

	return b.String()
}

const chatPromptFormat = `You are an AI Startup Advisor who has just analyzed a startup idea. You have access to the complete evaluation results and the user's original answers to 10 deep startup questions.

EVALUATION CONTEXT:
- Overall Score: %d/100
- Executive Snapshot: %s
- Strengths: %s
- Weaknesses: %s
- Recommendations: %s

USER'S QUESTION: "%s"

INSTRUCTIONS:
1. Be knowledgeable about their specific startup evaluation
2. Reference their actual scores and feedback when relevant
3. Provide actionable advice based on their evaluation
4. Be honest but constructive
5. Keep responses concise (2-3 sentences max)
6. If they ask about something not in the evaluation, say you'd need more context

Respond in this JSON format:
{
  "response": "Your helpful response here"
}`

// buildChatPrompt renders the advisor prompt for a follow-up question about
// an existing evaluation.
func buildChatPrompt(message string, evaluation types.EvaluationPayload) string {
	return fmt.Sprintf(chatPromptFormat,
		evaluation.OverallScore,
		orDefault(evaluation.ExecutiveSnapshot, "Not provided"),
		orDefault(strings.Join(evaluation.Strengths, ", "), "None identified"),
		orDefault(strings.Join(evaluation.Concerns, ", "), "None identified"),
		orDefault(strings.Join(evaluation.Recommendations, ", "), "None provided"),
		message,
	)
}

// buildSimilarStartupsPrompt asks the model for case studies grounded in the
// search results and the evaluation context.
func buildSimilarStartupsPrompt(results []types.SearchSnippet, evaluation types.EvaluationResult) string {
	var b strings.Builder
	b.WriteString("Based on these search results about similar startups, generate 3-4 realistic startup case studies that are relevant to the evaluated startup idea.\n\nSEARCH RESULTS:\n")
	for _, r := range results {
		fmt.Fprintf(&b, "%s: %s\n", r.Title, r.Content)
	}
	fmt.Fprintf(&b, `
EVALUATION CONTEXT:
- Overall Score: %d/100
- Industry Focus: Based on the startup answers
- Key Strengths: %s
- Main Weaknesses: %s

Generate 3-4 startup case studies in this JSON format:
{
  "startups": [
    {
      "name": "Startup Name",
      "status": "successful|failed|struggling",
      "description": "Brief description of what they did",
      "reason": "Why they succeeded/failed (1-2 sentences)",
      "relevance": "How this relates to the evaluated startup"
    }
  ]
}

Make them realistic and relevant to the evaluated startup's industry and challenges.`,
		evaluation.OverallScore,
		strings.Join(evaluation.Strengths, ", "),
		strings.Join(evaluation.Weaknesses, ", "),
	)
	return b.String()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
