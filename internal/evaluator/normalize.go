package evaluator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/launchlens/startup-meter/internal/types"
)

// extractJSON returns the substring spanning the first '{' and the last
// '}' in text. The model tends to wrap its JSON in prose, so the widest
// brace span is taken and handed to the parser.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return text[start : end+1], nil
}

// parseEvaluation converts the model's raw reply into a validated
// EvaluationResult. Any failure is returned as an error; the orchestrator
// routes errors to the fallback generator.
func parseEvaluation(raw string) (types.EvaluationResult, error) {
	var result types.EvaluationResult

	extracted, err := extractJSON(raw)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal([]byte(extracted), &result); err != nil {
		return result, fmt.Errorf("failed to parse evaluation JSON: %w", err)
	}

	if err := validateEvaluation(&result); err != nil {
		return result, fmt.Errorf("evaluation failed validation: %w", err)
	}

	return result, nil
}

// validateEvaluation enforces the response contract: scores in range and
// the core list fields present. Model output is otherwise untrusted text,
// so a shape violation here is as fatal as a syntax error.
func validateEvaluation(e *types.EvaluationResult) error {
	scores := map[string]int{
		"overallScore":    e.OverallScore,
		"clarity":         e.IndividualScores.Clarity,
		"marketFit":       e.IndividualScores.MarketFit,
		"feasibility":     e.IndividualScores.Feasibility,
		"differentiation": e.IndividualScores.Differentiation,
	}
	for name, score := range scores {
		if score < 0 || score > 100 {
			return fmt.Errorf("%s out of range: %d", name, score)
		}
	}

	lists := map[string][]string{
		"strengths":       e.Strengths,
		"weaknesses":      e.Weaknesses,
		"recommendations": e.Recommendations,
	}
	for name, list := range lists {
		if len(list) == 0 {
			return fmt.Errorf("missing required field: %s", name)
		}
	}

	return nil
}

// parseSimilarStartups extracts the case-study list from the model reply
// of the similar-startups pass.
func parseSimilarStartups(raw string) ([]types.SimilarStartup, error) {
	extracted, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Startups []types.SimilarStartup `json:"startups"`
	}
	if err := json.Unmarshal([]byte(extracted), &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse similar startups JSON: %w", err)
	}

	return decoded.Startups, nil
}

// parseMarketInsights extracts the insight list from the model reply of
// the market-insights pass.
func parseMarketInsights(raw string) ([]types.MarketInsight, error) {
	extracted, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Insights []types.MarketInsight `json:"insights"`
	}
	if err := json.Unmarshal([]byte(extracted), &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse market insights JSON: %w", err)
	}

	return decoded.Insights, nil
}

// normalizeChatReply pulls the advisor's answer out of a JSON-wrapped
// reply. Unlike evaluation parsing there is no structured fallback: the
// reply is a plain string, so on any failure the raw text is returned
// unchanged.
func normalizeChatReply(raw string) string {
	extracted, err := extractJSON(raw)
	if err != nil {
		return raw
	}

	var decoded struct {
		Response string `json:"response"`
		Message  string `json:"message"`
	}
	if err := json.Unmarshal([]byte(extracted), &decoded); err != nil {
		return raw
	}

	if decoded.Response != "" {
		return decoded.Response
	}
	if decoded.Message != "" {
		return decoded.Message
	}
	return raw
}
