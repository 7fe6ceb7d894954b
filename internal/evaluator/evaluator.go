// Package evaluator implements the startup evaluation pipeline: prompt
// construction, the chat-completion and web-search clients, response
// normalization, and the fallback generator that keeps the pipeline
// returning well-formed results when anything external fails.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/launchlens/startup-meter/internal/config"
	"github.com/launchlens/startup-meter/internal/monitoring"
	"github.com/launchlens/startup-meter/internal/types"
)

// Service orchestrates one evaluation request end to end. Each stage
// returns (value, error); only Service decides when to route a failure to
// the fallback generator, so the always-degrade policy lives in exactly
// one place. Service is safe for concurrent use: per-request state stays
// on the stack, the clients and metrics are read-only after construction.
type Service struct {
	deepseek *deepseekClient
	tavily   *tavilyClient
	metrics  *monitoring.Metrics

	aiEnabled func() bool
}

// NewService wires the pipeline from the loaded configuration.
func NewService(cfg config.Config, metrics *monitoring.Metrics) *Service {
	return &Service{
		deepseek:  newDeepSeekClient(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL),
		tavily:    newTavilyClient(cfg.TavilyAPIKey, cfg.TavilyBaseURL),
		metrics:   metrics,
		aiEnabled: cfg.AIConfigured,
	}
}

func (s *Service) searchEnabled() bool {
	return s.tavily.apiKey != ""
}

// Evaluate runs the full pipeline for one answer set. It never returns an
// error: any failure along the way degrades to the fallback generator so
// the caller always receives a well-formed result.
func (s *Service) Evaluate(ctx context.Context, answers types.AnswerSet) types.EvaluationResult {
	if !s.aiEnabled() {
		slog.Info("Chat-completion API key not configured, using fallback evaluation")
		s.metrics.IncrementFallback()
		return fallbackWithStartups(answers)
	}

	marketData := s.GatherMarketData(ctx, answers)
	prompt := BuildPrompt(answers, marketData)

	start := time.Now()
	raw, err := s.deepseek.Chat(ctx, prompt)
	s.metrics.RecordExternalAPIRequest("deepseek", err == nil, time.Since(start))
	if err != nil {
		slog.Error("Chat completion failed, using fallback evaluation", "error", err)
		s.metrics.IncrementFallback()
		return fallbackWithStartups(answers)
	}

	result, err := parseEvaluation(raw)
	if err != nil {
		slog.Error("Failed to normalize evaluation response, using fallback", "error", err)
		s.metrics.IncrementFallback()
		return fallbackWithStartups(answers)
	}

	// The second model pass depends on the parsed scores, so it runs
	// strictly after normalization.
	result.SimilarStartups = s.SimilarStartups(ctx, answers, result)

	return result
}

// fallbackWithStartups pairs the synthesized evaluation with the fixed
// case-study set so degraded results carry the same shape as AI ones.
func fallbackWithStartups(answers types.AnswerSet) types.EvaluationResult {
	result := FallbackEvaluation(answers)
	result.SimilarStartups = fallbackSimilarStartups()
	return result
}

// SimilarStartups generates 3-4 case studies relevant to the evaluated
// idea, grounded in targeted web searches. Falls back to a fixed set on
// any failure.
func (s *Service) SimilarStartups(ctx context.Context, answers types.AnswerSet, evaluation types.EvaluationResult) []types.SimilarStartup {
	if !s.aiEnabled() {
		return fallbackSimilarStartups()
	}

	terms := extractKeyTerms(answers)
	results := s.tavily.searchAll(ctx, similarStartupQueries(terms))
	if len(results) > maxPromptSnippets {
		results = results[:maxPromptSnippets]
	}

	prompt := buildSimilarStartupsPrompt(results, evaluation)

	start := time.Now()
	raw, err := s.deepseek.Chat(ctx, prompt)
	s.metrics.RecordExternalAPIRequest("deepseek", err == nil, time.Since(start))
	if err != nil {
		slog.Warn("Similar startups generation failed, using fallback", "error", err)
		return fallbackSimilarStartups()
	}

	startups, err := parseSimilarStartups(raw)
	if err != nil || len(startups) == 0 {
		slog.Warn("Failed to parse similar startups, using fallback", "error", err)
		return fallbackSimilarStartups()
	}

	return startups
}

// ChatResponse answers a follow-up question about an existing evaluation.
// Returns a plain string; degraded mode routes through keyword-matched
// canned replies.
func (s *Service) ChatResponse(ctx context.Context, message string, evaluation types.EvaluationPayload) string {
	if !s.aiEnabled() {
		return fallbackChatResponse(message, evaluation)
	}

	prompt := buildChatPrompt(message, evaluation)

	start := time.Now()
	raw, err := s.deepseek.Chat(ctx, prompt)
	s.metrics.RecordExternalAPIRequest("deepseek", err == nil, time.Since(start))
	if err != nil {
		slog.Warn("Chat response generation failed, using fallback", "error", err)
		return fallbackChatResponse(message, evaluation)
	}

	return normalizeChatReply(raw)
}

// MarketInsights produces funding-story insights tied to the evaluation.
// The AI-backed path summarizes fresh search results; otherwise the
// score-derived fixed set is returned.
func (s *Service) MarketInsights(ctx context.Context, answers types.AnswerSet, evaluation types.EvaluationPayload) []types.MarketInsight {
	if !s.aiEnabled() || !s.searchEnabled() {
		return fallbackMarketInsights(evaluation)
	}

	terms := extractKeyTerms(answers)
	results := s.tavily.searchAll(ctx, []string{
		terms.Industry + " startup funding rounds",
		terms.Market + " startup funding news",
	})
	if len(results) == 0 {
		return fallbackMarketInsights(evaluation)
	}
	if len(results) > maxPromptSnippets {
		results = results[:maxPromptSnippets]
	}

	prompt := buildMarketInsightsPrompt(results, evaluation)

	start := time.Now()
	raw, err := s.deepseek.Chat(ctx, prompt)
	s.metrics.RecordExternalAPIRequest("deepseek", err == nil, time.Since(start))
	if err != nil {
		slog.Warn("Market insights generation failed, using fallback", "error", err)
		return fallbackMarketInsights(evaluation)
	}

	insights, err := parseMarketInsights(raw)
	if err != nil || len(insights) == 0 {
		slog.Warn("Failed to parse market insights, using fallback", "error", err)
		return fallbackMarketInsights(evaluation)
	}

	return insights
}

// MarketNews surfaces recent funding and market news relevant to the
// answers. Search-backed; fixed set when search is unavailable or empty.
func (s *Service) MarketNews(ctx context.Context, answers types.AnswerSet) []types.NewsItem {
	if !s.searchEnabled() {
		return fallbackMarketNews()
	}

	terms := extractKeyTerms(answers)
	results := s.tavily.searchAll(ctx, []string{
		terms.Industry + " startup news " + fmt.Sprint(time.Now().Year()),
		terms.Technology + " funding announcement",
	})
	if len(results) == 0 {
		return fallbackMarketNews()
	}

	news := make([]types.NewsItem, 0, len(results))
	for _, r := range results {
		summary := r.Content
		if len(summary) > 280 {
			summary = summary[:280]
		}
		news = append(news, types.NewsItem{
			Source:  "Web",
			Date:    time.Now().Format("Jan 2"),
			Title:   r.Title,
			Summary: summary,
			Tags:    []string{terms.Industry, "news"},
		})
	}
	if len(news) > 6 {
		news = news[:6]
	}
	return news
}

const marketInsightsPromptFormat = `Based on these search results about recent startup funding, generate up to 4 short insights that connect the evaluated startup to real funding stories.

SEARCH RESULTS:
%s

EVALUATION CONTEXT:
- Overall Score: %d/100
- Clarity: %d, Market Fit: %d, Feasibility: %d, Differentiation: %d

Respond in this EXACT JSON format:
{
  "insights": [
    {
      "startupName": "Startup Name",
      "fundingRound": "Seed|Series A|Series B",
      "amount": "$XM",
      "insight": "2-3 sentences connecting the story to the evaluated startup"
    }
  ]
}`

func buildMarketInsightsPrompt(results []types.SearchSnippet, evaluation types.EvaluationPayload) string {
	var lines []string
	for _, r := range results {
		lines = append(lines, r.Title+": "+r.Content)
	}
	return fmt.Sprintf(marketInsightsPromptFormat,
		strings.Join(lines, "\n"),
		evaluation.OverallScore,
		evaluation.IndividualScores.Clarity,
		evaluation.IndividualScores.MarketFit,
		evaluation.IndividualScores.Feasibility,
		evaluation.IndividualScores.Differentiation,
	)
}
