package types

import "strings"

// QuestionCount is the number of fixed validation questions every
// evaluation is built from.
const QuestionCount = 10

// MinAnsweredQuestions is how many questions must carry a non-empty
// answer before an evaluation is allowed to run.
const MinAnsweredQuestions = 7

// AnswerSet holds the founder's free-text answers, one slot per fixed
// question. Empty slots are permitted and skipped by the prompt builder.
type AnswerSet []string

// Answered returns the number of answers that are non-empty after trimming.
func (a AnswerSet) Answered() int {
	n := 0
	for _, answer := range a {
		if strings.TrimSpace(answer) != "" {
			n++
		}
	}
	return n
}

// SearchSnippet is a single web-search result used to enrich the
// evaluation prompt. Snippets are ephemeral and never persisted.
type SearchSnippet struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// IndividualScores holds the four named sub-scores, each 0-100.
type IndividualScores struct {
	Clarity         int `json:"clarity"`
	MarketFit       int `json:"marketFit"`
	Feasibility     int `json:"feasibility"`
	Differentiation int `json:"differentiation"`
}

// CaseStudy names a comparable startup and why it succeeded or failed.
type CaseStudy struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// PatternMatch pairs one successful and one failed comparable startup.
type PatternMatch struct {
	Successful CaseStudy `json:"successful"`
	Failed     CaseStudy `json:"failed"`
}

// IndicatorLevel is the traffic-light level of a qualitative badge.
type IndicatorLevel string

const (
	LevelGreen  IndicatorLevel = "green"
	LevelYellow IndicatorLevel = "yellow"
	LevelRed    IndicatorLevel = "red"
)

// Indicator is a qualitative badge: a level, a short label and a short
// description.
type Indicator struct {
	Level       IndicatorLevel `json:"level"`
	Text        string         `json:"text"`
	Description string         `json:"description"`
}

// SimilarStartup is a generated case study relevant to the evaluated idea.
type SimilarStartup struct {
	Name        string `json:"name"`
	Status      string `json:"status"` // successful, failed, struggling
	Description string `json:"description"`
	Reason      string `json:"reason"`
	Relevance   string `json:"relevance"`
}

// EvaluationResult is the structured scoring object produced by the
// evaluation pipeline. It is immutable once constructed.
type EvaluationResult struct {
	ExecutiveSnapshot string           `json:"executiveSnapshot"`
	OverallScore      int              `json:"overallScore"`
	IndividualScores  IndividualScores `json:"individualScores"`
	Strengths         []string         `json:"strengths"`
	Weaknesses        []string         `json:"weaknesses"`
	Opportunities     []string         `json:"opportunities"`
	Threats           []string         `json:"threats"`
	PatternMatch      PatternMatch     `json:"patternMatch"`
	Recommendations   []string         `json:"recommendations"`
	NextQuestion      string           `json:"nextQuestion"`
	BusinessValuation Indicator        `json:"businessValuation"`
	FundingReadiness  Indicator        `json:"fundingReadiness"`
	MarketMomentum    Indicator        `json:"marketMomentum"`
	RiskExposure      Indicator        `json:"riskExposure"`
	SimilarStartups   []SimilarStartup `json:"similarStartups,omitempty"`
}

// MarketInsight ties the evaluated idea to a recent funding story.
type MarketInsight struct {
	StartupName  string `json:"startupName"`
	FundingRound string `json:"fundingRound"`
	Amount       string `json:"amount"`
	Insight      string `json:"insight"`
}

// NewsItem is a market-news entry surfaced alongside an evaluation.
type NewsItem struct {
	Source  string   `json:"source"`
	Date    string   `json:"date"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// EvaluateRequest is the request body for the evaluate endpoint.
type EvaluateRequest struct {
	Answers []string `json:"answers" binding:"required"`
}

// EvaluationPayload is the wire shape of an evaluation. The internal
// result uses "weaknesses" and a single nextQuestion; the API has always
// exposed "concerns" and a nextSteps array, so the rename happens here.
type EvaluationPayload struct {
	OverallScore      int              `json:"overallScore"`
	IndividualScores  IndividualScores `json:"individualScores"`
	Strengths         []string         `json:"strengths"`
	Concerns          []string         `json:"concerns"`
	Opportunities     []string         `json:"opportunities"`
	Threats           []string         `json:"threats"`
	Recommendations   []string         `json:"recommendations"`
	NextSteps         []string         `json:"nextSteps"`
	PatternMatch      PatternMatch     `json:"patternMatch"`
	BusinessValuation Indicator        `json:"businessValuation"`
	FundingReadiness  Indicator        `json:"fundingReadiness"`
	MarketMomentum    Indicator        `json:"marketMomentum"`
	RiskExposure      Indicator        `json:"riskExposure"`
	ExecutiveSnapshot string           `json:"executiveSnapshot"`
	SimilarStartups   []SimilarStartup `json:"similarStartups,omitempty"`
}

// ToPayload converts an internal result to its wire shape.
func (e *EvaluationResult) ToPayload() EvaluationPayload {
	return EvaluationPayload{
		OverallScore:      e.OverallScore,
		IndividualScores:  e.IndividualScores,
		Strengths:         e.Strengths,
		Concerns:          e.Weaknesses,
		Opportunities:     e.Opportunities,
		Threats:           e.Threats,
		Recommendations:   e.Recommendations,
		NextSteps:         []string{e.NextQuestion},
		PatternMatch:      e.PatternMatch,
		BusinessValuation: e.BusinessValuation,
		FundingReadiness:  e.FundingReadiness,
		MarketMomentum:    e.MarketMomentum,
		RiskExposure:      e.RiskExposure,
		ExecutiveSnapshot: e.ExecutiveSnapshot,
		SimilarStartups:   e.SimilarStartups,
	}
}

// ChatRequest is the request body for the advisor chat endpoint.
type ChatRequest struct {
	Message        string         `json:"message" binding:"required"`
	EvaluationData EvaluationData `json:"evaluationData" binding:"required"`
}

// EvaluationData wraps an evaluation payload the way the frontend sends
// it back on follow-up calls.
type EvaluationData struct {
	Evaluation EvaluationPayload `json:"evaluation"`
}

// MarketDataRequest is the shared body for the insights and news endpoints.
type MarketDataRequest struct {
	Answers        []string       `json:"answers" binding:"required"`
	EvaluationData EvaluationData `json:"evaluationData" binding:"required"`
}
