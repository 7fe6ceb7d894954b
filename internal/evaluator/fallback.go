package evaluator

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/launchlens/startup-meter/internal/types"
)

// FallbackEvaluation synthesizes a structurally complete evaluation without
// any external call. The overall score is derived from how many questions
// were answered (count x 10, capped at 100) plus a random perturbation in
// [0,20); each sub-score sits in [overall, overall+9] capped at 100. All
// textual content is fixed so the shape is always valid.
func FallbackEvaluation(answers types.AnswerSet) types.EvaluationResult {
	baseScore := min(100, answers.Answered()*10+rand.Intn(20))

	subScore := func() int {
		return min(100, baseScore+rand.Intn(10))
	}

	return types.EvaluationResult{
		ExecutiveSnapshot: "Unable to generate AI evaluation. Please check API configuration.",
		OverallScore:      baseScore,
		IndividualScores: types.IndividualScores{
			Clarity:         subScore(),
			MarketFit:       subScore(),
			Feasibility:     subScore(),
			Differentiation: subScore(),
		},
		Strengths: []string{
			"Clear value proposition identified",
			"Strong market timing awareness",
			"Well-defined customer persona",
		},
		Weaknesses: []string{
			"Competitive advantage needs more clarity",
			"Revenue model could be more specific",
			"Risk mitigation strategies need development",
		},
		Opportunities: []string{
			"Market expansion potential",
			"Technology advancement opportunities",
		},
		Threats: []string{
			"Competitive pressure",
			"Market saturation risk",
		},
		PatternMatch: types.PatternMatch{
			Successful: types.CaseStudy{
				Name:   "TechFlow (Series A, $15M raised)",
				Reason: "Similar clarity score and market timing. Strong execution focus led to successful Series A.",
			},
			Failed: types.CaseStudy{
				Name:   "DataSync (Failed in 2 years)",
				Reason: "Weak go-to-market strategy despite good product. Poor customer acquisition led to failure.",
			},
		},
		Recommendations: []string{
			"Focus on building stronger moats around your competitive advantage",
			"Develop more detailed financial projections",
			"Create a comprehensive risk management plan",
		},
		NextQuestion: "What's your biggest concern about this startup idea?",
		BusinessValuation: types.Indicator{
			Level:       types.LevelYellow,
			Text:        "40-70%",
			Description: "Needs more validation",
		},
		FundingReadiness: types.Indicator{
			Level:       types.LevelYellow,
			Text:        "40-70%",
			Description: "Needs more validation",
		},
		MarketMomentum: types.Indicator{
			Level:       types.LevelGreen,
			Text:        ">15% CAGR",
			Description: "Fast-growing sector, hot",
		},
		RiskExposure: types.Indicator{
			Level:       types.LevelRed,
			Text:        "High",
			Description: "4+ risks, high fragility",
		},
	}
}

// fallbackSimilarStartups is the fixed case-study set used when the
// similar-startups pass cannot reach the model.
func fallbackSimilarStartups() []types.SimilarStartup {
	return []types.SimilarStartup{
		{
			Name:        "TechFlow (Series A, $15M raised)",
			Status:      "successful",
			Description: "Similar clarity score and market timing",
			Reason:      "Strong execution focus led to successful Series A",
			Relevance:   "Shows importance of clear execution strategy",
		},
		{
			Name:        "DataSync (Failed in 2 years)",
			Status:      "failed",
			Description: "Weak go-to-market strategy despite good product",
			Reason:      "Poor customer acquisition led to failure",
			Relevance:   "Highlights need for strong customer acquisition",
		},
		{
			Name:        "CloudBase (Acquired for $50M)",
			Status:      "successful",
			Description: "Strong differentiation and market fit",
			Reason:      "Focused on enterprise customers from day one",
			Relevance:   "Demonstrates value of clear market focus",
		},
		{
			Name:        "StartupX (Seed stage, struggling)",
			Status:      "struggling",
			Description: "Good product but poor market timing",
			Reason:      "Failed to adapt to changing customer needs",
			Relevance:   "Shows importance of market timing and adaptability",
		},
	}
}

// fallbackChatResponse routes a follow-up question to a canned reply based
// on simple keyword matching against the user's message.
func fallbackChatResponse(message string, evaluation types.EvaluationPayload) string {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "score") || strings.Contains(lower, "rating"):
		verdict := "significant areas for improvement"
		if evaluation.OverallScore >= 70 {
			verdict = "strong potential"
		} else if evaluation.OverallScore >= 50 {
			verdict = "moderate potential"
		}
		return fmt.Sprintf("Your overall score is %d/100. This indicates %s.", evaluation.OverallScore, verdict)
	case strings.Contains(lower, "strength") || strings.Contains(lower, "good"):
		top := "Clear value proposition and market awareness"
		if len(evaluation.Strengths) > 0 {
			top = strings.Join(firstN(evaluation.Strengths, 2), " and ")
		}
		return fmt.Sprintf("Your main strengths are: %s. Focus on building these further.", top)
	case strings.Contains(lower, "weakness") || strings.Contains(lower, "problem") || strings.Contains(lower, "concern"):
		top := "Competitive advantage and revenue model"
		if len(evaluation.Concerns) > 0 {
			top = strings.Join(firstN(evaluation.Concerns, 2), " and ")
		}
		return fmt.Sprintf("Key areas to improve: %s. These should be your top priorities.", top)
	case strings.Contains(lower, "recommend") || strings.Contains(lower, "next") || strings.Contains(lower, "should"):
		rec := "Focus on building stronger competitive moats"
		if len(evaluation.Recommendations) > 0 {
			rec = evaluation.Recommendations[0]
		}
		return fmt.Sprintf("Based on your evaluation, I recommend: %s.", rec)
	default:
		return fmt.Sprintf("I've analyzed your startup idea and given it a %d/100 score. What specific aspect would you like to discuss?", evaluation.OverallScore)
	}
}

// fallbackMarketInsights derives fixed funding-story insights from the
// individual scores, mirroring what the AI-backed path produces.
func fallbackMarketInsights(evaluation types.EvaluationPayload) []types.MarketInsight {
	var insights []types.MarketInsight

	if evaluation.IndividualScores.Clarity > 60 {
		insights = append(insights, types.MarketInsight{
			StartupName:  "ClearVision AI",
			FundingRound: "Series A",
			Amount:       "$12M",
			Insight:      "Your startup shows strong clarity like ClearVision AI, which just raised $12M Series A. They succeeded by focusing on a single, well-defined problem and building a clear value proposition that resonated with enterprise customers.",
		})
	}
	if evaluation.IndividualScores.MarketFit > 60 {
		insights = append(insights, types.MarketInsight{
			StartupName:  "MarketFit Solutions",
			FundingRound: "Seed",
			Amount:       "$3.5M",
			Insight:      "Similar to MarketFit Solutions' recent $3.5M seed round, your startup demonstrates strong market understanding. They won by deeply understanding their customer's pain points and building features that directly addressed those needs.",
		})
	}
	if evaluation.IndividualScores.Feasibility > 50 {
		insights = append(insights, types.MarketInsight{
			StartupName:  "FeasibleTech",
			FundingRound: "Series B",
			Amount:       "$25M",
			Insight:      "FeasibleTech's $25M Series B success mirrors your feasibility score. They focused on building a robust technical foundation and proving scalability before seeking major funding rounds.",
		})
	}
	if evaluation.IndividualScores.Differentiation < 40 {
		insights = append(insights, types.MarketInsight{
			StartupName:  "DifferentiateNow",
			FundingRound: "Series A",
			Amount:       "$8M",
			Insight:      "DifferentiateNow faced similar differentiation challenges but raised $8M Series A by pivoting to a niche market and building proprietary technology that competitors couldn't easily replicate.",
		})
	}

	insights = append(insights,
		types.MarketInsight{
			StartupName:  "StartupFlow",
			FundingRound: "Seed",
			Amount:       "$2.8M",
			Insight:      "StartupFlow's recent $2.8M seed round shows the importance of early customer validation. They succeeded by getting 100+ paying customers before raising their seed round, proving product-market fit.",
		},
		types.MarketInsight{
			StartupName:  "InnovateCorp",
			FundingRound: "Series A",
			Amount:       "$15M",
			Insight:      "InnovateCorp's $15M Series A demonstrates the value of strong founding team experience. They leveraged their previous startup exits to build credibility with investors and accelerate their funding timeline.",
		},
	)

	if len(insights) > 4 {
		insights = insights[:4]
	}
	return insights
}

// fallbackMarketNews is the fixed news set used when search is unavailable.
func fallbackMarketNews() []types.NewsItem {
	return []types.NewsItem{
		{
			Source:  "TechCrunch",
			Date:    "2 hours ago",
			Title:   "AI Health Startup Raises $50M Series B for Predictive Medicine Platform",
			Summary: "MedPredict AI secured $50M in Series B funding to expand its AI-powered disease prediction platform. The startup has shown 85% accuracy in predicting chronic diseases 6 months before clinical symptoms appear.",
			Tags:    []string{"funding", "healthcare", "AI"},
		},
		{
			Source:  "Forbes",
			Date:    "4 hours ago",
			Title:   "YC-Backed Startup Closes $12M Seed Round for Biomarker Monitoring",
			Summary: "BioSense Technologies, a Y Combinator graduate, raised $12M to develop continuous biomarker monitoring devices. The funding will accelerate FDA approval for their glucose and cortisol tracking platform.",
			Tags:    []string{"funding", "healthcare", "biotech"},
		},
		{
			Source:  "VentureBeat",
			Date:    "6 hours ago",
			Title:   "Preventive Health Market Sees 40% Growth as Consumers Embrace Proactive Care",
			Summary: "The preventive healthcare market reached $280B globally, driven by increased consumer awareness and AI-powered health optimization tools. Startups focusing on early disease detection are seeing record funding rounds.",
			Tags:    []string{"market", "healthcare", "trends"},
		},
		{
			Source:  "Crunchbase",
			Date:    "8 hours ago",
			Title:   "HealthTech Unicorn Valued at $2.8B After Latest Funding Round",
			Summary: "WellnessAI, a preventive health platform, achieved unicorn status with a $2.8B valuation. The company's AI-driven health optimization has helped 1M+ users prevent chronic diseases through early intervention.",
			Tags:    []string{"funding", "healthcare", "unicorn"},
		},
	}
}

func firstN(items []string, n int) []string {
	if len(items) < n {
		return items
	}
	return items[:n]
}
