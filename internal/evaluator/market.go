package evaluator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/launchlens/startup-meter/internal/types"
)

// maxPromptSnippets bounds how many search snippets are embedded in a
// prompt so a noisy search cannot blow up the prompt size.
const maxPromptSnippets = 10

// keyTerms are the industry/technology/market keywords pulled out of the
// answers to build targeted search queries.
type keyTerms struct {
	Industry   string
	Technology string
	Market     string
}

var (
	industryKeywords   = []string{"fintech", "healthtech", "edtech", "saas", "ecommerce", "ai", "blockchain", "iot"}
	technologyKeywords = []string{"ai", "machine learning", "blockchain", "mobile app", "web platform", "api"}
	marketKeywords     = []string{"b2b", "b2c", "enterprise", "consumer", "small business", "startup"}
)

// extractKeyTerms scans the combined answer text for known keywords,
// falling back to generic terms when none match.
func extractKeyTerms(answers types.AnswerSet) keyTerms {
	allText := strings.ToLower(strings.Join(answers, " "))

	find := func(keywords []string, fallback string) string {
		for _, kw := range keywords {
			if strings.Contains(allText, kw) {
				return kw
			}
		}
		return fallback
	}

	return keyTerms{
		Industry:   find(industryKeywords, "tech"),
		Technology: find(technologyKeywords, "software"),
		Market:     find(marketKeywords, "business"),
	}
}

// marketDataQueries is the fixed query set used to ground an evaluation in
// current market context. One set only; the year is the only moving part.
func marketDataQueries() []string {
	return []string{
		fmt.Sprintf("startup market trends %d", time.Now().Year()),
		"startup failure rates statistics",
		"venture capital funding trends",
		"startup valuation benchmarks",
	}
}

// similarStartupQueries targets the extracted key terms at case-study
// material for the similar-startups pass.
func similarStartupQueries(terms keyTerms) []string {
	return []string{
		terms.Industry + " startup success stories",
		terms.Industry + " startup failures",
		terms.Technology + " startup case studies",
		terms.Market + " startup funding news",
	}
}

// GatherMarketData fans out the fixed market queries and returns a bounded
// prefix of the flattened results. Individual query failures degrade to
// empty result sets.
func (s *Service) GatherMarketData(ctx context.Context, answers types.AnswerSet) []types.SearchSnippet {
	if !s.searchEnabled() {
		return nil
	}

	results := s.tavily.searchAll(ctx, marketDataQueries())
	if len(results) > maxPromptSnippets {
		results = results[:maxPromptSnippets]
	}
	return results
}
