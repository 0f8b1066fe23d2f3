package assistant

import "strings"

// Classifier decides whether a query is a technical-diagnostic request.
// Diagnostic queries are offered the trace tool instead of web search; the
// two are mutually exclusive per request.
type Classifier func(query string) bool

// DefaultDiagnosticKeywords are the substrings that route a query to the
// diagnostic tool. Matching is case-insensitive.
var DefaultDiagnosticKeywords = []string{
	"повільно",
	"гальмує",
	"баг",
	"performance",
	"довго",
}

// KeywordClassifier builds a substring classifier over the given keyword
// list. An empty list falls back to DefaultDiagnosticKeywords.
func KeywordClassifier(keywords []string) Classifier {
	if len(keywords) == 0 {
		keywords = DefaultDiagnosticKeywords
	}
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}
	return func(query string) bool {
		q := strings.ToLower(query)
		for _, kw := range lowered {
			if strings.Contains(q, kw) {
				return true
			}
		}
		return false
	}
}
