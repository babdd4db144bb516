package dispatch

import (
	"fmt"
	"strings"
	"time"
)

// SentinelAnswer is substituted when the remote answer set is shorter than
// the question batch or an answer comes back blank.
const SentinelAnswer = "No answer provided"

const sentinelReasoning = "Unable to find relevant information in the provided documents."

// QueryResult is one answered question. Results are index-aligned with the
// question batch that produced them and owned by the caller after return.
type QueryResult struct {
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Confidence float64   `json:"confidence"`
	Sources    []string  `json:"sources"`
	Reasoning  string    `json:"reasoning"`
	Timestamp  time.Time `json:"timestamp"`
}

// ScoreConfidence rates answer specificity on a 0.1-1.0 scale. The thresholds
// are a crude heuristic, not a calibrated probability: answers carrying
// numbers, percentages, or duration units score higher, as do long answers.
func ScoreConfidence(answer string) float64 {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" || trimmed == SentinelAnswer {
		return 0.1
	}

	score := 0.6
	lower := strings.ToLower(answer)
	if strings.ContainsAny(lower, "0123456789%") ||
		strings.Contains(lower, "months") ||
		strings.Contains(lower, "years") {
		score += 0.2
	}
	if len(answer) > 100 {
		score += 0.2
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// BuildReasoning produces the explanatory text attached to a result. This is
// presentation scaffolding, not verified provenance tracing.
func BuildReasoning(question, answer string) string {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" || trimmed == SentinelAnswer {
		return sentinelReasoning
	}
	return fmt.Sprintf("Analyzed the question %q and extracted the answer from matching policy clauses in the document.",
		strings.ToLower(question))
}
