package report

import (
	"sort"

	"github.com/civicpulse/civicpulse/internal/records"
)

// PolicySentiment is the feedback polarity on one policy.
type PolicySentiment struct {
	PolicyID      int64                `json:"policy_id"`
	Title         string               `json:"title"`
	Status        records.PolicyStatus `json:"status"`
	FeedbackCount int                  `json:"feedback_count"`
	Positive      int                  `json:"positive"`
	Neutral       int                  `json:"neutral"`
	Negative      int                  `json:"negative"`
}

// NegativePct is the negative share of the policy's feedback.
func (p PolicySentiment) NegativePct() float64 {
	if p.FeedbackCount == 0 {
		return 0
	}
	return float64(p.Negative) / float64(p.FeedbackCount) * 100
}

// AnalyzePolicies breaks feedback sentiment down per policy, most discussed
// first. Every policy gets a row. Feedback without a policy or naming an
// unknown one is skipped, and unanalysed feedback counts as neutral.
func AnalyzePolicies(policies []records.Policy, feedback []records.Feedback) []PolicySentiment {
	out := make([]PolicySentiment, len(policies))
	index := make(map[int64]*PolicySentiment, len(policies))
	for i, p := range policies {
		out[i] = PolicySentiment{PolicyID: p.ID, Title: p.Title, Status: p.Status}
		index[p.ID] = &out[i]
	}

	for _, f := range feedback {
		if f.PolicyID == nil {
			continue
		}
		p, ok := index[*f.PolicyID]
		if !ok {
			continue
		}
		p.FeedbackCount++
		switch f.Sentiment {
		case records.SentimentPositive:
			p.Positive++
		case records.SentimentNegative:
			p.Negative++
		default:
			p.Neutral++
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FeedbackCount != out[j].FeedbackCount {
			return out[i].FeedbackCount > out[j].FeedbackCount
		}
		return out[i].PolicyID < out[j].PolicyID
	})
	return out
}
