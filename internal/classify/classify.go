package classify

import (
	"sort"
	"strings"

	"github.com/civicpulse/civicpulse/internal/records"
	"github.com/civicpulse/civicpulse/internal/sentiment"
	"github.com/civicpulse/civicpulse/internal/taxonomy"
)

const maxThemes = 3

// Advisory texts attached by GenerateInsights.
const (
	InsightEscalate   = "Negative sentiment on an urgent matter: escalate to the responsible ministry immediately."
	InsightCorruption = "Possible corruption allegation: refer to the Inspectorate of Government for investigation."
	InsightBrief      = "Description is brief: request more details from the citizen to speed up resolution."
)

// Result is the full classification of one piece of citizen text.
type Result struct {
	Category     string            `json:"category"`
	MinistryCode string            `json:"ministry_code,omitempty"`
	Priority     records.Priority  `json:"priority"`
	Themes       []string          `json:"themes"`
	Sentiment    records.Sentiment `json:"sentiment"`
	Polarity     float64           `json:"polarity"`
	Confidence   float64           `json:"confidence"`
	Insights     []string          `json:"insights"`
}

// Classifier classifies complaint and feedback text by keyword scoring.
type Classifier struct {
	tax    *taxonomy.Taxonomy
	scorer sentiment.Scorer
}

// New creates a classifier. A nil taxonomy selects taxonomy.Default and a nil
// scorer selects the built-in lexicon.
func New(tax *taxonomy.Taxonomy, scorer sentiment.Scorer) *Classifier {
	if tax == nil {
		tax = taxonomy.Default()
	}
	if scorer == nil {
		scorer = sentiment.NewLexicon()
	}
	return &Classifier{tax: tax, scorer: scorer}
}

// Categorize returns the category whose keywords match the text most often.
// Ties go to the entry that appears first in the taxonomy.
func (c *Classifier) Categorize(text string) string {
	scores := c.tax.Scores(strings.ToLower(text))
	best, bestScore := -1, 0
	for i, s := range scores {
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 {
		return taxonomy.OtherCategory
	}
	return c.tax.Category(best)
}

// MinistryCodeFor returns the ministry code mapped to a category.
func (c *Classifier) MinistryCodeFor(category string) (string, bool) {
	return c.tax.MinistryCode(category)
}

// ExtractThemes returns up to three matching themes, best first.
func (c *Classifier) ExtractThemes(text string) []string {
	scores := c.tax.Scores(strings.ToLower(text))

	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	var themes []string
	for _, i := range idx {
		if scores[i] == 0 || len(themes) == maxThemes {
			break
		}
		themes = append(themes, c.tax.Theme(i))
	}
	if len(themes) == 0 {
		return []string{taxonomy.GeneralTheme}
	}
	return themes
}

// AssessPriority grades the urgency of complaint text.
func (c *Classifier) AssessPriority(text string) records.Priority {
	lower := strings.ToLower(text)
	urgent := c.tax.UrgentMatches(lower)

	if urgent >= 2 || c.tax.HasCriticalTerm(lower) {
		return records.PriorityUrgent
	}
	if urgent >= 1 || c.tax.HighMatches(lower) >= 2 {
		return records.PriorityHigh
	}
	return records.PriorityNormal
}

// AnalyzeSentiment buckets the scorer's polarity.
func (c *Classifier) AnalyzeSentiment(text string) records.Sentiment {
	return bucket(c.scorer.Polarity(text))
}

func bucket(polarity float64) records.Sentiment {
	switch {
	case polarity > taxonomy.PositiveThreshold:
		return records.SentimentPositive
	case polarity < taxonomy.NegativeThreshold:
		return records.SentimentNegative
	default:
		return records.SentimentNeutral
	}
}

// GenerateInsights runs every classifier over the text and adds advisories.
func (c *Classifier) GenerateInsights(text string) Result {
	category := c.Categorize(text)
	code, _ := c.MinistryCodeFor(category)
	priority := c.AssessPriority(text)
	themes := c.ExtractThemes(text)
	polarity := c.scorer.Polarity(text)
	sent := bucket(polarity)

	insights := []string{}
	if sent == records.SentimentNegative && priority == records.PriorityUrgent {
		insights = append(insights, InsightEscalate)
	}
	if strings.Contains(strings.ToLower(text), "corruption") {
		insights = append(insights, InsightCorruption)
	}
	if len(strings.Fields(text)) < 10 {
		insights = append(insights, InsightBrief)
	}

	return Result{
		Category:     category,
		MinistryCode: code,
		Priority:     priority,
		Themes:       themes,
		Sentiment:    sent,
		Polarity:     polarity,
		// Not clamped to [0,1].
		Confidence: 0.75 + 0.05*float64(len(themes)),
		Insights:   insights,
	}
}
