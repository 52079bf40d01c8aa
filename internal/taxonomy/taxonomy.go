// Package taxonomy holds the frozen keyword tables used to classify citizen
// text. Entry order is significant: it breaks ties during categorization.
package taxonomy

// OtherCategory is assigned when no entry matches.
const OtherCategory = "Other"

// GeneralTheme is returned when no entry matches during theme extraction.
const GeneralTheme = "general"

// Sentiment polarity thresholds.
const (
	PositiveThreshold = 0.15
	NegativeThreshold = -0.15
)

// Entry is one category definition.
type Entry struct {
	Category     string
	Theme        string
	MinistryCode string
	Ministry     string
	Keywords     []string
}

// Taxonomy is an ordered, read-only set of category definitions plus the
// priority keyword lists.
type Taxonomy struct {
	entries       []Entry
	urgent        []string
	high          []string
	criticalTerms []string
}

var defaultTaxonomy = build(
	[]Entry{
		{Category: "Infrastructure", Theme: "infrastructure", MinistryCode: "MOWT",
			Ministry: "Ministry of Works and Transport",
			Keywords: []string{"road", "bridge", "electricity", "pothole", "construction", "building", "power"}},
		{Category: "Healthcare", Theme: "healthcare", MinistryCode: "MOH",
			Ministry: "Ministry of Health",
			Keywords: []string{"hospital", "health", "doctor", "medicine", "clinic", "treatment", "nurse"}},
		{Category: "Education", Theme: "education", MinistryCode: "MOES",
			Ministry: "Ministry of Education and Sports",
			Keywords: []string{"school", "teacher", "education", "student", "university", "learning"}},
		{Category: "Water", Theme: "water", MinistryCode: "MWE",
			Ministry: "Ministry of Water and Environment",
			Keywords: []string{"water", "borehole", "sanitation", "sewage", "drainage", "tap"}},
		{Category: "Security", Theme: "security", MinistryCode: "MIA",
			Ministry: "Ministry of Internal Affairs",
			Keywords: []string{"police", "crime", "theft", "safety", "security", "robbery"}},
		{Category: "Corruption", Theme: "corruption", MinistryCode: "IG",
			Ministry: "Inspectorate of Government",
			Keywords: []string{"bribe", "corruption", "fraud", "embezzlement", "misuse"}},
		{Category: "Agriculture", Theme: "agriculture", MinistryCode: "MAAIF",
			Ministry: "Ministry of Agriculture, Animal Industry and Fisheries",
			Keywords: []string{"farm", "agriculture", "crop", "harvest", "livestock", "fertilizer"}},
		{Category: "Employment", Theme: "employment", MinistryCode: "MGLSD",
			Ministry: "Ministry of Gender, Labour and Social Development",
			Keywords: []string{"job", "employment", "unemployment", "salary", "wage"}},
	},
	[]string{"urgent", "emergency", "critical", "dying", "death", "serious", "life", "immediately"},
	[]string{"danger", "risk", "threat", "severe", "major", "serious", "critical"},
	[]string{"dying", "death", "life-threatening"},
)

// Default returns the process-wide taxonomy.
func Default() *Taxonomy {
	return defaultTaxonomy
}

// New builds a taxonomy from caller-supplied definitions. The slices are
// copied, so later changes by the caller have no effect.
func New(entries []Entry, urgent, high, criticalTerms []string) *Taxonomy {
	return build(entries, urgent, high, criticalTerms)
}

func build(entries []Entry, urgent, high, criticalTerms []string) *Taxonomy {
	t := &Taxonomy{
		entries:       make([]Entry, len(entries)),
		urgent:        append([]string(nil), urgent...),
		high:          append([]string(nil), high...),
		criticalTerms: append([]string(nil), criticalTerms...),
	}
	for i, e := range entries {
		e.Keywords = append([]string(nil), e.Keywords...)
		t.entries[i] = e
	}
	return t
}

// Entries returns a copy of the category definitions in order.
func (t *Taxonomy) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		e.Keywords = append([]string(nil), e.Keywords...)
		out[i] = e
	}
	return out
}

// Len returns the number of category definitions.
func (t *Taxonomy) Len() int { return len(t.entries) }

// MinistryCode returns the ministry code for a category.
func (t *Taxonomy) MinistryCode(category string) (string, bool) {
	for _, e := range t.entries {
		if e.Category == category {
			return e.MinistryCode, true
		}
	}
	return "", false
}

// Scores returns, for every entry in order, how many of its keywords occur in
// the already lower-cased text.
func (t *Taxonomy) Scores(lower string) []int {
	scores := make([]int, len(t.entries))
	for i, e := range t.entries {
		scores[i] = CountMatches(lower, e.Keywords)
	}
	return scores
}

// Category returns the category name of the i-th entry.
func (t *Taxonomy) Category(i int) string { return t.entries[i].Category }

// Theme returns the theme tag of the i-th entry.
func (t *Taxonomy) Theme(i int) string { return t.entries[i].Theme }

// UrgentMatches counts urgent keywords present in the lower-cased text.
func (t *Taxonomy) UrgentMatches(lower string) int { return CountMatches(lower, t.urgent) }

// HighMatches counts high-priority keywords present in the lower-cased text.
func (t *Taxonomy) HighMatches(lower string) int { return CountMatches(lower, t.high) }

// HasCriticalTerm reports whether any always-urgent term is present.
func (t *Taxonomy) HasCriticalTerm(lower string) bool {
	return CountMatches(lower, t.criticalTerms) > 0
}
