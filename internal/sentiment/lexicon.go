// Package sentiment provides polarity scoring for citizen text.
package sentiment

import (
	"strings"
	"unicode"
)

// Scorer returns a polarity in [-1, 1] for a piece of text.
type Scorer interface {
	Polarity(text string) float64
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(text string) float64

// Polarity calls f(text).
func (f ScorerFunc) Polarity(text string) float64 { return f(text) }

// Lexicon scores text by averaging the polarity of known words, flipping and
// damping words that follow a negator and boosting words after an intensifier.
type Lexicon struct {
	words        map[string]float64
	negators     map[string]bool
	intensifiers map[string]float64
}

// NewLexicon returns a scorer backed by the built-in English word list.
func NewLexicon() *Lexicon {
	return &Lexicon{
		words:        defaultWords,
		negators:     defaultNegators,
		intensifiers: defaultIntensifiers,
	}
}

// Polarity implements Scorer.
func (l *Lexicon) Polarity(text string) float64 {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	var sum float64
	var n int
	negate := false
	boost := 1.0
	for _, tok := range tokens {
		if l.negators[tok] || strings.HasSuffix(tok, "n't") {
			negate = true
			continue
		}
		if m, ok := l.intensifiers[tok]; ok {
			boost *= m
			continue
		}
		p, ok := l.words[tok]
		if !ok {
			continue
		}
		p *= boost
		if negate {
			p *= -0.5
		}
		sum += clamp(p)
		n++
		negate = false
		boost = 1.0
	}
	if n == 0 {
		return 0
	}
	return clamp(sum / float64(n))
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

var defaultNegators = map[string]bool{
	"not": true, "no": true, "never": true, "nothing": true, "nobody": true,
	"none": true, "without": true, "cannot": true,
}

var defaultIntensifiers = map[string]float64{
	"very": 1.3, "extremely": 1.5, "really": 1.2, "so": 1.2, "too": 1.2,
	"totally": 1.4, "completely": 1.4, "highly": 1.3,
}

var defaultWords = map[string]float64{
	// positive
	"good": 0.7, "great": 0.8, "excellent": 1.0, "best": 1.0, "better": 0.5,
	"happy": 0.8, "satisfied": 0.6, "pleased": 0.6, "thank": 0.4, "thanks": 0.4,
	"grateful": 0.7, "helpful": 0.6, "improved": 0.5, "improvement": 0.4,
	"efficient": 0.6, "fast": 0.3, "quick": 0.3, "clean": 0.4, "safe": 0.5,
	"support": 0.3, "supportive": 0.5, "fair": 0.4, "appreciate": 0.6,
	"wonderful": 1.0, "nice": 0.6, "welcome": 0.5, "positive": 0.5,
	"beneficial": 0.6, "effective": 0.6, "responsive": 0.5, "reliable": 0.5,
	"love": 0.5, "agree": 0.3, "progress": 0.3, "working": 0.2, "resolved": 0.4,
	// negative
	"bad": -0.7, "poor": -0.4, "terrible": -1.0, "worst": -1.0, "worse": -0.5,
	"awful": -1.0, "horrible": -1.0, "angry": -0.5, "sad": -0.5, "unhappy": -0.6,
	"disappointed": -0.75, "frustrated": -0.6, "slow": -0.3, "dirty": -0.6,
	"broken": -0.4, "dangerous": -0.6, "unsafe": -0.5, "corrupt": -0.6,
	"corruption": -0.4, "unfair": -0.5, "ignored": -0.5, "neglected": -0.5,
	"failed": -0.5, "failure": -0.5, "problem": -0.3, "problems": -0.3,
	"delay": -0.3, "delayed": -0.3, "lack": -0.3, "lacking": -0.3,
	"shortage": -0.4, "useless": -0.5, "sick": -0.7, "dying": -0.6,
	"death": -0.6, "dead": -0.2, "hate": -0.8, "wrong": -0.5, "stolen": -0.5,
	"abandoned": -0.5, "inadequate": -0.5, "expensive": -0.5, "painful": -0.7,
	"suffering": -0.6, "collapsed": -0.5, "flooded": -0.4,
}
