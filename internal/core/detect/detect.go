// Package detect implements heuristic code detection over message text
package detect

import (
	"math"
	"strings"

	"codewarden/internal/core/patterns"
	"codewarden/internal/platform/logger"
)

// Source indicates where the classified text came from
type Source string

const (
	// SourceText is message body text
	SourceText Source = "text"
	// SourceOCR is text extracted from an image attachment
	SourceOCR Source = "ocr"
)

// Verdict is the classification output for one text body; not persisted
type Verdict struct {
	IsCode     bool     `json:"is_code"`
	Confidence float64  `json:"confidence"`
	Matched    []string `json:"matched,omitempty"`
	Source     Source   `json:"source"`
}

// Options controls engine behavior; all values are fixed constants per
// engine, never derived per call
type Options struct {
	// Threshold separates is_code=true from false on the normalized scale
	Threshold float64
	// Saturation is the k in 1-exp(-raw/k); raises how fast evidence saturates
	Saturation float64
	// CorroborationBonus scales the raw score up per extra distinct rule
	// kind matched; cross-category evidence compounds super-additively
	CorroborationBonus float64
	// AmbiguousLow/High bound the middle band where structural bonuses apply
	AmbiguousLow  float64
	AmbiguousHigh float64
	// IndentBonus and BracketBonus are the structural nudges inside the band
	IndentBonus  float64
	BracketBonus float64
	// MinLength is the minimum trimmed input size worth scoring
	MinLength int
	// DampenerPenalty subtracts per conversational phrase, DampenerMax caps it
	DampenerPenalty float64
	DampenerMax     float64
}

// withDefaults fills zero values with the tuned constants
func (o Options) withDefaults() Options {
	if o.Threshold <= 0 {
		o.Threshold = 0.5
	}
	if o.Saturation <= 0 {
		o.Saturation = 1.2
	}
	if o.CorroborationBonus <= 0 {
		o.CorroborationBonus = 0.25
	}
	if o.AmbiguousLow <= 0 {
		o.AmbiguousLow = 0.35
	}
	if o.AmbiguousHigh <= 0 {
		o.AmbiguousHigh = o.Threshold
	}
	if o.IndentBonus <= 0 {
		o.IndentBonus = 0.08
	}
	if o.BracketBonus <= 0 {
		o.BracketBonus = 0.07
	}
	if o.MinLength <= 0 {
		o.MinLength = 10
	}
	if o.DampenerPenalty <= 0 {
		o.DampenerPenalty = 0.05
	}
	if o.DampenerMax <= 0 {
		o.DampenerMax = 0.2
	}
	return o
}

// conversational phrases that drag ambiguous prose away from the threshold
var dampenerPhrases = []string{
	"i think",
	"what do you think",
	"in my opinion",
	"i believe",
	"how are you",
	"thanks",
	"thank you",
	"please help",
	"can you",
	"could you",
	"would you",
	"question about",
}

// Engine scores text against the pattern pack; pure in-memory, never blocks
type Engine struct {
	pack *patterns.Pack
	opts Options
}

// New creates an Engine with default options
func New(p *patterns.Pack) *Engine {
	return NewWithOptions(p, Options{})
}

// NewWithOptions creates an Engine with explicit tunables
func NewWithOptions(p *patterns.Pack, opts Options) *Engine {
	return &Engine{pack: p, opts: opts.withDefaults()}
}

// Threshold returns the active positive cutoff
func (e *Engine) Threshold() float64 { return e.opts.Threshold }

// Classify scores text and returns a verdict. It never returns an error:
// a rule that fails to evaluate is skipped and excluded from scoring
func (e *Engine) Classify(text string, source Source) Verdict {
	v := Verdict{Source: source}

	trimmed := strings.TrimSpace(text)
	if len(trimmed) < e.opts.MinLength {
		return v
	}

	var (
		raw     float64
		matched []string
	)
	kindsHit := make(map[patterns.Kind]struct{}, 4)

	for i := range e.pack.Rules {
		r := &e.pack.Rules[i]
		if !matchRule(r, text) {
			continue
		}
		raw += r.Weight
		matched = append(matched, r.ID)
		kindsHit[r.Kind] = struct{}{}
	}

	if raw <= 0 {
		return v
	}
	v.Matched = matched

	// Cross-category corroboration compounds; repeated same-kind hits only
	// contribute their weights
	if n := len(kindsHit); n > 1 {
		raw *= 1 + e.opts.CorroborationBonus*float64(n-1)
	}

	// Saturating normalization: diminishing returns after the first few
	// strong matches
	conf := 1 - math.Exp(-raw/e.opts.Saturation)

	conf -= e.dampener(trimmed)
	if conf < 0 {
		conf = 0
	}

	// Structural tie-break inside the ambiguous band. The bonus needs at
	// least one keyword or syntax match behind it; shape alone never flips
	// a verdict
	_, kw := kindsHit[patterns.KindKeyword]
	_, syn := kindsHit[patterns.KindSyntax]
	if (kw || syn) && conf >= e.opts.AmbiguousLow && conf < e.opts.AmbiguousHigh {
		bonus := 0.0
		if hasConsistentIndent(text) {
			bonus += e.opts.IndentBonus
		}
		if hasBalancedPairs(text) {
			bonus += e.opts.BracketBonus
		}
		conf += bonus
	}

	if conf > 1 {
		conf = 1
	}

	v.Confidence = conf
	v.IsCode = conf >= e.opts.Threshold
	return v
}

// matchRule guards each rule evaluation; a rule that panics on some input
// is excluded from scoring for that call only
func matchRule(r *patterns.Rule, text string) (ok bool) {
	defer func() {
		if v := recover(); v != nil {
			ok = false
			logger.Named("detect").Debug().
				Str("rule", r.ID).
				Interface("panic", v).
				Msg("pattern rule failed to evaluate, skipped")
		}
	}()
	return r.Match(text)
}

// dampener subtracts a small penalty per conversational phrase present
func (e *Engine) dampener(text string) float64 {
	lower := strings.ToLower(text)
	penalty := 0.0
	for _, phrase := range dampenerPhrases {
		if strings.Contains(lower, phrase) {
			penalty += e.opts.DampenerPenalty
		}
	}
	if penalty > e.opts.DampenerMax {
		penalty = e.opts.DampenerMax
	}
	return penalty
}

// hasConsistentIndent reports whether at least two non-blank lines share a
// common leading-whitespace prefix
func hasConsistentIndent(text string) bool {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return false
	}
	var prefix string
	count := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lead := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if lead == "" {
			continue
		}
		if prefix == "" {
			prefix = lead
			count = 1
			continue
		}
		if strings.HasPrefix(lead, prefix) || strings.HasPrefix(prefix, lead) {
			count++
		}
	}
	return count >= 2
}

// hasBalancedPairs reports whether the text contains at least one matched
// bracket, paren, or brace pair
func hasBalancedPairs(text string) bool {
	pairs := [][2]rune{{'(', ')'}, {'[', ']'}, {'{', '}'}}
	for _, p := range pairs {
		open := strings.Count(text, string(p[0]))
		closed := strings.Count(text, string(p[1]))
		if open > 0 && open == closed {
			return true
		}
	}
	return false
}
