// Package patterns loads and compiles the code-detection rule table from the
// embedded patterns.json. Rules are immutable after load; adding one is a
// deployment-time change
package patterns

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

//go:embed patterns.json
var embedded []byte

// Kind groups rules so the engine can apply kind-specific combination logic
type Kind string

const (
	// KindKeyword matches language keywords and statement shapes
	KindKeyword Kind = "keyword"
	// KindSyntax matches operators, calls, tags, and bracket clusters
	KindSyntax Kind = "syntax"
	// KindComment matches comment and docstring markers
	KindComment Kind = "comment"
	// KindStructural matches line-level shape (indentation, terminators)
	KindStructural Kind = "structural"
)

var knownKinds = map[Kind]struct{}{
	KindKeyword:    {},
	KindSyntax:     {},
	KindComment:    {},
	KindStructural: {},
}

type rawRule struct {
	ID      string  `json:"id"`
	Kind    string  `json:"kind"`
	Pattern string  `json:"pattern"`
	Weight  float64 `json:"weight"`
}

type rawPack struct {
	Version int       `json:"version"`
	Rules   []rawRule `json:"rules"`
}

// Rule is one compiled detection rule with its evidence weight
type Rule struct {
	ID     string
	Kind   Kind
	Weight float64

	re *regexp.Regexp
}

// Match reports whether the rule matches s
func (r *Rule) Match(s string) bool { return r.re.MatchString(s) }

// Pattern returns the source expression (for logs and tests)
func (r *Rule) Pattern() string { return r.re.String() }

// Pack is the compiled rule table
type Pack struct {
	Version int
	Rules   []Rule

	// Skipped lists rule ids dropped at load time (bad regex or unknown
	// kind); each rule fails open individually, the pack still loads
	Skipped []string
}

// Kinds returns the distinct kinds present in the pack
func (p *Pack) Kinds() []Kind {
	seen := make(map[Kind]struct{}, len(knownKinds))
	var out []Kind
	for i := range p.Rules {
		k := p.Rules[i].Kind
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Load returns the compiled pack from the embedded patterns.json
func Load() (*Pack, error) {
	return parse(embedded)
}

func parse(data []byte) (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, fmt.Errorf("patterns: parse patterns.json: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("patterns: unsupported patterns.json version %d (want 1)", rp.Version)
	}

	p := &Pack{Version: rp.Version}
	for _, rr := range rp.Rules {
		id := strings.TrimSpace(rr.ID)
		if id == "" {
			continue
		}
		kind := Kind(strings.ToLower(strings.TrimSpace(rr.Kind)))
		if _, ok := knownKinds[kind]; !ok {
			p.Skipped = append(p.Skipped, id)
			continue
		}
		if rr.Weight <= 0 {
			p.Skipped = append(p.Skipped, id)
			continue
		}
		re, err := regexp.Compile(rr.Pattern)
		if err != nil {
			// one bad expression never takes the pack down
			p.Skipped = append(p.Skipped, id)
			continue
		}
		p.Rules = append(p.Rules, Rule{ID: id, Kind: kind, Weight: rr.Weight, re: re})
	}

	// Deterministic iteration for tests/debug
	sort.Slice(p.Rules, func(i, j int) bool { return p.Rules[i].ID < p.Rules[j].ID })
	sort.Strings(p.Skipped)

	return p, nil
}
