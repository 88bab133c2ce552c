// Package textnorm provides a deterministic text normalizer applied to
// OCR-extracted text before classification
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKC normalization
// 3 Remove zero-width and format chars
// 4 Width fold fullwidth to ASCII
// 5 Normalize line endings to \n and trim trailing blanks per line
// Indentation, case, and blank lines inside the body are preserved on
// purpose: the detection engine scores line structure
package textnorm

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalizer is concurrency safe when used with the pool below
type Normalizer struct{}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize returns the normalized form of s following the pipeline described above
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2-4 transform via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	// 5 line endings and trailing blanks
	ns = strings.ReplaceAll(ns, "\r\n", "\n")
	ns = strings.ReplaceAll(ns, "\r", "\n")
	lines := strings.Split(ns, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	ns = strings.Join(lines, "\n")

	return strings.TrimRight(ns, "\n")
}
