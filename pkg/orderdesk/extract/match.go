package extract

import (
	"strings"

	"github.com/orderdesk/orderdesk/pkg/orderdesk/catalog"
)

// ReasonNoProduct is the rejection reason for segments that match no
// catalog entry, or match ambiguously.
const ReasonNoProduct = "no product recognized"

// MatchResult is either a resolved product code or an unresolved reason.
type MatchResult struct {
	Code   string
	Reason string
}

// Resolved reports whether the match found a product.
func (m MatchResult) Resolved() bool { return m.Reason == "" }

type matchEntry struct {
	code       string // canonical catalog code
	normCode   string
	aliases    []string // normalized
	brandToken string   // first word of the normalized display name
	sizeToken  string   // last word of the normalized display name
}

// Matcher resolves normalized segment text to catalog entries. All catalog
// codes and aliases are normalized once at construction, mirroring the
// segment-side normalization.
type Matcher struct {
	entries    []matchEntry
	brandCount map[string]int // products per brand token
}

// NewMatcher precomputes the matching tables for an immutable catalog.
func NewMatcher(cat *catalog.Catalog) *Matcher {
	m := &Matcher{brandCount: make(map[string]int)}
	for _, p := range cat.Products() {
		e := matchEntry{
			code:     p.Code,
			normCode: Normalize(p.Code),
			aliases:  make([]string, 0, len(p.Aliases)),
		}
		for _, a := range p.Aliases {
			if norm := Normalize(a); norm != "" {
				e.aliases = append(e.aliases, norm)
			}
		}
		words := strings.Fields(Normalize(p.DisplayName))
		if len(words) > 0 {
			e.brandToken = words[0]
			e.sizeToken = words[len(words)-1]
		}
		m.entries = append(m.entries, e)
		m.brandCount[e.brandToken]++
	}
	return m
}

// Match resolves normalized segment text to a product code. Resolution
// order, first hit wins:
//
//  1. the normalized catalog code appears as a substring,
//  2. a full normalized alias phrase appears,
//  3. exactly one brand token appears; if that brand has several sizes the
//     segment must name a size token, otherwise the match is ambiguous.
func (m *Matcher) Match(norm string) MatchResult {
	if norm == "" {
		return MatchResult{Reason: ReasonNoProduct}
	}

	for _, e := range m.entries {
		if strings.Contains(norm, e.normCode) {
			return MatchResult{Code: e.code}
		}
	}

	for _, e := range m.entries {
		for _, alias := range e.aliases {
			if containsWord(norm, alias) {
				return MatchResult{Code: e.code}
			}
		}
	}

	return m.matchBrand(norm)
}

func (m *Matcher) matchBrand(norm string) MatchResult {
	var brand string
	var candidates []matchEntry
	for _, e := range m.entries {
		if e.brandToken == "" || !containsWord(norm, e.brandToken) {
			continue
		}
		if brand != "" && e.brandToken != brand {
			// Two distinct brands in one segment: ambiguous.
			return MatchResult{Reason: ReasonNoProduct}
		}
		brand = e.brandToken
		candidates = append(candidates, e)
	}

	switch len(candidates) {
	case 0:
		return MatchResult{Reason: ReasonNoProduct}
	case 1:
		return MatchResult{Code: candidates[0].code}
	}

	// Several sizes share this brand token; only an explicit size token
	// naming exactly one of them disambiguates.
	var hit *matchEntry
	for i := range candidates {
		if candidates[i].sizeToken != "" && containsWord(norm, candidates[i].sizeToken) {
			if hit != nil {
				return MatchResult{Reason: ReasonNoProduct}
			}
			hit = &candidates[i]
		}
	}
	if hit == nil {
		return MatchResult{Reason: ReasonNoProduct}
	}
	return MatchResult{Code: hit.code}
}
