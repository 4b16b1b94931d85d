package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultSearchLimit caps search results when the caller passes a
// non-positive limit.
const DefaultSearchLimit = 10

const maxSuggestions = 3

// Relevance weights, strongest signal first. Exact and partial are
// mutually exclusive per signal; tag and semantic signals accumulate
// per matching entry.
const (
	scoreIDExact      = 100
	scoreIDPartial    = 50
	scoreNameExact    = 80
	scoreNamePartial  = 40
	scoreTagExact     = 30
	scoreTagPartial   = 15
	scoreAliasExact   = 25
	scoreAliasPartial = 12
	scoreUsageExact   = 20
	scoreUsagePartial = 10
)

// foldKey lowercases and NFC-normalizes a string so queries, tags and
// concepts compare consistently.
func foldKey(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// Result is one search hit with its relevance score.
type Result struct {
	Summary
	Score int `json:"score"`
}

func scoreManifest(m *Manifest, query string) int {
	score := 0

	id := foldKey(m.AssetID)
	switch {
	case query == id:
		score += scoreIDExact
	case strings.Contains(id, query):
		score += scoreIDPartial
	}

	name := foldKey(m.Name)
	switch {
	case query == name:
		score += scoreNameExact
	case strings.Contains(name, query):
		score += scoreNamePartial
	}

	for _, tag := range m.Tags {
		t := foldKey(tag)
		switch {
		case query == t:
			score += scoreTagExact
		case strings.Contains(t, query):
			score += scoreTagPartial
		}
	}

	for _, alias := range m.Semantics.HumanNames {
		a := foldKey(alias)
		switch {
		case query == a:
			score += scoreAliasExact
		case strings.Contains(a, query):
			score += scoreAliasPartial
		}
	}

	for _, usage := range m.Semantics.Usage {
		u := foldKey(usage)
		switch {
		case query == u:
			score += scoreUsageExact
		case strings.Contains(u, query):
			score += scoreUsagePartial
		}
	}

	return score
}

// Search ranks assets against a free-text query. Category, when
// non-empty, filters before scoring. Zero-score assets are excluded;
// ties keep scan order.
func (c *Catalog) Search(query, category string, limit int) []Result {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := foldKey(query)

	var results []Result
	for i, id := range c.order {
		s := c.summaries[i]
		if category != "" && s.Category != category {
			continue
		}
		score := scoreManifest(c.byID[id], q)
		if score > 0 {
			results = append(results, Result{Summary: s, Score: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// BestMatch returns the manifest of the top search hit. With
// preferLocal, the best locally available hit wins over higher-ranked
// remote ones. Nil when nothing matches.
func (c *Catalog) BestMatch(text, category string, preferLocal bool) *Manifest {
	results := c.Search(text, category, DefaultSearchLimit)
	if len(results) == 0 {
		return nil
	}
	if preferLocal {
		for _, r := range results {
			if r.Availability == AvailabilityLocal {
				return c.byID[r.AssetID]
			}
		}
	}
	return c.byID[results[0].AssetID]
}

// FindFallback returns an asset whose fallback_for list covers the
// concept. Local candidates passing the category filter win; when none
// qualifies the first candidate is returned regardless of category.
func (c *Catalog) FindFallback(concept, category string) *Manifest {
	candidates := c.byFallback[foldKey(concept)]
	for _, id := range candidates {
		m := c.byID[id]
		if category != "" && m.Category != category {
			continue
		}
		if m.Local() {
			return m
		}
	}
	if len(candidates) > 0 {
		return c.byID[candidates[0]]
	}
	return nil
}

// ResolveAsset resolves a free-form concept to a manifest: best fuzzy
// match first, fallback substitution second. Nil when both miss.
func (c *Catalog) ResolveAsset(concept, category string) *Manifest {
	if m := c.BestMatch(concept, category, true); m != nil {
		return m
	}
	return c.FindFallback(concept, category)
}

// suggest proposes ids similar to a missing one: substring containment
// in either direction first, then a shared three-character prefix.
// Scan order within each band, capped at limit.
func (c *Catalog) suggest(id string, limit int) []string {
	query := foldKey(id)
	var substrings, prefixes []string
	for _, existing := range c.order {
		candidate := foldKey(existing)
		switch {
		case strings.Contains(candidate, query) || strings.Contains(query, candidate):
			substrings = append(substrings, existing)
		case len(query) > 3 && strings.HasPrefix(candidate, query[:3]):
			prefixes = append(prefixes, existing)
		}
	}
	out := append(substrings, prefixes...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
