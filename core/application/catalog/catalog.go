package catalog

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/diavgeia-watch/diavgeia/core/domain"
)

const (
	// DefaultLimit applies when Search is called with a non-positive limit
	DefaultLimit = 5
	// DefaultMinScore keeps single-token hits and drops prefix-only noise
	DefaultMinScore = 10

	codeScore    = 100
	wordScore    = 10
	partialScore = 5
)

type indexed struct {
	domain.Category
	keywords []string
	allText  string
}

// Catalog resolves free text to CPV procurement categories.
// It is immutable after New and safe for concurrent use.
type Catalog struct {
	entries []indexed
}

// New indexes the curated CPV table.
func New() *Catalog {
	c := &Catalog{entries: make([]indexed, 0, len(entries))}
	for _, e := range entries {
		kw := strings.Fields(strings.ToLower(e.kwGR))
		kw = append(kw, strings.Fields(strings.ToLower(e.kwEN))...)
		c.entries = append(c.entries, indexed{
			Category: domain.Category{
				Code:          e.code,
				DescriptionEN: e.en,
				DescriptionGR: e.gr,
			},
			keywords: kw,
			allText:  strings.ToLower(strings.Join([]string{e.en, e.gr, e.kwGR, e.kwEN}, " ")),
		})
	}
	return c
}

// Len returns the number of categories in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Search scores every category against query and returns the best matches,
// highest score first. Equal scores keep catalog order.
func (c *Catalog) Search(query string, limit, minScore int) []domain.CategoryMatch {
	if limit <= 0 {
		limit = DefaultLimit
	}

	lowered := strings.ToLower(strings.TrimSpace(query))
	undashed := strings.ReplaceAll(lowered, "-", "")
	words := tokens(lowered)

	var matches []domain.CategoryMatch
	for _, e := range c.entries {
		score := 0
		if strings.HasPrefix(undashed, e.Code[:4]) {
			score += codeScore
		}
		for _, w := range words {
			if strings.Contains(e.allText, w) {
				score += wordScore
			}
			if utf8.RuneCountInString(w) < 4 {
				continue
			}
			for _, kw := range e.keywords {
				if strings.HasPrefix(kw, w) || strings.HasPrefix(w, kw) {
					score += partialScore
				}
			}
		}
		if score >= minScore {
			matches = append(matches, domain.CategoryMatch{Category: e.Category, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Code looks up a category by code. Dashes are ignored and a longer code
// matches the first catalog entry it extends.
func (c *Catalog) Code(code string) (*domain.Category, bool) {
	clean := strings.TrimSpace(strings.ReplaceAll(code, "-", ""))
	if clean == "" {
		return nil, false
	}
	for _, e := range c.entries {
		if e.Code == clean || strings.HasPrefix(clean, e.Code) {
			cat := e.Category
			return &cat, true
		}
	}
	return nil, false
}

// Summary lists one line per two-digit CPV division.
func (c *Catalog) Summary() string {
	divisions := make(map[string]string)
	for _, e := range c.entries {
		prefix := e.Code[:2]
		if _, ok := divisions[prefix]; !ok {
			divisions[prefix] = e.DescriptionEN
		}
	}

	prefixes := make([]string, 0, len(divisions))
	for p := range divisions {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)

	lines := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		lines = append(lines, fmt.Sprintf("%sxxxxxx = %s", p, divisions[p]))
	}
	return strings.Join(lines, "\n")
}

// PromptTable renders the full catalog as a pipe-separated reference table.
func (c *Catalog) PromptTable() string {
	var b strings.Builder
	b.WriteString("CPV Code | English | Greek\n")
	b.WriteString(strings.Repeat("-", 60))
	for _, e := range c.entries {
		fmt.Fprintf(&b, "\n%s | %s | %s", e.Code, e.DescriptionEN, e.DescriptionGR)
	}
	return b.String()
}

func tokens(lowered string) []string {
	var out []string
	for _, w := range strings.Fields(lowered) {
		if _, stop := stopwords[w]; stop {
			continue
		}
		if utf8.RuneCountInString(w) < 3 {
			continue
		}
		out = append(out, w)
	}
	return out
}
