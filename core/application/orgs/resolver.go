package orgs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/diavgeia-watch/diavgeia/core/domain"
	"github.com/diavgeia-watch/diavgeia/core/domain/interfaces"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
	"github.com/diavgeia-watch/diavgeia/core/shared/text"
)

// DefaultFuzzyFloor is the minimum trigram similarity accepted from the store
const DefaultFuzzyFloor = 0.2

type alias struct {
	name string
	uid  string
}

// Resolver maps organization names, in Greek or English, to Diavgeia UIDs.
// The curated index is built once and never modified.
type Resolver struct {
	byUID   map[string]domain.Organization
	byAlias map[string]string
	aliases []alias
	finder  interfaces.OrgFinder
	floor   float64
	logger  logging.Logger
}

// New builds the curated index. finder may be nil, which disables the fuzzy fallback.
func New(finder interfaces.OrgFinder, fuzzyFloor float64) *Resolver {
	if fuzzyFloor <= 0 {
		fuzzyFloor = DefaultFuzzyFloor
	}
	r := &Resolver{
		byUID:   make(map[string]domain.Organization, len(directory)),
		byAlias: make(map[string]string),
		finder:  finder,
		floor:   fuzzyFloor,
		logger:  logging.New("orgs"),
	}

	for _, o := range directory {
		r.byUID[o.uid] = domain.Organization{UID: o.uid, Label: o.label}
		for _, a := range o.aliases {
			r.index(a, o.uid)
		}
		r.index(o.label, o.uid)
	}
	return r
}

func (r *Resolver) index(name, uid string) {
	key := text.Lower(name)
	if _, exists := r.byAlias[key]; exists {
		// first position wins, latest mapping wins
		for i := range r.aliases {
			if r.aliases[i].name == key {
				r.aliases[i].uid = uid
			}
		}
	} else {
		r.aliases = append(r.aliases, alias{name: key, uid: uid})
	}
	r.byAlias[key] = uid
}

// Resolve finds the organization the text refers to. It tries the UID, then an
// exact alias, then the longest alias overlapping the text, then the store.
func (r *Resolver) Resolve(ctx context.Context, query string) (*domain.Organization, bool) {
	clean := text.Lower(query)
	if clean == "" {
		return nil, false
	}

	if org, ok := r.byUID[clean]; ok {
		return &org, true
	}

	if uid, ok := r.byAlias[clean]; ok {
		org := r.byUID[uid]
		return &org, true
	}

	best, bestScore := "", 0
	for _, a := range r.aliases {
		if !overlaps(clean, a.name) {
			continue
		}
		if score := utf8.RuneCountInString(a.name); score > bestScore {
			best, bestScore = a.uid, score
		}
	}
	if best != "" {
		org := r.byUID[best]
		return &org, true
	}

	return r.fuzzy(ctx, clean)
}

func (r *Resolver) fuzzy(ctx context.Context, clean string) (*domain.Organization, bool) {
	if r.finder == nil {
		return nil, false
	}

	candidate, err := r.finder.FindOrganization(ctx, clean)
	if err != nil {
		r.logger.Warnf("Fuzzy organization lookup failed: %v", err)
		return nil, false
	}
	if candidate == nil || candidate.Similarity <= r.floor {
		return nil, false
	}

	r.logger.Debugf("Fuzzy match '%s' -> %s (%.2f)", clean, candidate.UID, candidate.Similarity)
	org := candidate.Organization
	return &org, true
}

// Search returns every curated organization overlapping the text, shortest label first.
func (r *Resolver) Search(query string, limit int) []domain.Organization {
	clean := text.Lower(query)
	if clean == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var results []domain.Organization
	for _, a := range r.aliases {
		if !overlaps(clean, a.name) {
			continue
		}
		if _, dup := seen[a.uid]; dup {
			continue
		}
		seen[a.uid] = struct{}{}
		results = append(results, r.byUID[a.uid])
	}

	sort.SliceStable(results, func(i, j int) bool {
		return utf8.RuneCountInString(results[i].Label) < utf8.RuneCountInString(results[j].Label)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Get returns a curated organization by UID.
func (r *Resolver) Get(uid string) (domain.Organization, bool) {
	org, ok := r.byUID[strings.TrimSpace(uid)]
	return org, ok
}

// PromptTable renders the first n directory entries with up to two aliases each.
func (r *Resolver) PromptTable(n int) string {
	if n <= 0 || n > len(directory) {
		n = len(directory)
	}

	var b strings.Builder
	b.WriteString("UID | Organization\n")
	b.WriteString(strings.Repeat("-", 50))
	for _, o := range directory[:n] {
		aka := o.aliases
		if len(aka) > 2 {
			aka = aka[:2]
		}
		fmt.Fprintf(&b, "\n%s | %s (aka: %s)", o.uid, o.label, strings.Join(aka, ", "))
	}
	return b.String()
}

func overlaps(query, name string) bool {
	return strings.Contains(name, query) || strings.Contains(query, name)
}
