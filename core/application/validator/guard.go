package validator

import (
	"sort"
	"strings"
	"unicode"

	"github.com/diavgeia-watch/diavgeia/core/domain"
)

const (
	categoryColumn = "cpv_code"
	orgColumn      = "org_id"
)

func wordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

var (
	whereTerminators = wordSet("GROUP", "ORDER", "HAVING", "LIMIT", "OFFSET", "UNION",
		"INTERSECT", "EXCEPT", "WINDOW", "FETCH", "FOR", "RETURNING")
	onTerminators = wordSet("GROUP", "ORDER", "HAVING", "LIMIT", "OFFSET", "UNION",
		"INTERSECT", "EXCEPT", "WINDOW", "FETCH", "FOR", "RETURNING",
		"JOIN", "LEFT", "RIGHT", "INNER", "FULL", "CROSS", "NATURAL", "WHERE")
)

var (
	comparisonOps = wordSet("=", "<>", "!=", "<", ">", "<=", ">=")
	literalWords  = wordSet("NULL", "TRUE", "FALSE")
)

type span struct{ start, end int }

type predicateList struct {
	where   bool
	keyword int // offset of WHERE/ON
	span
	toks []token
}

// StripUngrounded removes WHERE and JOIN ... ON conjuncts that filter on
// cpv_code without a category hint or on org_id without an org hint.
// Everything else in the statement is left byte-for-byte intact. It returns
// the rewritten statement and the removed conjuncts.
func StripUngrounded(sql string, g domain.Grounding) (string, []string) {
	if g.Category && g.Org {
		return sql, nil
	}
	return strip(sql, g)
}

func strip(sql string, g domain.Grounding) (string, []string) {
	rewritten, removed := stripNested(sql, g)

	var cuts []span
	for _, list := range predicateLists(rewritten) {
		c, r := stripList(rewritten, list, g)
		cuts = append(cuts, c...)
		removed = append(removed, r...)
	}
	if len(cuts) == 0 {
		return rewritten, removed
	}

	sort.Slice(cuts, func(i, j int) bool { return cuts[i].start < cuts[j].start })
	var b strings.Builder
	prev := 0
	for _, c := range cuts {
		if c.start < prev {
			continue
		}
		b.WriteString(rewritten[prev:c.start])
		prev = c.end
	}
	b.WriteString(rewritten[prev:])
	return b.String(), removed
}

// stripNested rewrites every parenthesised sub-select, at any depth, before
// the enclosing statement is examined.
func stripNested(s string, g domain.Grounding) (string, []string) {
	var (
		b       strings.Builder
		removed []string
		prev    int
		changed bool
	)
	for _, t := range lex(s) {
		if t.kind != tokGroup {
			continue
		}
		from, to := t.inner(s)
		inner := s[from:to]

		var out string
		var r []string
		if startsQuery(inner) {
			out, r = strip(inner, g)
		} else {
			out, r = stripNested(inner, g)
		}
		removed = append(removed, r...)
		if out == inner {
			continue
		}
		changed = true
		b.WriteString(s[prev:from])
		b.WriteString(out)
		prev = to
	}
	if !changed {
		return s, removed
	}
	b.WriteString(s[prev:])
	return b.String(), removed
}

// predicateLists finds the top-level WHERE lists and the ON lists that follow a JOIN.
func predicateLists(s string) []predicateList {
	toks := lex(s)
	var lists []predicateList
	sawJoin := false

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t.is(s, "JOIN"):
			sawJoin = true
		case t.is(s, "WHERE"), t.is(s, "ON") && sawJoin:
			where := t.is(s, "WHERE")
			terms := onTerminators
			if where {
				terms = whereTerminators
			} else {
				sawJoin = false
			}

			j := i + 1
			for j < len(toks) && toks[j].kind != tokSemicolon && !toks[j].isAny(s, terms) {
				j++
			}
			end := len(s)
			if j < len(toks) {
				end = toks[j].start
			}
			lists = append(lists, predicateList{
				where:   where,
				keyword: t.start,
				span:    span{t.end, end},
				toks:    toks[i+1 : j],
			})
			i = j - 1
		}
	}
	return lists
}

// conjuncts splits a predicate list on top-level AND. The AND of a BETWEEN
// and any AND inside CASE ... END are not split points.
func conjuncts(s string, list predicateList) []span {
	var (
		out         []span
		start       = list.start
		betweenOpen bool
		caseDepth   int
	)
	for _, t := range list.toks {
		switch {
		case t.is(s, "BETWEEN"):
			betweenOpen = true
		case t.is(s, "CASE"):
			caseDepth++
		case t.is(s, "END") && caseDepth > 0:
			caseDepth--
		case t.is(s, "AND"):
			if caseDepth > 0 {
				continue
			}
			if betweenOpen {
				betweenOpen = false
				continue
			}
			out = append(out, trimmed(s, start, t.start))
			start = t.end
		}
	}
	return append(out, trimmed(s, start, list.end))
}

func trimmed(s string, start, end int) span {
	c := span{start, end}
	for c.start < c.end && unicode.IsSpace(rune(s[c.start])) {
		c.start++
	}
	for c.end > c.start && unicode.IsSpace(rune(s[c.end-1])) {
		c.end--
	}
	return c
}

// ungrounded reports whether a conjunct filters a guarded column. A
// comparison between two column references is a join key and never is.
func ungrounded(text string, g domain.Grounding) bool {
	if columnComparison(text) {
		return false
	}
	if !g.Category && mentions(text, categoryColumn) {
		return true
	}
	return !g.Org && mentions(text, orgColumn)
}

// stripList computes the byte ranges to delete from one predicate list.
func stripList(s string, list predicateList, g domain.Grounding) ([]span, []string) {
	parts := conjuncts(s, list)
	drop := make([]bool, len(parts))
	var removed []string
	firstKept := -1
	for i, p := range parts {
		text := s[p.start:p.end]
		if text != "" && ungrounded(text, g) {
			drop[i] = true
			removed = append(removed, text)
		} else if firstKept < 0 {
			firstKept = i
		}
	}
	if len(removed) == 0 {
		return nil, nil
	}

	if firstKept < 0 {
		if !list.where {
			// a join keeps its condition
			return nil, nil
		}
		from := list.keyword
		for from > 0 && unicode.IsSpace(rune(s[from-1])) {
			from--
		}
		return []span{{from, parts[len(parts)-1].end}}, removed
	}

	var cuts []span
	for i, p := range parts {
		if !drop[i] {
			continue
		}
		if i < firstKept {
			// leading conjuncts go up to the first survivor
			cuts = append(cuts, span{p.start, parts[i+1].start})
			continue
		}
		cuts = append(cuts, span{parts[i-1].end, p.end})
	}
	return cuts, removed
}

// columnComparison reports whether text is exactly "<column> <op> <column>",
// such as o.uid = d.org_id.
func columnComparison(text string) bool {
	toks := lex(text)
	i, ok := columnRef(text, toks, 0)
	if !ok {
		return false
	}

	var op strings.Builder
	for ; i < len(toks) && toks[i].kind == tokOther && strings.ContainsAny(toks[i].text(text), "=<>!"); i++ {
		op.WriteString(toks[i].text(text))
	}
	if _, ok := comparisonOps[op.String()]; !ok {
		return false
	}

	end, ok := columnRef(text, toks, i)
	return ok && end == len(toks)
}

// columnRef consumes a possibly qualified column name starting at toks[i]
// and returns the index after it.
func columnRef(s string, toks []token, i int) (int, bool) {
	for {
		if i >= len(toks) {
			return i, false
		}
		t := toks[i]
		if t.kind != tokQuotedIdent && (t.kind != tokWord || t.isAny(s, literalWords)) {
			return i, false
		}
		i++
		if i < len(toks) && toks[i].kind == tokOther && toks[i].text(s) == "." {
			i++
			continue
		}
		return i, true
	}
}
