package validator

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokWord tokenKind = iota
	tokString
	tokQuotedIdent
	tokGroup
	tokSemicolon
	tokOther
)

// token is a top-level lexical unit. A parenthesised group is a single token.
type token struct {
	kind       tokenKind
	start, end int
}

func (t token) text(s string) string { return s[t.start:t.end] }

func (t token) is(s, word string) bool {
	return t.kind == tokWord && strings.EqualFold(t.text(s), word)
}

func (t token) isAny(s string, words map[string]struct{}) bool {
	if t.kind != tokWord {
		return false
	}
	_, ok := words[strings.ToUpper(t.text(s))]
	return ok
}

// inner returns the content between a group's parentheses.
func (t token) inner(s string) (int, int) {
	end := t.end
	if end > t.start+1 && s[end-1] == ')' {
		end--
	}
	return t.start + 1, end
}

// lex splits s into top-level tokens. Unterminated quotes and parentheses
// extend to the end of the input.
func lex(s string) []token {
	var toks []token
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '\'':
			end := skipQuoted(s, i, '\'')
			toks = append(toks, token{tokString, i, end})
			i = end
		case r == '"':
			end := skipQuoted(s, i, '"')
			toks = append(toks, token{tokQuotedIdent, i, end})
			i = end
		case r == '(':
			end := matchParen(s, i)
			toks = append(toks, token{tokGroup, i, end})
			i = end
		case r == ';':
			toks = append(toks, token{tokSemicolon, i, i + 1})
			i++
		case isWordStart(r):
			end := i + size
			for end < len(s) {
				r2, s2 := utf8.DecodeRuneInString(s[end:])
				if !isWordPart(r2) {
					break
				}
				end += s2
			}
			toks = append(toks, token{tokWord, i, end})
			i = end
		default:
			toks = append(toks, token{tokOther, i, i + size})
			i += size
		}
	}
	return toks
}

func isWordStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isWordPart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// skipQuoted returns the offset just past the closing quote. A doubled quote
// is an escaped quote.
func skipQuoted(s string, start int, q byte) int {
	for i := start + 1; i < len(s); i++ {
		if s[i] != q {
			continue
		}
		if i+1 < len(s) && s[i+1] == q {
			i++
			continue
		}
		return i + 1
	}
	return len(s)
}

// matchParen returns the offset just past the parenthesis closing the one at start.
func matchParen(s string, start int) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '\'', '"':
			i = skipQuoted(s, i, s[i]) - 1
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(s)
}

// startsQuery reports whether s begins with SELECT or WITH.
func startsQuery(s string) bool {
	toks := lex(s)
	if len(toks) == 0 {
		return false
	}
	return toks[0].is(s, "SELECT") || toks[0].is(s, "WITH")
}

// mentions reports whether s references the column name outside string
// literals, at any nesting depth. Qualified names such as e.cpv_code match.
func mentions(s, column string) bool {
	for _, t := range lex(s) {
		switch t.kind {
		case tokWord:
			if strings.EqualFold(t.text(s), column) {
				return true
			}
		case tokQuotedIdent:
			name := strings.Trim(t.text(s), `"`)
			if strings.EqualFold(name, column) {
				return true
			}
		case tokGroup:
			from, to := t.inner(s)
			if mentions(s[from:to], column) {
				return true
			}
		}
	}
	return false
}
