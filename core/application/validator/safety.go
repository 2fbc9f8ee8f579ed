package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/diavgeia-watch/diavgeia/core/domain"
)

type rule struct {
	name    string
	pattern *regexp.Regexp
}

// rules run against the uppercased statement, in order
var rules = []rule{
	{"mutating keyword", regexp.MustCompile(`\b(INSERT|UPDATE|DELETE|DROP|ALTER|CREATE|TRUNCATE|GRANT|REVOKE)\b`)},
	{"INTO/SET clause", regexp.MustCompile(`\b(INTO|SET)\b\s`)},
	{"multiple statements", regexp.MustCompile(`;\s*\w`)},
	{"line comment", regexp.MustCompile(`--`)},
	{"block comment", regexp.MustCompile(`/\*`)},
	{"EXEC", regexp.MustCompile(`\bEXEC\b`)},
	{"EXECUTE", regexp.MustCompile(`\bEXECUTE\b`)},
	{"extended procedure", regexp.MustCompile(`\bXP_\w+`)},
	{"engine function", regexp.MustCompile(`\bPG_\w+\s*\(`)},
}

// Check decides whether a statement may reach the store. Only single
// SELECT/WITH statements without denylisted tokens are accepted.
func Check(sql string) domain.Verdict {
	trimmed := strings.TrimSpace(sql)
	v := domain.Verdict{SQL: trimmed}

	if trimmed == "" {
		v.Reason = "empty statement"
		return v
	}

	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		v.Reason = "statement must start with SELECT or WITH"
		return v
	}

	for _, r := range rules {
		if m := r.pattern.FindString(upper); m != "" {
			v.Reason = fmt.Sprintf("blocked by %s rule (matched %q)", r.name, strings.TrimSpace(m))
			return v
		}
	}

	v.Accepted = true
	return v
}

// IsSafe reports whether Check accepts the statement.
func IsSafe(sql string) bool {
	return Check(sql).Accepted
}

// Validate strips ungrounded filters and then runs the safety gate on the result.
func Validate(sql string, g domain.Grounding) domain.Verdict {
	stripped, removed := StripUngrounded(sql, g)
	v := Check(stripped)
	v.Stripped = removed
	return v
}
