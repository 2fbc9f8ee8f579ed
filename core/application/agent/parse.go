package agent

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/diavgeia-watch/diavgeia/core/domain"
)

const extractedThinking = "Extracted SQL from non-JSON response"

var (
	openFence    = regexp.MustCompile("^```(?:json)?\\s*")
	closeFence   = regexp.MustCompile("\\s*```$")
	flatObject   = regexp.MustCompile(`(?s)\{[^{}]*"sql"[^{}]*\}`)
	bareSelectRe = regexp.MustCompile(`(?is)(SELECT\s.+?)(?:;|\z)`)
)

// reply mirrors the JSON object the backend is asked to produce. The
// resolved_* fields are raw because backends send strings, nulls and
// occasionally numbers.
type reply struct {
	SQL              string          `json:"sql"`
	Thinking         string          `json:"thinking"`
	Explanation      string          `json:"explanation"`
	ResolvedOrg      json.RawMessage `json:"resolved_org"`
	ResolvedCategory json.RawMessage `json:"resolved_cpv"`
}

// parseReply extracts a GeneratedQuery from raw backend content. An
// unparseable reply yields an empty query.
func parseReply(content string) domain.GeneratedQuery {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = openFence.ReplaceAllString(content, "")
		content = closeFence.ReplaceAllString(content, "")
	}

	if q, ok := decode(content); ok {
		return q
	}
	if m := flatObject.FindString(content); m != "" {
		if q, ok := decode(m); ok {
			return q
		}
	}
	if m := bareSelectRe.FindStringSubmatch(content); m != nil {
		return domain.GeneratedQuery{
			SQL:      strings.TrimSpace(m[1]),
			Thinking: extractedThinking,
		}
	}
	return domain.GeneratedQuery{}
}

func decode(s string) (domain.GeneratedQuery, bool) {
	var r reply
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return domain.GeneratedQuery{}, false
	}
	return domain.GeneratedQuery{
		SQL:              strings.TrimSpace(r.SQL),
		Thinking:         r.Thinking,
		Explanation:      r.Explanation,
		ResolvedOrg:      resolvedValue(r.ResolvedOrg),
		ResolvedCategory: resolvedValue(r.ResolvedCategory),
	}, true
}

// resolvedValue reads a string-or-null field. The literal "null" and
// non-string scalars other than numbers count as absent.
func resolvedValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if strings.EqualFold(s, "null") {
			return ""
		}
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
