package domain

// HintKind classifies a piece of grounding information attached to a prompt.
type HintKind string

const (
	HintOrg      HintKind = "org"
	HintCategory HintKind = "category"
	HintTerm     HintKind = "term"
	HintBudget   HintKind = "budget"
	HintTaxID    HintKind = "taxid"
	HintDocument HintKind = "document"
)

// Hint is advisory. Only org and category hints ground the filter guard.
type Hint struct {
	Kind   HintKind `json:"kind"`
	Value  string   `json:"value"`
	Label  string   `json:"label"`
	Filter string   `json:"filter,omitempty"`
	// Text is the line rendered into the prompt's context hints.
	Text string `json:"text"`
}

// Grounding reports which guarded filter fields the current question may use.
type Grounding struct {
	Category bool
	Org      bool
}

// GroundingOf derives the guard flags from a hint set.
func GroundingOf(hints []Hint) Grounding {
	var g Grounding
	for _, h := range hints {
		switch h.Kind {
		case HintCategory:
			g.Category = true
		case HintOrg:
			g.Org = true
		}
	}
	return g
}

// GeneratedQuery is the structured reply parsed from the reasoning backend.
type GeneratedQuery struct {
	SQL              string `json:"sql"`
	Thinking         string `json:"thinking"`
	Explanation      string `json:"explanation"`
	ResolvedOrg      string `json:"resolved_org,omitempty"`
	ResolvedCategory string `json:"resolved_cpv,omitempty"`
}

// Verdict is the validator's decision on a generated query.
type Verdict struct {
	Accepted bool
	Reason   string
	SQL      string
	Stripped []string
}

// ResultSet is an ordered sequence of row mappings with the column order
// reported by the store.
type ResultSet struct {
	Columns []string
	Rows    []map[string]any
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Outcome is what the agent returns for one question. Failures are carried
// in Success/Error, never as a Go error.
type Outcome struct {
	Answer           string           `json:"answer"`
	SQL              string           `json:"sql,omitempty"`
	Rows             []map[string]any `json:"data"`
	Columns          []string         `json:"columns,omitempty"`
	Thinking         string           `json:"thinking,omitempty"`
	Explanation      string           `json:"explanation,omitempty"`
	ResolvedOrg      string           `json:"resolved_org,omitempty"`
	ResolvedCategory string           `json:"resolved_cpv,omitempty"`
	Hints            []Hint           `json:"hints,omitempty"`
	Attempts         int              `json:"attempts"`
	Success          bool             `json:"success"`
	Error            string           `json:"error,omitempty"`
}
