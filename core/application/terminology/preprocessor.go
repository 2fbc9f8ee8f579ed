package terminology

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lib/pq"

	"github.com/diavgeia-watch/diavgeia/core/domain"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
	"github.com/diavgeia-watch/diavgeia/core/shared/text"
)

// maxBudgetHints caps how many KAE lines reach the context
const maxBudgetHints = 2

var (
	budgetCodePattern = regexp.MustCompile(`(?:καε|kae|αλε|ale)\s*[:\s]?\s*(\d{4})`)
	taxIDPattern      = regexp.MustCompile(`(?:αφμ|afm)\s*[:\s]?\s*(\d{9})`)
	bareTaxIDPattern  = regexp.MustCompile(`\b\d{9}\b`)
	documentPattern   = regexp.MustCompile(`(?i)(?:αδα|ada)\s*[:\s]?\s*([A-ZΑ-Ω0-9]{4,}-[A-ZΑ-Ω0-9]+)`)
)

// Result is everything the preprocessor found in one question.
type Result struct {
	GlossaryHits []Term   `json:"glossary_hits"`
	BudgetHints  []string `json:"budget_hints"`
	SQLHints     []string `json:"sql_hints"`
	TaxIDs       []string `json:"tax_ids"`
	DocumentIDs  []string `json:"document_ids"`
	Context      string   `json:"context"`
}

// Hints converts the result into prompt hints. None of them ground the filter guard.
func (r *Result) Hints() []domain.Hint {
	var hints []domain.Hint
	for _, t := range r.GlossaryHits {
		hints = append(hints, domain.Hint{
			Kind:   domain.HintTerm,
			Value:  t.Term,
			Label:  t.Meaning,
			Filter: t.SQLHint,
			Text:   fmt.Sprintf("'%s' means: %s", t.Term, t.Meaning),
		})
	}
	for i, b := range r.BudgetHints {
		if i == maxBudgetHints {
			break
		}
		hints = append(hints, domain.Hint{Kind: domain.HintBudget, Label: b, Text: b})
	}
	for _, id := range r.TaxIDs {
		hints = append(hints, domain.Hint{Kind: domain.HintTaxID, Value: id, Filter: taxIDFilter(id), Text: taxIDLine(id)})
	}
	for _, id := range r.DocumentIDs {
		hints = append(hints, domain.Hint{Kind: domain.HintDocument, Value: id, Filter: documentFilter(id), Text: documentLine(id)})
	}
	return hints
}

type foldedTerm struct {
	Term
	prefixes []string
}

// Preprocessor detects Greek administrative vocabulary, KAE budget codes,
// AFM tax ids and ADA document ids in a question.
type Preprocessor struct {
	terms  []foldedTerm
	logger logging.Logger
}

// New folds the glossary once so matching is accent-insensitive.
func New() *Preprocessor {
	p := &Preprocessor{logger: logging.New("terminology")}
	for _, t := range glossary {
		ft := foldedTerm{Term: t}
		for _, w := range strings.Fields(text.Fold(t.Term)) {
			ft.prefixes = append(ft.prefixes, text.Truncate(w, 5))
		}
		p.terms = append(p.terms, ft)
	}
	return p
}

// Preprocess analyzes a question. The same question always yields the same Result.
func (p *Preprocessor) Preprocess(question string) *Result {
	lowered := text.Lower(question)
	folded := text.Fold(question)
	res := &Result{}

	for _, t := range p.terms {
		if len(t.prefixes) == 0 {
			continue
		}
		matched := true
		for _, prefix := range t.prefixes {
			if !strings.Contains(folded, prefix) {
				matched = false
				break
			}
		}
		if matched {
			res.GlossaryHits = append(res.GlossaryHits, t.Term)
			if t.SQLHint != "" {
				res.SQLHints = append(res.SQLHints, t.SQLHint)
			}
		}
	}

	p.matchBudgetCodes(lowered, res)
	p.matchTaxIDs(lowered, res)
	p.matchDocuments(question, res)

	res.Context = buildContext(res)
	if res.Context != "" {
		p.logger.Debugf("Terminology context: %s", text.Truncate(res.Context, 100))
	}
	return res
}

func (p *Preprocessor) matchBudgetCodes(lowered string, res *Result) {
	if m := budgetCodePattern.FindStringSubmatch(lowered); m != nil {
		code := m[1]
		res.SQLHints = append(res.SQLHints, "kae_code LIKE "+pq.QuoteLiteral(code+"%"))
		for _, bc := range budgetCodes {
			if strings.HasPrefix(code, bc.Prefix[:2]) {
				res.BudgetHints = append(res.BudgetHints, fmt.Sprintf("KAE %s: %s (%s)", code, bc.DescriptionEN, bc.DescriptionGR))
				break
			}
		}
	}

	for _, bc := range budgetCodes {
		for _, kw := range strings.Fields(text.Lower(bc.Keywords)) {
			if utf8.RuneCountInString(kw) >= 4 && strings.Contains(lowered, kw) {
				res.BudgetHints = append(res.BudgetHints,
					fmt.Sprintf("Possibly related to KAE %s: %s (%s)", bc.Prefix, bc.DescriptionEN, bc.DescriptionGR))
				break
			}
		}
	}
}

func (p *Preprocessor) matchTaxIDs(lowered string, res *Result) {
	seen := make(map[string]struct{})
	add := func(id string) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		res.TaxIDs = append(res.TaxIDs, id)
		res.SQLHints = append(res.SQLHints, taxIDFilter(id))
	}

	for _, m := range taxIDPattern.FindAllStringSubmatch(lowered, -1) {
		add(m[1])
	}
	for _, id := range bareTaxIDPattern.FindAllString(lowered, -1) {
		add(id)
	}
}

func (p *Preprocessor) matchDocuments(question string, res *Result) {
	seen := make(map[string]struct{})
	for _, m := range documentPattern.FindAllStringSubmatch(question, -1) {
		id := m[1]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		res.DocumentIDs = append(res.DocumentIDs, id)
		res.SQLHints = append(res.SQLHints, documentFilter(id))
	}
}

func buildContext(res *Result) string {
	var lines []string
	for _, t := range res.GlossaryHits {
		lines = append(lines, fmt.Sprintf("'%s' means: %s", t.Term, t.Meaning))
		if t.SQLHint != "" {
			lines = append(lines, "  SQL filter: "+t.SQLHint)
		}
	}
	for i, b := range res.BudgetHints {
		if i == maxBudgetHints {
			break
		}
		lines = append(lines, b)
	}
	for _, id := range res.TaxIDs {
		lines = append(lines, taxIDLine(id))
	}
	for _, id := range res.DocumentIDs {
		lines = append(lines, documentLine(id))
	}
	return strings.Join(lines, "\n")
}

func taxIDFilter(id string) string {
	lit := pq.QuoteLiteral(id)
	return fmt.Sprintf("contractor_afm = %s OR org_afm = %s", lit, lit)
}

func taxIDLine(id string) string {
	return fmt.Sprintf("Tax ID (AFM) %s: filter with %s", id, taxIDFilter(id))
}

func documentLine(id string) string {
	return fmt.Sprintf("Decision ADA %s: filter with %s", id, documentFilter(id))
}

func documentFilter(id string) string {
	return "ada = " + pq.QuoteLiteral(id)
}

// ThresholdContext explains which procurement threshold an amount falls under.
func ThresholdContext(amount float64) string {
	switch {
	case amount < 30000:
		return "This amount falls under the direct award threshold (< €30,000)"
	case amount < 60000:
		return "This amount falls in the simplified tender range (€30,000 - €60,000)"
	case amount < 140000:
		return "This amount is above simplified tender but below EU threshold"
	default:
		return "This amount is above the EU procurement threshold (> €140,000)"
	}
}

// DecisionTypes lists the Diavgeia decision-type codes.
func DecisionTypes() []DecisionType {
	out := make([]DecisionType, len(decisionTypes))
	copy(out, decisionTypes)
	return out
}

// Glossary returns the vocabulary table in match order.
func Glossary() []Term {
	out := make([]Term, len(glossary))
	copy(out, glossary)
	return out
}
