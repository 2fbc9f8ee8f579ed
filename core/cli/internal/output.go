package internal

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/diavgeia-watch/diavgeia/core/domain"
)

// PrintOutcome writes an answer. With verbose the reasoning and SQL come first.
func PrintOutcome(w io.Writer, o *domain.Outcome, verbose bool) {
	if verbose {
		if o.Thinking != "" {
			fmt.Fprintf(w, "\nThinking: %s\n", o.Thinking)
		}
		if o.SQL != "" {
			fmt.Fprintf(w, "\nSQL:\n%s\n", o.SQL)
		}
	}
	fmt.Fprintf(w, "\nAnswer:\n%s\n", o.Answer)
	if o.Error != "" {
		fmt.Fprintf(w, "\nError: %s\n", o.Error)
	}
}

// PrintStats writes the store summary one field per line.
func PrintStats(w io.Writer, s *domain.Stats) {
	p := message.NewPrinter(language.English)

	dates := "n/a"
	if s.DateRange.From != "" {
		dates = s.DateRange.From + " to " + s.DateRange.To
	}

	fmt.Fprintf(w, "  decisions:      %s\n", p.Sprintf("%d", s.TotalDecisions))
	fmt.Fprintf(w, "  expense items:  %s\n", p.Sprintf("%d", s.TotalExpenseItems))
	fmt.Fprintf(w, "  organizations:  %s\n", p.Sprintf("%d", s.UniqueOrganizations))
	fmt.Fprintf(w, "  contractors:    %s\n", p.Sprintf("%d", s.UniqueContractors))
	fmt.Fprintf(w, "  total amount:   €%s\n", p.Sprintf("%.2f", s.TotalAmount))
	fmt.Fprintf(w, "  date range:     %s\n", dates)
}

// PrintCategories writes scored CPV matches.
func PrintCategories(w io.Writer, matches []domain.CategoryMatch) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matching CPV categories.")
		return
	}
	for _, m := range matches {
		fmt.Fprintf(w, "%s  %3d  %s / %s\n", m.Code, m.Score, m.DescriptionEN, m.DescriptionGR)
	}
}

// PrintOrganizations writes the resolved organization, if any, followed by
// the curated candidates.
func PrintOrganizations(w io.Writer, resolved *domain.Organization, candidates []domain.Organization) {
	if resolved != nil {
		fmt.Fprintf(w, "Resolved: %s  %s\n", resolved.UID, resolved.Label)
	} else {
		fmt.Fprintln(w, "No organization resolved.")
	}
	if len(candidates) == 0 {
		return
	}
	fmt.Fprintln(w, "Candidates:")
	for _, o := range candidates {
		fmt.Fprintf(w, "  %s  %s\n", o.UID, o.Label)
	}
}

// PrintHints writes one line per hint, prefixed with its kind.
func PrintHints(w io.Writer, hints []domain.Hint) {
	if len(hints) == 0 {
		fmt.Fprintln(w, "No terminology hints.")
		return
	}
	for _, h := range hints {
		fmt.Fprintf(w, "[%s] %s\n", h.Kind, h.Text)
	}
}
