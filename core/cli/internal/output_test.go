package internal_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diavgeia-watch/diavgeia/core/cli/internal"
	"github.com/diavgeia-watch/diavgeia/core/domain"
)

func TestPrintOutcome(t *testing.T) {
	outcome := &domain.Outcome{
		Answer:   "**total**: €1,000.00",
		SQL:      "SELECT SUM(amount) AS total FROM expense_items",
		Thinking: "sum everything",
	}

	tests := []struct {
		name    string
		verbose bool
		outcome *domain.Outcome
		want    string
	}{
		{
			name:    "answer only",
			outcome: outcome,
			want:    "\nAnswer:\n**total**: €1,000.00\n",
		},
		{
			name:    "verbose",
			verbose: true,
			outcome: outcome,
			want: "\nThinking: sum everything\n" +
				"\nSQL:\nSELECT SUM(amount) AS total FROM expense_items\n" +
				"\nAnswer:\n**total**: €1,000.00\n",
		},
		{
			name:    "error",
			outcome: &domain.Outcome{Answer: "Could not answer.", Error: "backend unreachable"},
			want:    "\nAnswer:\nCould not answer.\n\nError: backend unreachable\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			internal.PrintOutcome(&buf, tt.outcome, tt.verbose)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	internal.PrintStats(&buf, &domain.Stats{
		TotalDecisions:      12345,
		TotalExpenseItems:   20000,
		UniqueOrganizations: 12,
		UniqueContractors:   300,
		TotalAmount:         1234567.5,
		DateRange:           domain.DateRange{From: "2024-01-01", To: "2024-03-31"},
	})

	out := buf.String()
	assert.Contains(t, out, "decisions:      12,345")
	assert.Contains(t, out, "total amount:   €1,234,567.50")
	assert.Contains(t, out, "date range:     2024-01-01 to 2024-03-31")
}

func TestPrintStats_EmptyStore(t *testing.T) {
	var buf bytes.Buffer
	internal.PrintStats(&buf, &domain.Stats{})
	assert.Contains(t, buf.String(), "date range:     n/a")
}

func TestPrintCategories(t *testing.T) {
	var buf bytes.Buffer
	internal.PrintCategories(&buf, nil)
	assert.Equal(t, "No matching CPV categories.\n", buf.String())

	buf.Reset()
	internal.PrintCategories(&buf, []domain.CategoryMatch{{
		Category: domain.Category{Code: "90910000", DescriptionEN: "Cleaning services", DescriptionGR: "Υπηρεσίες καθαρισμού"},
		Score:    12,
	}})
	assert.Equal(t, "90910000   12  Cleaning services / Υπηρεσίες καθαρισμού\n", buf.String())
}

func TestPrintOrganizations(t *testing.T) {
	var buf bytes.Buffer
	org := domain.Organization{UID: "6105", Label: "ΔΗΜΟΣ ΑΘΗΝΑΙΩΝ"}

	internal.PrintOrganizations(&buf, &org, []domain.Organization{org})
	assert.Equal(t, "Resolved: 6105  ΔΗΜΟΣ ΑΘΗΝΑΙΩΝ\nCandidates:\n  6105  ΔΗΜΟΣ ΑΘΗΝΑΙΩΝ\n", buf.String())

	buf.Reset()
	internal.PrintOrganizations(&buf, nil, nil)
	assert.Equal(t, "No organization resolved.\n", buf.String())
}

func TestPrintHints(t *testing.T) {
	var buf bytes.Buffer
	internal.PrintHints(&buf, nil)
	assert.Equal(t, "No terminology hints.\n", buf.String())

	buf.Reset()
	internal.PrintHints(&buf, []domain.Hint{{Kind: domain.HintTaxID, Text: "AFM 094019245"}})
	assert.Equal(t, "[taxid] AFM 094019245\n", buf.String())
}
