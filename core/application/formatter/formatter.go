package formatter

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// NoResults is the answer for an empty result set.
	NoResults = "Δεν βρέθηκαν αποτελέσματα. (No results found.)"

	maxTableRows   = 20
	summaryRows    = 10
	maxInlineCols  = 3
	columnSep      = " | "
	separatorJoint = "-+-"
)

// Format renders query rows as a short text answer: inline pairs for a single
// aggregate row, a padded table for up to 20 rows, and a truncated table
// beyond that. columns fixes the column order; when empty the row keys are
// used in sorted order.
func Format(question string, rows []map[string]any, columns []string, explanation string) string {
	if len(rows) == 0 {
		return NoResults
	}

	f := newValueFormatter()
	cols := columns
	if len(cols) == 0 {
		cols = keysOf(rows[0])
	}

	if len(rows) == 1 && len(cols) <= maxInlineCols {
		parts := make([]string, 0, len(cols))
		for _, c := range cols {
			v, ok := rows[0][c]
			parts = append(parts, fmt.Sprintf("**%s**: %s", c, f.cell(c, v, ok)))
		}
		return strings.Join(parts, columnSep)
	}

	if len(rows) <= maxTableRows {
		return f.table(rows, cols)
	}

	return fmt.Sprintf("Found %d results. Here are the top entries:\n\n%s\n\n... and %d more rows.",
		len(rows), f.table(rows[:summaryRows], cols), len(rows)-summaryRows)
}

func keysOf(row map[string]any) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (f *valueFormatter) table(rows []map[string]any, cols []string) string {
	cells := make([][]string, len(rows))
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = utf8.RuneCountInString(c)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(cols))
		for i, c := range cols {
			v, ok := row[c]
			cells[r][i] = f.cell(c, v, ok)
			if w := utf8.RuneCountInString(cells[r][i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, joinPadded(cols, widths))

	dashes := make([]string, len(cols))
	for i, w := range widths {
		dashes[i] = strings.Repeat("-", w)
	}
	lines = append(lines, strings.Join(dashes, separatorJoint))

	for _, row := range cells {
		lines = append(lines, joinPadded(row, widths))
	}
	return strings.Join(lines, "\n")
}

func joinPadded(values []string, widths []int) string {
	padded := make([]string, len(values))
	for i, v := range values {
		padded[i] = pad(v, widths[i])
	}
	return strings.Join(padded, columnSep)
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

type valueFormatter struct {
	printer *message.Printer
}

func newValueFormatter() *valueFormatter {
	return &valueFormatter{printer: message.NewPrinter(language.English)}
}

// cell formats a row value; a column missing from the row renders empty.
func (f *valueFormatter) cell(column string, v any, present bool) string {
	if !present {
		return ""
	}
	return f.Value(column, v)
}
