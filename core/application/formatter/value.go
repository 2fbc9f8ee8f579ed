package formatter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var moneyMarkers = []string{"amount", "total", "sum"}

func isMoneyColumn(column string) bool {
	lower := strings.ToLower(column)
	for _, m := range moneyMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// FormatValue renders a single value the way result tables show it.
func FormatValue(column string, v any) string {
	return newValueFormatter().Value(column, v)
}

// Value renders nil as N/A, money columns as euros, integral floats as
// integers and other numbers with thousands separators.
func (f *valueFormatter) Value(column string, v any) string {
	if v == nil {
		return "N/A"
	}

	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		if isMoneyColumn(column) {
			return "€" + f.printer.Sprintf("%.2f", toFloat(n))
		}
		return f.printer.Sprintf("%d", n)
	case float32:
		return f.float(column, float64(n))
	case float64:
		return f.float(column, n)
	case time.Time:
		return formatTime(n)
	case *time.Time:
		if n == nil {
			return "N/A"
		}
		return formatTime(*n)
	case []byte:
		return string(n)
	}
	return fmt.Sprint(v)
}

func (f *valueFormatter) float(column string, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if isMoneyColumn(column) {
		return "€" + f.printer.Sprintf("%.2f", v)
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}

	// shortest representation, grouped
	repr := strconv.FormatFloat(v, 'f', -1, 64)
	decimals := 0
	if dot := strings.IndexByte(repr, '.'); dot >= 0 {
		decimals = len(repr) - dot - 1
	}
	return f.printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	}
	return 0
}

func formatTime(t time.Time) string {
	u := t.UTC()
	if u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0 {
		return u.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}
