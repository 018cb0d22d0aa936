package common

import (
	"math"
	"strconv"
	"strings"
)

// NonFinitePlaceholder is rendered wherever a numeric value cannot be displayed.
const NonFinitePlaceholder = "—"

// FormatBRL renders a value as Brazilian currency ("R$ 1.234,56").
// Non-finite input renders the placeholder instead of NaN/Inf.
func FormatBRL(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NonFinitePlaceholder
	}
	negative := value < 0
	cents := int64(math.Round(math.Abs(value) * 100))
	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	out := "R$ " + b.String() + "," + pad2(frac)
	if negative {
		out = "-" + out
	}
	return out
}

func pad2(v int64) string {
	if v < 10 {
		return "0" + strconv.FormatInt(v, 10)
	}
	return strconv.FormatInt(v, 10)
}

// ParseBRLNumber parses numbers in Brazilian notation ("1.234,56").
// Plain decimal-point notation is accepted as well. Unparseable input
// yields zero, matching the forgiving semantics of form and spreadsheet
// fields where blanks and garbage must not poison totals.
func ParseBRLNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// SafeFloat coerces NaN and infinities to zero so derived values stay renderable.
func SafeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
