// Package money normalizes the heterogeneous currency-string encodings that
// appear across statement exports into cents-precision float values.
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse converts a currency string into a float64. It is a total function:
// sentinels ("--", empty), surrounding quotes, dollar signs, thousands
// separators, and a minus sign on either side of the currency symbol are all
// handled, and any unparseable input yields 0. Statement gaps are common and
// must not abort a whole-file parse, so callers treat missing money as zero.
func Parse(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"`)
	s = strings.TrimSpace(s)
	if s == "" || s == "--" {
		return 0
	}

	// Sign must come off before symbol-stripping: both -$12.34 and $-12.34
	// occur across sources.
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if negative {
		return -v
	}
	return v
}

// Round2 rounds to cents. Derived amounts (running balances, deltas) are
// rounded before display or comparison so representation error never leaks
// into reports.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Format renders a value as $X,XXX.XX with the sign outside the symbol.
func Format(v float64) string {
	s := addThousands(fmt.Sprintf("%.2f", math.Abs(v)))
	if v < 0 {
		return "-$" + s
	}
	return "$" + s
}

func addThousands(s string) string {
	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]
	if len(whole) <= 3 {
		return whole + frac
	}
	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}
	return b.String() + frac
}
