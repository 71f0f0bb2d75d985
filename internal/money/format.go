package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Fixed2 formats v with exactly two decimals, half away from zero.
func Fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Grouped formats v with two decimals and comma thousands separators,
// e.g. 1234567.891 -> "1,234,567.89".
func Grouped(v float64) string {
	s := Fixed2(v)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + b.String() + "." + frac
}

// Round2 rounds v to two decimals.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
