package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dvloznov/txnscan/internal/domain"
)

// space matches any Unicode white space: NBSP and the other Z separators
// show up in PDF and OCR text, and RE2's \s alone misses them and \v.
const space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]*`

// transactionPattern recovers TXN:<type> | AMT:<glyph?><number> | ID:<token>.
// The glyph class is deliberately narrow: "£", "¤" and a leading "-" all fail.
// Digits may come from any script; type and ID stay ASCII.
var transactionPattern = regexp.MustCompile(
	`TXN:([A-Z]+)` + space + `\|` + space + `AMT:` + space +
		`([$₹€]?)([\p{Nd},]+(?:\.\p{Nd}+)?)` + space + `\|` + space + `ID:([A-Za-z0-9]+)`,
)

// Parse returns every transaction found in text, in order of appearance.
// The pattern is applied to the whole block, so OCR output that splits a
// record over several lines still matches. Anything that does not fit the
// pattern is skipped without error.
func Parse(text string) []domain.Record {
	matches := transactionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	records := make([]domain.Record, 0, len(matches))
	for _, m := range matches {
		amount, err := parseAmount(m[3])
		if err != nil {
			// a bare run of commas, or a value beyond float64 range; the
			// latter is dropped rather than kept as +Inf, which no amount
			// formatter or the anomaly scorer can handle
			continue
		}

		currency := m[2]
		if currency == "" {
			currency = domain.CurrencyNotAvailable
		}

		records = append(records, domain.Record{
			Type:     m[1],
			Amount:   amount,
			ID:       m[4],
			Currency: currency,
		})
	}
	return records
}

// parseAmount converts "1,234.56" to 1234.56. Digits from other scripts
// are folded to ASCII first.
func parseAmount(s string) (float64, error) {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == ',':
		case r < utf8.RuneSelf:
			b.WriteRune(r)
		case unicode.IsDigit(r):
			b.WriteByte(byte('0' + digitValue(r)))
		default:
			b.WriteRune(r)
		}
	}
	return strconv.ParseFloat(b.String(), 64)
}

// digitValue returns the value of a decimal digit rune. Unicode encodes each
// script's digits as contiguous runs of ten starting at zero, so the value is
// the rune's offset within its run.
func digitValue(r rune) int {
	n := 0
	for unicode.IsDigit(r - rune(n) - 1) {
		n++
	}
	return n % 10
}

// MatchLine reports whether a single line holds a well-formed transaction.
func MatchLine(line string) bool {
	return len(Parse(line)) > 0
}
