package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/txnscan/internal/domain"
)

func TestParse_WellFormedLines(t *testing.T) {
	tests := []struct {
		name string
		line string
		want domain.Record
	}{
		{
			name: "dollar amount with padded type",
			line: "TXN:DEBIT  | AMT:$10000.00 | ID:DUP100",
			want: domain.Record{Type: "DEBIT", Amount: 10000.00, ID: "DUP100", Currency: "$"},
		},
		{
			name: "grouped rupee amount",
			line: "TXN:CREDIT | AMT:₹12,345.67 | ID:INR42",
			want: domain.Record{Type: "CREDIT", Amount: 12345.67, ID: "INR42", Currency: "₹"},
		},
		{
			name: "euro without fraction",
			line: "TXN:DEBIT  | AMT:€1,000 | ID:EURO9",
			want: domain.Record{Type: "DEBIT", Amount: 1000, ID: "EURO9", Currency: "€"},
		},
		{
			name: "no glyph falls back to N/A",
			line: "TXN:CREDIT | AMT:42.10 | ID:TX11",
			want: domain.Record{Type: "CREDIT", Amount: 42.10, ID: "TX11", Currency: domain.CurrencyNotAvailable},
		},
		{
			name: "zero amount is kept",
			line: "TXN:DEBIT  | AMT:$0.00 | ID:ZERO001",
			want: domain.Record{Type: "DEBIT", Amount: 0, ID: "ZERO001", Currency: "$"},
		},
		{
			name: "small fraction",
			line: "TXN:DEBIT  | AMT:$0.05 | ID:FRAC01",
			want: domain.Record{Type: "DEBIT", Amount: 0.05, ID: "FRAC01", Currency: "$"},
		},
		{
			name: "id stops at first non-alphanumeric rune",
			line: "TXN:DEBIT  | AMT:$1500.00 | ID:OR'1'='1';--",
			want: domain.Record{Type: "DEBIT", Amount: 1500, ID: "OR", Currency: "$"},
		},
		{
			name: "no-break space before separator",
			line: "TXN:DEBIT\u00a0| AMT:$10.00 | ID:NBSP1",
			want: domain.Record{Type: "DEBIT", Amount: 10, ID: "NBSP1", Currency: "$"},
		},
		{
			name: "vertical tab before separator",
			line: "TXN:DEBIT\v| AMT:$10.00 | ID:VT1",
			want: domain.Record{Type: "DEBIT", Amount: 10, ID: "VT1", Currency: "$"},
		},
		{
			name: "ideographic and thin spaces",
			line: "TXN:CREDIT\u3000|\u2009AMT:\u202f€5 | ID:WS3",
			want: domain.Record{Type: "CREDIT", Amount: 5, ID: "WS3", Currency: "€"},
		},
		{
			name: "arabic-indic digits",
			line: "TXN:DEBIT  | AMT:$١٢٣ | ID:AR1",
			want: domain.Record{Type: "DEBIT", Amount: 123, ID: "AR1", Currency: "$"},
		},
		{
			name: "devanagari digits with grouping and fraction",
			line: "TXN:CREDIT | AMT:₹१,२३४.५० | ID:DEV1",
			want: domain.Record{Type: "CREDIT", Amount: 1234.5, ID: "DEV1", Currency: "₹"},
		},
		{
			name: "whitespace after AMT",
			line: "TXN:CREDIT|AMT: $7.5|ID:AB12",
			want: domain.Record{Type: "CREDIT", Amount: 7.5, ID: "AB12", Currency: "$"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestParse_MalformedLines(t *testing.T) {
	lines := []string{
		"TXN:CREDIT | AMT:500USD | ID:SUF01",
		"MALFORMED ENTRY - AMT:$1000 ID:",
		"TXN:CREDIT | ID:MISSINGAMT",
		"TXN:CREDIT | AMT:-₹5000.00 | ID:NEG001",
		"TXN:CREDIT | AMT:¤1234.56 | ID:UNKN01",
		"TXN:CREDIT | AMT:£250.00 | ID:GBP01",
		"TXN:CREDIT | AMT:$250.00 | ID:<script>alert(1)</script>",
		"TXN:DEBIT  | AMT:$10.00 | ID:",
		"TXN:credit | AMT:$10.00 | ID:LOWER1",
		"TXN:DEBIT  | AMT:,,, | ID:COMMAS",
		"TXN:DEBIT  | AMT:$" + strings.Repeat("9", 400) + " | ID:HUGE1",
		"",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			assert.Empty(t, Parse(line))
			assert.False(t, MatchLine(line))
		})
	}
}

func TestParse_BlockKeepsOrderAndDuplicates(t *testing.T) {
	text := "# Transaction Log generated: 2026-10-18 10:00:00\n" +
		"TXN:DEBIT  | AMT:$10000.00 | ID:DUP100\n" +
		"TXN:CREDIT | AMT:500USD | ID:SUF01\n" +
		"TXN:CREDIT | AMT:$12000.00 | ID:DUP100\n" +
		"MALFORMED ENTRY - AMT:$1000 ID:\n" +
		"TXN:DEBIT  | AMT:€1,234.50 | ID:XY77\n"

	got := Parse(text)
	require.Len(t, got, 3)
	assert.Equal(t, "DUP100", got[0].ID)
	assert.Equal(t, "DUP100", got[1].ID)
	assert.Equal(t, 12000.0, got[1].Amount)
	assert.Equal(t, "XY77", got[2].ID)
	assert.Equal(t, 1234.5, got[2].Amount)
}

func TestParse_RecordSplitAcrossLines(t *testing.T) {
	got := Parse("TXN:CREDIT\n| AMT:$99.99\n| ID:OCR1")
	require.Len(t, got, 1)
	assert.Equal(t, "OCR1", got[0].ID)
}

func TestParse_NoMatchesReturnsNil(t *testing.T) {
	assert.Nil(t, Parse("nothing to see here"))
}

func TestDigitValue(t *testing.T) {
	tests := map[rune]int{
		'٠': 0, '٣': 3, '٩': 9,
		'०': 0, '७': 7,
		'０': 0, '９': 9,
		'𝟎': 0, '𝟗': 9, '𝟘': 0, '𝟡': 9, // adjacent mathematical digit runs
	}
	for r, want := range tests {
		if got := digitValue(r); got != want {
			t.Errorf("digitValue(%q) = %d, want %d", r, got, want)
		}
	}
}
