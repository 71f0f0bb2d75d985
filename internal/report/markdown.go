package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dvloznov/txnscan/internal/anomaly"
	"github.com/dvloznov/txnscan/internal/domain"
	"github.com/dvloznov/txnscan/internal/money"
	"github.com/dvloznov/txnscan/internal/summary"
)

// Markdown renders the per-type summary, the grand total and the list of
// flagged outliers.
func Markdown(s *summary.Summary, flagged []domain.FlaggedRecord) string {
	var b strings.Builder

	b.WriteString("📊 **Transaction Summary:**\n\n")
	rows := make([][]string, 0, len(s.Types))
	for _, t := range s.Types {
		rows = append(rows, []string{t.Type, strconv.Itoa(t.Count), formatFloat(t.Sum), formatFloat(t.Mean)})
	}
	writeTable(&b, []string{"Type", "count", "sum", "mean"}, rows)

	fmt.Fprintf(&b, "\n\n💰 **Total Value:** %s\n", money.Grouped(s.Total))

	outliers := anomaly.Outliers(flagged)
	if len(outliers) == 0 {
		b.WriteString("\n✅ No anomalies detected.")
		return b.String()
	}

	fmt.Fprintf(&b, "\n🚨 **Anomalies Detected (%d):**\n", len(outliers))
	rows = rows[:0]
	for _, o := range outliers {
		rows = append(rows, []string{o.Type, formatFloat(o.Amount), o.ID})
	}
	writeTable(&b, []string{"Type", "Amount", "ID"}, rows)
	return b.String()
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	sep := make([]string, len(header))
	for i := range sep {
		if i == 0 {
			sep[i] = ":---"
		} else {
			sep[i] = "---:"
		}
	}
	b.WriteString("|" + strings.Join(sep, "|") + "|")
	for _, r := range rows {
		b.WriteString("\n| " + strings.Join(escapeCells(r), " | ") + " |")
	}
}

// escapeCells keeps pipes inside cell values from breaking the table.
func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
