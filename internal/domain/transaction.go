package domain

// CurrencyNotAvailable is stored in Record.Currency when the log line carries no glyph.
const CurrencyNotAvailable = "N/A"

// Record is one transaction recovered from a log line.
// Nothing here is validated: negative and zero amounts, duplicate ids and
// unknown type tokens are carried exactly as written.
type Record struct {
	Type     string  `json:"type"`     // token after "TXN:" (CREDIT, DEBIT, ...)
	Amount   float64 `json:"amount"`   // grouping separators removed
	ID       string  `json:"id"`       // token after "ID:"
	Currency string  `json:"currency"` // captured glyph or CurrencyNotAvailable
}

// AnomalyLabel is the per-record output of the outlier model.
type AnomalyLabel int

const (
	// Unscored marks records the model never saw (too few samples).
	Unscored AnomalyLabel = 0
	// Normal marks inliers.
	Normal AnomalyLabel = 1
	// Outlier marks records the model isolated early.
	Outlier AnomalyLabel = -1
)

// String returns a short human-readable label.
func (l AnomalyLabel) String() string {
	switch l {
	case Normal:
		return "normal"
	case Outlier:
		return "outlier"
	default:
		return "unscored"
	}
}

// FlaggedRecord is a record together with its anomaly label.
type FlaggedRecord struct {
	Record
	Anomaly AnomalyLabel `json:"anomaly"`
}

// Amounts returns the amount column of records in order.
func Amounts(records []Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Amount
	}
	return out
}
