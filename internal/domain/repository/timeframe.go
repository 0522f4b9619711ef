package repository

// Timeframe is a sampling period for price bars.
type Timeframe string

const (
	TFWeekly Timeframe = "Weekly"
	TFDaily  Timeframe = "Daily"
	TFH4     Timeframe = "H4"
	TFH1     Timeframe = "H1"
)

// Timeframes returns the fixed timeframe set in display order. The
// confluence mapping always carries exactly these four keys.
func Timeframes() []Timeframe {
	return []Timeframe{TFWeekly, TFDaily, TFH4, TFH1}
}

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TFWeekly, TFDaily, TFH4, TFH1:
		return true
	default:
		return false
	}
}
