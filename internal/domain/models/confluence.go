package models

import "fmt"

// TimeframeAnalysis is the per-timeframe classifier output for one symbol.
// Cell is the display text carried to the dashboard ("Bullish (0.42%) BOS_up");
// Label is the bare classification the aggregator reasons about.
type TimeframeAnalysis struct {
	Label       TrendLabel
	DistancePct float64
	BOS         string // "BOS_up", "BOS_down", or empty
}

// Cell renders the dashboard cell text for this analysis.
func (a TimeframeAnalysis) Cell() string {
	if a.Label == TrendNeutral {
		return ""
	}
	s := string(a.Label) + " (" + formatPct(a.DistancePct) + ")"
	if a.BOS != "" {
		s += " " + a.BOS
	}
	return s
}

// ConfluenceResult is the per-symbol scan output. Created fresh on every
// scan; never persisted.
type ConfluenceResult struct {
	Pair              string            `json:"Pair"`
	Symbol            string            `json:"Symbol"`
	Confluence        map[string]string `json:"Confluence"`
	ConfluencePercent int               `json:"ConfluencePercent"`
	Summary           TrendLabel        `json:"Summary"`
}

// ScanError is the wire shape returned when the upstream data source is
// entirely unavailable. Served with HTTP 200; clients check the error field.
type ScanError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func formatPct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
