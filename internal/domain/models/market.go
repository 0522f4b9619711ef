package models

import "time"

// Bar is one OHLCV sample for a symbol at a timeframe. Immutable once fetched.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// TrendLabel is the classified directional state of a price series.
type TrendLabel string

const (
	TrendNeutral       TrendLabel = ""
	TrendBullish       TrendLabel = "Bullish"
	TrendStrongBullish TrendLabel = "Strong Bullish"
	TrendBearish       TrendLabel = "Bearish"
	TrendStrongBearish TrendLabel = "Strong Bearish"
)

// IsBullish reports whether the label points up, ignoring strength.
func (t TrendLabel) IsBullish() bool {
	return t == TrendBullish || t == TrendStrongBullish
}

// IsBearish reports whether the label points down, ignoring strength.
func (t TrendLabel) IsBearish() bool {
	return t == TrendBearish || t == TrendStrongBearish
}

// IsStrong reports whether the label carries the "Strong" qualifier.
func (t TrendLabel) IsStrong() bool {
	return t == TrendStrongBullish || t == TrendStrongBearish
}
