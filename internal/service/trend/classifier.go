package trend

import (
	"ConfluenceBoard/internal/domain/models"
)

const (
	// EMAPeriod is the span of the exponential moving average the
	// classifier compares the last close against.
	EMAPeriod = 200

	// StrongThresholdPct upgrades a trend to "Strong" when the last close
	// sits more than this far from the EMA, in percent.
	StrongThresholdPct = 1.0

	// MinBars is the minimum series length the classifier accepts; shorter
	// series classify as neutral.
	MinBars = 10
)

// EMA computes the exponential moving average of values with the given
// span, seeded from the first value (pandas ewm adjust=false semantics).
// Returns the final EMA value.
func EMA(values []float64, span int) float64 {
	if len(values) == 0 {
		return 0
	}
	alpha := 2.0 / (float64(span) + 1.0)
	ema := values[0]
	for _, v := range values[1:] {
		ema = alpha*v + (1-alpha)*ema
	}
	return ema
}

// Classify maps a price series for one symbol/timeframe to a trend label
// plus display context. Pure function of its input; an undersized or empty
// series degrades to the neutral label rather than failing.
func Classify(bars []models.Bar) models.TimeframeAnalysis {
	if len(bars) < MinBars {
		return models.TimeframeAnalysis{}
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	lastClose := closes[len(closes)-1]
	lastEMA := EMA(closes, EMAPeriod)

	var distancePct float64
	if lastEMA != 0 {
		distancePct = (lastClose - lastEMA) / lastEMA * 100
	}

	var label models.TrendLabel
	switch {
	case lastClose > lastEMA:
		label = models.TrendBullish
		if distancePct > StrongThresholdPct {
			label = models.TrendStrongBullish
		}
	case lastClose < lastEMA:
		label = models.TrendBearish
		if distancePct < -StrongThresholdPct {
			label = models.TrendStrongBearish
		}
	default:
		return models.TimeframeAnalysis{}
	}

	return models.TimeframeAnalysis{
		Label:       label,
		DistancePct: distancePct,
		BOS:         breakOfStructure(bars),
	}
}

// breakOfStructure compares the last candle against the previous one: a
// higher high with a higher close marks BOS_up, a lower low with a lower
// close marks BOS_down.
func breakOfStructure(bars []models.Bar) string {
	if len(bars) < 2 {
		return ""
	}
	last, prev := bars[len(bars)-1], bars[len(bars)-2]
	switch {
	case last.High > prev.High && last.Close > prev.Close:
		return "BOS_up"
	case last.Low < prev.Low && last.Close < prev.Close:
		return "BOS_down"
	}
	return ""
}
