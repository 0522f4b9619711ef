package usecase

import (
	"math"

	"ConfluenceBoard/internal/domain/models"
	domrepo "ConfluenceBoard/internal/domain/repository"
)

// Aggregate folds the four per-timeframe labels for one symbol into a
// confluence percentage and a summary label.
//
// Timeframes agreeing with the dominant direction (bullish vs bearish,
// strength ignored) drive the percentage; a tie, including the all-neutral
// case, yields zero and an empty summary. The summary takes the strongest
// label among the agreeing timeframes.
func Aggregate(labels map[domrepo.Timeframe]models.TrendLabel) (int, models.TrendLabel) {
	var bull, bear int
	for _, tf := range domrepo.Timeframes() {
		switch l := labels[tf]; {
		case l.IsBullish():
			bull++
		case l.IsBearish():
			bear++
		}
	}

	if bull == bear {
		return 0, models.TrendNeutral
	}

	dominantBull := bull > bear
	agreeing := bear
	if dominantBull {
		agreeing = bull
	}

	total := len(domrepo.Timeframes())
	percent := int(math.Round(float64(agreeing) / float64(total) * 100))

	summary := models.TrendBearish
	strong := models.TrendStrongBearish
	match := models.TrendLabel.IsBearish
	if dominantBull {
		summary = models.TrendBullish
		strong = models.TrendStrongBullish
		match = models.TrendLabel.IsBullish
	}
	for _, tf := range domrepo.Timeframes() {
		if l := labels[tf]; match(l) && l.IsStrong() {
			summary = strong
			break
		}
	}

	return percent, summary
}
