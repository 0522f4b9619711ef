package usecase

import (
	"testing"

	"ConfluenceBoard/internal/domain/models"
	domrepo "ConfluenceBoard/internal/domain/repository"
)

func labelMap(weekly, daily, h4, h1 models.TrendLabel) map[domrepo.Timeframe]models.TrendLabel {
	return map[domrepo.Timeframe]models.TrendLabel{
		domrepo.TFWeekly: weekly,
		domrepo.TFDaily:  daily,
		domrepo.TFH4:     h4,
		domrepo.TFH1:     h1,
	}
}

func TestAggregateAllNeutral(t *testing.T) {
	percent, summary := Aggregate(labelMap("", "", "", ""))
	if percent != 0 {
		t.Errorf("expected 0, got %d", percent)
	}
	if summary != models.TrendNeutral {
		t.Errorf("expected empty summary, got %q", summary)
	}
}

func TestAggregateFullBullishAgreement(t *testing.T) {
	percent, summary := Aggregate(labelMap(
		models.TrendBullish, models.TrendBullish, models.TrendStrongBullish, models.TrendBullish,
	))
	if percent != 100 {
		t.Errorf("expected 100, got %d", percent)
	}
	if summary != models.TrendStrongBullish {
		t.Errorf("expected Strong Bullish summary, got %q", summary)
	}
}

func TestAggregateTieIsNoConfluence(t *testing.T) {
	percent, summary := Aggregate(labelMap(
		models.TrendBullish, models.TrendStrongBullish, models.TrendBearish, models.TrendBearish,
	))
	if percent != 0 {
		t.Errorf("expected 0 on 2v2 tie, got %d", percent)
	}
	if summary != models.TrendNeutral {
		t.Errorf("expected empty summary on tie, got %q", summary)
	}
}

func TestAggregateThreeToOne(t *testing.T) {
	percent, summary := Aggregate(labelMap(
		models.TrendBullish, models.TrendBullish, models.TrendBullish, models.TrendBearish,
	))
	if percent != 75 {
		t.Errorf("expected 75, got %d", percent)
	}
	if summary != models.TrendBullish {
		t.Errorf("expected Bullish summary, got %q", summary)
	}
}

func TestAggregateStrengthFromDominantSideOnly(t *testing.T) {
	// the lone strong bearish timeframe must not upgrade the bullish summary
	percent, summary := Aggregate(labelMap(
		models.TrendBullish, models.TrendBullish, models.TrendBullish, models.TrendStrongBearish,
	))
	if percent != 75 {
		t.Errorf("expected 75, got %d", percent)
	}
	if summary != models.TrendBullish {
		t.Errorf("expected plain Bullish summary, got %q", summary)
	}
}

func TestAggregateBearishMajorityWithNeutral(t *testing.T) {
	percent, summary := Aggregate(labelMap(
		models.TrendStrongBearish, models.TrendBearish, "", "",
	))
	if percent != 50 {
		t.Errorf("expected 50, got %d", percent)
	}
	if summary != models.TrendStrongBearish {
		t.Errorf("expected Strong Bearish summary, got %q", summary)
	}
}

func TestAggregateSingleDirectionalTimeframe(t *testing.T) {
	percent, summary := Aggregate(labelMap(models.TrendBullish, "", "", ""))
	if percent != 25 {
		t.Errorf("expected 25, got %d", percent)
	}
	if summary != models.TrendBullish {
		t.Errorf("expected Bullish summary, got %q", summary)
	}
}

func TestAggregatePercentDomain(t *testing.T) {
	valid := map[int]bool{0: true, 25: true, 50: true, 75: true, 100: true}
	labels := []models.TrendLabel{
		models.TrendNeutral, models.TrendBullish, models.TrendStrongBullish,
		models.TrendBearish, models.TrendStrongBearish,
	}
	for _, a := range labels {
		for _, b := range labels {
			for _, c := range labels {
				for _, d := range labels {
					percent, summary := Aggregate(labelMap(a, b, c, d))
					if !valid[percent] {
						t.Fatalf("percent %d outside {0,25,50,75,100} for %v", percent, []models.TrendLabel{a, b, c, d})
					}
					if (percent == 0) != (summary == models.TrendNeutral) {
						t.Fatalf("summary %q inconsistent with percent %d", summary, percent)
					}
				}
			}
		}
	}
}
