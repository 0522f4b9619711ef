package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ConfluenceBoard/internal/domain/models"
	domrepo "ConfluenceBoard/internal/domain/repository"
	"ConfluenceBoard/pkg/config"
)

// fakeSource serves canned series per symbol/timeframe and can fail
// selectively.
type fakeSource struct {
	series map[string][]models.Bar // key: symbol|tf
	errs   map[string]error
}

func (f *fakeSource) FetchSeries(_ context.Context, symbol string, tf domrepo.Timeframe) ([]models.Bar, error) {
	key := symbol + "|" + string(tf)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	return f.series[key], nil
}

func trendingBars(up bool) []models.Bar {
	bars := make([]models.Bar, 50)
	ts := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		c := 100 + float64(i)*0.1
		if !up {
			c = 100 - float64(i)*0.1
		}
		bars[i] = models.Bar{
			Timestamp: ts.Add(time.Duration(i) * time.Hour),
			Open:      c, High: c + 0.01, Low: c - 0.01, Close: c, Volume: 10,
		}
	}
	return bars
}

func seriesForAllTFs(symbol string, up bool) map[string][]models.Bar {
	out := make(map[string][]models.Bar)
	for _, tf := range domrepo.Timeframes() {
		out[symbol+"|"+string(tf)] = trendingBars(up)
	}
	return out
}

func testPairs() []config.Pair {
	return []config.Pair{
		{Pair: "EUR/USD", Symbol: "EURUSD=X"},
		{Pair: "GBP/JPY", Symbol: "GBPJPY=X"},
	}
}

func TestScanFixedTimeframeKeys(t *testing.T) {
	src := &fakeSource{series: seriesForAllTFs("EURUSD=X", true)}
	sc := NewConfluenceScanner(src, testPairs(), 4, time.Second, nil, nil)

	results, err := sc.Scan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range results {
		if len(r.Confluence) != 4 {
			t.Fatalf("expected 4 timeframe keys, got %d", len(r.Confluence))
		}
		for _, tf := range domrepo.Timeframes() {
			if _, ok := r.Confluence[string(tf)]; !ok {
				t.Fatalf("missing timeframe key %s", tf)
			}
		}
	}
}

func TestScanDeterministicOrder(t *testing.T) {
	src := &fakeSource{series: seriesForAllTFs("EURUSD=X", true)}
	sc := NewConfluenceScanner(src, testPairs(), 4, time.Second, nil, nil)

	for i := 0; i < 5; i++ {
		results, err := sc.Scan(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if results[0].Pair != "EUR/USD" || results[1].Pair != "GBP/JPY" {
			t.Fatalf("order not deterministic: %v", results)
		}
	}
}

func TestScanFullBullishConfluence(t *testing.T) {
	src := &fakeSource{series: seriesForAllTFs("EURUSD=X", true)}
	sc := NewConfluenceScanner(src, []config.Pair{{Pair: "EUR/USD", Symbol: "EURUSD=X"}}, 2, time.Second, nil, nil)

	results, err := sc.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	r := results[0]
	if r.ConfluencePercent != 100 {
		t.Errorf("expected 100 percent, got %d", r.ConfluencePercent)
	}
	if !r.Summary.IsBullish() {
		t.Errorf("expected bullish summary, got %q", r.Summary)
	}
}

func TestScanIsolatesPerSymbolFailure(t *testing.T) {
	series := seriesForAllTFs("EURUSD=X", true)
	errs := make(map[string]error)
	for _, tf := range domrepo.Timeframes() {
		errs["GBPJPY=X|"+string(tf)] = errors.New("provider down")
	}
	src := &fakeSource{series: series, errs: errs}
	sc := NewConfluenceScanner(src, testPairs(), 2, time.Second, nil, nil)

	results, err := sc.Scan(context.Background())
	if err != nil {
		t.Fatalf("one failed symbol must not abort the scan: %v", err)
	}
	if results[0].ConfluencePercent != 100 {
		t.Errorf("healthy symbol affected: %d", results[0].ConfluencePercent)
	}
	if results[1].ConfluencePercent != 0 || results[1].Summary != models.TrendNeutral {
		t.Errorf("failed symbol should degrade to no confluence, got %v", results[1])
	}
}

func TestScanPartialTimeframeFailureDegradesSlot(t *testing.T) {
	series := seriesForAllTFs("EURUSD=X", true)
	src := &fakeSource{
		series: series,
		errs:   map[string]error{"EURUSD=X|H1": errors.New("timeout")},
	}
	sc := NewConfluenceScanner(src, []config.Pair{{Pair: "EUR/USD", Symbol: "EURUSD=X"}}, 1, time.Second, nil, nil)

	results, err := sc.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	r := results[0]
	if r.Confluence["H1"] != "" {
		t.Errorf("failed slot should be neutral, got %q", r.Confluence["H1"])
	}
	if r.ConfluencePercent != 75 {
		t.Errorf("expected 75 with 3 agreeing timeframes, got %d", r.ConfluencePercent)
	}
}

func TestScanEmptySeriesIsNeutralSlot(t *testing.T) {
	// no data at all: every slot neutral, no error
	src := &fakeSource{}
	sc := NewConfluenceScanner(src, testPairs(), 2, time.Second, nil, nil)

	results, err := sc.Scan(context.Background())
	if err != nil {
		t.Fatalf("empty series must not error: %v", err)
	}
	for _, r := range results {
		if r.ConfluencePercent != 0 || r.Summary != models.TrendNeutral {
			t.Fatalf("expected neutral result, got %v", r)
		}
	}
}

func TestScanTotalOutageReturnsError(t *testing.T) {
	errs := make(map[string]error)
	for _, p := range testPairs() {
		for _, tf := range domrepo.Timeframes() {
			errs[p.Symbol+"|"+string(tf)] = errors.New("upstream gone")
		}
	}
	src := &fakeSource{errs: errs}
	sc := NewConfluenceScanner(src, testPairs(), 2, time.Second, nil, nil)

	if _, err := sc.Scan(context.Background()); err == nil {
		t.Fatal("expected error when every fetch fails")
	}
}
