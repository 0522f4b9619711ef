package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domrepo "ConfluenceBoard/internal/domain/repository"
)

func chartJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestFetchSeriesParsesBars(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		chartJSON(`{"chart":{"result":[{
			"timestamp":[1700003600,1700000000,1700007200],
			"indicators":{"quote":[{
				"open":[1.1,1.0,1.2],"high":[1.15,1.05,1.25],
				"low":[1.05,0.95,1.15],"close":[1.12,1.02,1.22],
				"volume":[100,null,300]
			}]}
		}],"error":null}}`)(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	bars, err := c.FetchSeries(context.Background(), "EURUSD=X", domrepo.TFDaily)
	if err != nil {
		t.Fatal(err)
	}

	if gotPath != "/v8/finance/chart/EURUSD=X" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotQuery["interval"][0] != "1d" || gotQuery["range"][0] != "1y" {
		t.Errorf("unexpected chart params %v", gotQuery)
	}

	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Timestamp.Before(bars[i].Timestamp) {
			t.Fatal("bars not sorted oldest first")
		}
	}
	// null volume parses as zero
	if bars[0].Volume != 0 || bars[0].Close != 1.02 {
		t.Errorf("unexpected first bar %+v", bars[0])
	}
}

func TestFetchSeriesDropsNullRows(t *testing.T) {
	srv := httptest.NewServer(chartJSON(`{"chart":{"result":[{
		"timestamp":[1700000000,1700003600],
		"indicators":{"quote":[{
			"open":[1.0,null],"high":[1.05,null],
			"low":[0.95,null],"close":[1.02,null],
			"volume":[100,null]
		}]}
	}],"error":null}}`))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	bars, err := c.FetchSeries(context.Background(), "GBPJPY=X", domrepo.TFH1)
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 1 {
		t.Fatalf("null row not dropped, got %d bars", len(bars))
	}
}

func TestFetchSeriesChartError(t *testing.T) {
	srv := httptest.NewServer(chartJSON(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	if _, err := c.FetchSeries(context.Background(), "BOGUS", domrepo.TFWeekly); err == nil {
		t.Fatal("expected error from chart error payload")
	}
}

func TestFetchSeriesEmptyResultIsNoData(t *testing.T) {
	srv := httptest.NewServer(chartJSON(`{"chart":{"result":[],"error":null}}`))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	bars, err := c.FetchSeries(context.Background(), "GC=F", domrepo.TFH4)
	if err != nil {
		t.Fatal(err)
	}
	if bars != nil {
		t.Fatalf("expected no data, got %v", bars)
	}
}

func TestFetchSeriesMisalignedArrays(t *testing.T) {
	srv := httptest.NewServer(chartJSON(`{"chart":{"result":[{
		"timestamp":[1700000000,1700003600],
		"indicators":{"quote":[{
			"open":[1.0],"high":[1.05],"low":[0.95],"close":[1.02],"volume":[100]
		}]}
	}],"error":null}}`))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	if _, err := c.FetchSeries(context.Background(), "EURUSD=X", domrepo.TFDaily); err == nil {
		t.Fatal("expected error for misaligned arrays")
	}
}

func TestFetchSeriesUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	if _, err := c.FetchSeries(context.Background(), "EURUSD=X", domrepo.TFDaily); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestFetchSeriesUnsupportedTimeframe(t *testing.T) {
	c := New("http://unused", time.Second)
	if _, err := c.FetchSeries(context.Background(), "EURUSD=X", domrepo.Timeframe("M15")); err == nil {
		t.Fatal("expected error for unsupported timeframe")
	}
}
