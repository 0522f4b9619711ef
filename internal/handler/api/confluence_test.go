package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ConfluenceBoard/internal/domain/models"
	xlogger "ConfluenceBoard/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubScanner struct {
	results []models.ConfluenceResult
	err     error
}

func (s *stubScanner) Scan(context.Context) ([]models.ConfluenceResult, error) {
	return s.results, s.err
}

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func boardResults() []models.ConfluenceResult {
	return []models.ConfluenceResult{
		{
			Pair:   "EUR/USD",
			Symbol: "EURUSD=X",
			Confluence: map[string]string{
				"Weekly": "Strong Bullish (1.20%)",
				"Daily":  "Bullish (0.40%)",
				"H4":     "Bullish (0.10%)",
				"H1":     "Bullish (0.05%)",
			},
			ConfluencePercent: 100,
			Summary:           models.TrendStrongBullish,
		},
		{
			Pair:              "Gold",
			Symbol:            "GC=F",
			Confluence:        map[string]string{"Weekly": "", "Daily": "", "H4": "", "H1": ""},
			ConfluencePercent: 0,
			Summary:           models.TrendNeutral,
		},
	}
}

func serve(t *testing.T, h *ConfluenceHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestConfluenceReturnsArray(t *testing.T) {
	h := NewConfluenceHandler(testLogger(t), &stubScanner{results: boardResults()})
	rec := serve(t, h, "/confluence")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := strings.TrimSpace(rec.Body.String())
	if !strings.HasPrefix(body, "[") {
		t.Fatalf("expected a JSON array, got %s", body)
	}

	var got []models.ConfluenceResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Pair != "EUR/USD" {
		t.Fatalf("unexpected payload: %v", got)
	}
}

func TestConfluenceFilterQueryParam(t *testing.T) {
	h := NewConfluenceHandler(testLogger(t), &stubScanner{results: boardResults()})
	rec := serve(t, h, "/confluence?filter=No%20Confluence")

	var got []models.ConfluenceResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Pair != "Gold" {
		t.Fatalf("expected only Gold, got %v", got)
	}
}

func TestConfluenceInvalidFilterRejected(t *testing.T) {
	h := NewConfluenceHandler(testLogger(t), &stubScanner{results: boardResults()})
	rec := serve(t, h, "/confluence?filter=Sideways")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown filter, got %d", rec.Code)
	}
}

func TestConfluenceTotalOutageIsErrorObjectWith200(t *testing.T) {
	h := NewConfluenceHandler(testLogger(t), &stubScanner{err: errors.New("all fetches failed")})
	rec := serve(t, h, "/confluence")

	if rec.Code != http.StatusOK {
		t.Fatalf("outage must still be HTTP 200, got %d", rec.Code)
	}
	var got models.ScanError
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Error == "" || !strings.Contains(got.Details, "all fetches failed") {
		t.Fatalf("unexpected error body: %+v", got)
	}
}

func TestConfluenceEmptyMatchIsEmptyArray(t *testing.T) {
	h := NewConfluenceHandler(testLogger(t), &stubScanner{results: boardResults()[:1]})
	rec := serve(t, h, "/confluence?filter=Bearish")

	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("expected empty array, got %s", body)
	}
}

func TestHealthz(t *testing.T) {
	h := NewConfluenceHandler(testLogger(t), &stubScanner{})
	rec := serve(t, h, "/healthz")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
