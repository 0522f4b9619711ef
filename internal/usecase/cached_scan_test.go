package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ConfluenceBoard/internal/domain/models"
	"ConfluenceBoard/pkg/cache"
)

type countingScanner struct {
	calls   int
	results []models.ConfluenceResult
	err     error
}

func (s *countingScanner) Scan(context.Context) ([]models.ConfluenceResult, error) {
	s.calls++
	return s.results, s.err
}

func TestCachedScannerServesFromCache(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()

	inner := &countingScanner{results: []models.ConfluenceResult{{Pair: "EUR/USD", ConfluencePercent: 75}}}
	cs := NewCachedScanner(inner, mc, time.Minute, nil)

	for i := 0; i < 3; i++ {
		got, err := cs.Scan(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Pair != "EUR/USD" {
			t.Fatalf("unexpected results %v", got)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 inner scan, got %d", inner.calls)
	}
}

func TestCachedScannerNeverCachesErrors(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()

	inner := &countingScanner{err: errors.New("all fetches failed")}
	cs := NewCachedScanner(inner, mc, time.Minute, nil)

	for i := 0; i < 2; i++ {
		if _, err := cs.Scan(context.Background()); err == nil {
			t.Fatal("expected error")
		}
	}
	if inner.calls != 2 {
		t.Fatalf("errors must not be cached, inner calls = %d", inner.calls)
	}
}

func TestCachedScannerInvalidate(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()

	inner := &countingScanner{results: []models.ConfluenceResult{{Pair: "Gold"}}}
	cs := NewCachedScanner(inner, mc, time.Minute, nil)

	if _, err := cs.Scan(context.Background()); err != nil {
		t.Fatal(err)
	}
	cs.Invalidate(context.Background())
	if _, err := cs.Scan(context.Background()); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected refetch after invalidate, got %d calls", inner.calls)
	}
}

func TestCachedScannerStorePrimesCache(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()

	inner := &countingScanner{results: []models.ConfluenceResult{{Pair: "stale"}}}
	cs := NewCachedScanner(inner, mc, time.Minute, nil)

	cs.Store(context.Background(), []models.ConfluenceResult{{Pair: "fresh", ConfluencePercent: 100}})

	got, err := cs.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if inner.calls != 0 || got[0].Pair != "fresh" {
		t.Fatalf("expected primed cache to serve, calls=%d got=%v", inner.calls, got)
	}
}
