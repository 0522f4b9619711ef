package twelvedata

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ConfluenceBoard/internal/domain/models"
	domrepo "ConfluenceBoard/internal/domain/repository"
	xhttp "ConfluenceBoard/pkg/http"
)

// tfInterval maps dashboard timeframes to Twelve Data interval names.
var tfInterval = map[domrepo.Timeframe]string{
	domrepo.TFWeekly: "1week",
	domrepo.TFDaily:  "1day",
	domrepo.TFH4:     "4h",
	domrepo.TFH1:     "1h",
}

const outputSize = 500

// Client fetches OHLC series from the Twelve Data time_series endpoint.
// Used as a fallback when the primary chart provider has no data; inert
// when no API key is configured.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
}

// New creates a Twelve Data client.
func New(apiKey, baseURL string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string { return "twelvedata" }

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

type timeSeriesResponse struct {
	Values []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
		Volume   string `json:"volume"`
	} `json:"values"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// FetchSeries retrieves bars for one symbol/timeframe, oldest first.
// Twelve Data returns newest-first rows, so the series is reversed. Each
// chart ticker is tried under the symbol variants Twelve Data understands
// ("EURUSD=X" → "EUR/USD").
func (c *Client) FetchSeries(ctx context.Context, symbol string, tf domrepo.Timeframe) ([]models.Bar, error) {
	if c.apiKey == "" {
		return nil, nil
	}

	interval, ok := tfInterval[tf]
	if !ok {
		return nil, fmt.Errorf("twelvedata: unsupported timeframe %q", tf)
	}

	var lastErr error
	for _, s := range symbolVariants(symbol) {
		bars, err := c.fetch(ctx, s, interval)
		if err != nil {
			lastErr = err
			continue
		}
		if len(bars) > 0 {
			return bars, nil
		}
	}
	return nil, lastErr
}

func (c *Client) fetch(ctx context.Context, symbol, interval string) ([]models.Bar, error) {
	var resp timeSeriesResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/time_series",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"interval":   {interval},
			"outputsize": {strconv.Itoa(outputSize)},
			"apikey":     {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("twelvedata %s: %w", symbol, err)
	}

	if resp.Status == "error" {
		return nil, fmt.Errorf("twelvedata %s: %s", symbol, resp.Message)
	}

	// newest first; reverse while parsing
	bars := make([]models.Bar, 0, len(resp.Values))
	for i := len(resp.Values) - 1; i >= 0; i-- {
		v := resp.Values[i]
		bar, ok := parseRow(v.Datetime, v.Open, v.High, v.Low, v.Close, v.Volume)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseRow(datetime, open, high, low, closePx, volume string) (models.Bar, bool) {
	ts, err := parseDatetime(datetime)
	if err != nil {
		return models.Bar{}, false
	}
	o, err1 := strconv.ParseFloat(open, 64)
	h, err2 := strconv.ParseFloat(high, 64)
	l, err3 := strconv.ParseFloat(low, 64)
	cl, err4 := strconv.ParseFloat(closePx, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return models.Bar{}, false
	}
	v, _ := strconv.ParseFloat(volume, 64) // volume often empty for forex
	return models.Bar{Timestamp: ts, Open: o, High: h, Low: l, Close: cl, Volume: v}, true
}

func parseDatetime(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// symbolVariants expands a chart-style ticker into the forms Twelve Data
// accepts, keeping the original first.
func symbolVariants(symbol string) []string {
	variants := []string{symbol}

	if strings.HasSuffix(symbol, "=X") {
		base := strings.TrimSuffix(symbol, "=X")
		if len(base) == 6 {
			variants = append(variants, base[:3]+"/"+base[3:])
		} else {
			variants = append(variants, base)
		}
	}
	if strings.HasPrefix(symbol, "^") {
		variants = append(variants, strings.TrimPrefix(symbol, "^"))
	}

	return variants
}
