package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"ConfluenceBoard/internal/domain/models"
	domrepo "ConfluenceBoard/internal/domain/repository"
	xhttp "ConfluenceBoard/pkg/http"
)

// tfParams maps each dashboard timeframe to the chart API interval and
// lookback range.
var tfParams = map[domrepo.Timeframe]struct {
	interval string
	lookback string
}{
	domrepo.TFWeekly: {"1wk", "2y"},
	domrepo.TFDaily:  {"1d", "1y"},
	domrepo.TFH4:     {"4h", "180d"},
	domrepo.TFH1:     {"1h", "60d"},
}

// Client fetches OHLC series from the Yahoo Finance chart API.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

// New creates a Yahoo chart API client.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string { return "yahoo" }

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchSeries retrieves bars for one symbol/timeframe, oldest first.
// Rows with null fields are dropped, matching the provider's sparse output
// for thin sessions.
func (c *Client) FetchSeries(ctx context.Context, symbol string, tf domrepo.Timeframe) ([]models.Bar, error) {
	p, ok := tfParams[tf]
	if !ok {
		return nil, fmt.Errorf("yahoo: unsupported timeframe %q", tf)
	}

	var resp chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol)),
		QueryParams: map[string][]string{
			"interval":       {p.interval},
			"range":          {p.lookback},
			"includePrePost": {"false"},
		},
		Headers: map[string]string{
			"User-Agent": "Mozilla/5.0 (compatible; confluence-board)",
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s %s: %w", symbol, tf, err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo %s: %s - %s", symbol, resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, nil
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	if len(result.Timestamp) != len(quote.Close) ||
		len(result.Timestamp) != len(quote.Open) ||
		len(result.Timestamp) != len(quote.High) ||
		len(result.Timestamp) != len(quote.Low) {
		return nil, fmt.Errorf("yahoo %s: misaligned chart arrays", symbol)
	}

	bars := make([]models.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil || quote.Close[i] == nil {
			continue
		}
		var volume float64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}
		bars = append(bars, models.Bar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      *quote.Open[i],
			High:      *quote.High[i],
			Low:       *quote.Low[i],
			Close:     *quote.Close[i],
			Volume:    volume,
		})
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})

	return bars, nil
}
