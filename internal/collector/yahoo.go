package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"PixelTrader/internal/model"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooSource implements Source using the Yahoo Finance public chart API.
// Yahoo has no company or news endpoint without a session, so those calls are always empty.
type YahooSource struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps dashboard symbol to Yahoo ticker
}

// NewYahooSource creates a new Yahoo Finance source.
func NewYahooSource(proxyURL string, timeout time.Duration) *YahooSource {
	return &YahooSource{
		BaseURL: yahooChartURL,
		Client:  newHTTPClient(proxyURL, timeout),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooSource) Name() string { return "yahoo" }

func (f *YahooSource) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
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

func at(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil {
		return 0, false
	}
	return *values[i], true
}

// FetchCandles maps period to Yahoo's range parameter; intervals share the same vocabulary.
func (f *YahooSource) FetchCandles(ctx context.Context, symbol, period, interval string) (model.Series, error) {
	q := url.Values{}
	q.Set("interval", interval)
	q.Set("range", period)
	u := fmt.Sprintf("%s/%s?%s", f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &StatusError{Code: resp.StatusCode}
		}
		return nil, fmt.Errorf("yahoo decode: %w: %v", ErrMalformed, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: %w", ErrNoData)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make(model.Series, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o, okO := at(quote.Open, i)
		h, okH := at(quote.High, i)
		l, okL := at(quote.Low, i)
		c, okC := at(quote.Close, i)
		if !okO || !okH || !okL || !okC {
			continue // null bars (holidays, halted sessions)
		}
		v, _ := at(quote.Volume, i)
		bars = append(bars, model.PriceBar{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: flexNumber(v).volume(),
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo: %w", ErrNoData)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func (f *YahooSource) FetchProfile(context.Context, string) *model.CompanyProfile { return nil }

func (f *YahooSource) FetchNews(context.Context, string) []model.NewsItem {
	return []model.NewsItem{}
}
