package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"PixelTrader/internal/model"
)

// DefaultBaseURL is where the candle API listens when nothing is configured.
const DefaultBaseURL = "http://127.0.0.1:5002/api"

// BackendClient implements Source against the dashboard's REST backend.
type BackendClient struct {
	BaseURL string
	Client  *http.Client
}

// NewBackendClient creates a client with optional proxy support.
func NewBackendClient(baseURL, proxyURL string, timeout time.Duration) *BackendClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &BackendClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (c *BackendClient) Name() string { return "backend" }

// rawBar is one element of the candle array. Fields are decoded leniently:
// numbers may arrive as strings and "time" is accepted in place of "date".
type rawBar struct {
	Date   string     `json:"date"`
	Time   string     `json:"time"`
	Open   flexNumber `json:"open"`
	High   flexNumber `json:"high"`
	Low    flexNumber `json:"low"`
	Close  flexNumber `json:"close"`
	Volume flexNumber `json:"volume"`
}

// UnmarshalJSON leaves a missing price as NaN so it fails the same check as null.
func (r *rawBar) UnmarshalJSON(data []byte) error {
	type plain rawBar
	nan := flexNumber(math.NaN())
	p := plain{Open: nan, High: nan, Low: nan, Close: nan}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = rawBar(p)
	return nil
}

// FetchCandles fails on transport errors, non-2xx statuses, a body that is not an
// array, and an empty array.
func (c *BackendClient) FetchCandles(ctx context.Context, symbol, period, interval string) (model.Series, error) {
	q := url.Values{}
	q.Set("period", period)
	q.Set("interval", interval)
	endpoint := fmt.Sprintf("%s/candles/%s?%s", c.BaseURL, url.PathEscape(symbol), q.Encode())

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	series, err := DecodeCandles(body)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	return series, nil
}

// FetchProfile returns nil on any error.
func (c *BackendClient) FetchProfile(ctx context.Context, symbol string) *model.CompanyProfile {
	body, err := c.get(ctx, fmt.Sprintf("%s/company/%s", c.BaseURL, url.PathEscape(symbol)))
	if err != nil {
		log.Debug().Err(err).Str("symbol", symbol).Msg("company profile unavailable")
		return nil
	}
	var p model.CompanyProfile
	if err := json.Unmarshal(body, &p); err != nil {
		log.Debug().Err(err).Str("symbol", symbol).Msg("decode company profile")
		return nil
	}
	if p.Symbol == "" {
		p.Symbol = symbol
	}
	return &p
}

// FetchNews returns an empty list on any error.
func (c *BackendClient) FetchNews(ctx context.Context, symbol string) []model.NewsItem {
	body, err := c.get(ctx, fmt.Sprintf("%s/news/%s", c.BaseURL, url.PathEscape(symbol)))
	if err != nil {
		log.Debug().Err(err).Str("symbol", symbol).Msg("news unavailable")
		return []model.NewsItem{}
	}
	var items []model.NewsItem
	if err := json.Unmarshal(body, &items); err != nil || items == nil {
		log.Debug().Err(err).Str("symbol", symbol).Msg("decode news")
		return []model.NewsItem{}
	}
	return items
}

func (c *BackendClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

// StatusError is a non-2xx answer. Message carries the backend's "error" field if it sent one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("status %d", e.Code)
}

func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Error
}

// DecodeCandles parses a JSON array of bars and returns them sorted by date.
func DecodeCandles(body []byte) (model.Series, error) {
	var raws []rawBar
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raws) == 0 {
		return nil, ErrNoData
	}
	series := make(model.Series, 0, len(raws))
	for i, r := range raws {
		stamp := r.Date
		if stamp == "" {
			stamp = r.Time
		}
		date, err := ParseDate(stamp)
		if err != nil {
			return nil, fmt.Errorf("%w: bar %d: %v", ErrMalformed, i, err)
		}
		bar := model.PriceBar{
			Date:   date,
			Open:   float64(r.Open),
			High:   float64(r.High),
			Low:    float64(r.Low),
			Close:  float64(r.Close),
			Volume: r.Volume.volume(),
		}
		if !finitePrices(bar) {
			return nil, fmt.Errorf("%w: bar %d: non-numeric price", ErrMalformed, i)
		}
		series = append(series, bar)
	}
	sort.SliceStable(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}

func finitePrices(b model.PriceBar) bool {
	for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate accepts the date formats the backend and the CSV export use.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// flexNumber decodes a JSON number or numeric string. Anything else becomes NaN.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = flexNumber(math.NaN())
		return nil
	}
	*n = flexNumber(v)
	return nil
}

// volume treats missing, negative or non-finite values as zero and rounds fractions.
func (n flexNumber) volume() int64 {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return int64(math.Round(v))
}
