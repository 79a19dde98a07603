package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"PixelTrader/internal/model"
)

var (
	// ErrNoData means the source answered but had no bars for the request.
	ErrNoData = errors.New("no candle data")
	// ErrMalformed means the response body was not the expected JSON shape.
	ErrMalformed = errors.New("malformed response")
)

// Source fetches everything the dashboard shows for a symbol.
//
// Candles are required for the chart, so FetchCandles reports every failure.
// Profile and news are auxiliary: those calls swallow errors and return nil/empty.
type Source interface {
	FetchCandles(ctx context.Context, symbol, period, interval string) (model.Series, error)
	FetchProfile(ctx context.Context, symbol string) *model.CompanyProfile
	FetchNews(ctx context.Context, symbol string) []model.NewsItem
	Name() string
}

// newHTTPClient builds a client with an optional proxy.
func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
