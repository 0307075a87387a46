package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type exchangeAPIResponse struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt string             `json:"fetched_at"`
}

// ExchangeClient fetches currency rates from the lookup service. Rates are
// only used to re-denominate the pay preview for display.
type ExchangeClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewExchangeClient(baseURL string) *ExchangeClient {
	return &ExchangeClient{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        20,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}
}

// Rate returns the multiplier from base currency to target currency
func (c *ExchangeClient) Rate(ctx context.Context, base, target string) (float64, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	target = strings.ToUpper(strings.TrimSpace(target))
	if base == target {
		return 1, nil
	}

	u, err := url.Parse(fmt.Sprintf("%s/exchange-rates", c.BaseURL))
	if err != nil {
		return 0, err
	}
	q := u.Query()
	q.Set("base", base)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("exchange-rates API status=%d, body=%s", resp.StatusCode, string(b))
	}

	var api exchangeAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return 0, err
	}

	rate, ok := api.Rates[target]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("no rate for %s in %s response", target, base)
	}
	return rate, nil
}
