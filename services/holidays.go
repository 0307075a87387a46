package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

type holidayAPIResponse struct {
	Year     int `json:"year"`
	Holidays []struct {
		Date string `json:"date"` // YYYY-MM-DD
		Name string `json:"name"`
	} `json:"holidays"`
	Source string `json:"source"`
}

// HolidayClient fetches the public-holiday calendar from the lookup service
type HolidayClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewHolidayClient(baseURL string) *HolidayClient {
	return &HolidayClient{
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

// FetchYear returns the public holidays for one calendar year. Entries with
// unparseable dates are skipped.
func (c *HolidayClient) FetchYear(ctx context.Context, year int) ([]Holiday, error) {
	u, err := url.Parse(fmt.Sprintf("%s/public-holidays", c.BaseURL))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("year", fmt.Sprintf("%d", year))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("public-holidays API status=%d, body=%s", resp.StatusCode, string(b))
	}

	var api holidayAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return nil, err
	}

	out := make([]Holiday, 0, len(api.Holidays))
	for _, h := range api.Holidays {
		d, err := time.Parse(dateLayout, h.Date)
		if err != nil {
			continue
		}
		out = append(out, Holiday{Date: dateOnly(d.UTC()), Name: h.Name})
	}

	return out, nil
}
