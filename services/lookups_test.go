package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolidayClientFetchYear(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/public-holidays", r.URL.Path)
		assert.Equal(t, "2025", r.URL.Query().Get("year"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"year": 2025,
			"holidays": [
				{"date": "2025-01-01", "name": "New Year's Day"},
				{"date": "not-a-date", "name": "Broken entry"},
				{"date": "2025-12-25", "name": "Christmas Day"}
			],
			"source": "gov-uk"
		}`))
	}))
	defer srv.Close()

	client := NewHolidayClient(srv.URL)
	holidays, err := client.FetchYear(context.Background(), 2025)
	require.NoError(t, err)

	// The malformed entry is skipped, not fatal.
	require.Len(t, holidays, 2)
	assert.Equal(t, "New Year's Day", holidays[0].Name)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), holidays[0].Date)
	assert.Equal(t, "Christmas Day", holidays[1].Name)
}

func TestHolidayClientSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"year out of range"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewHolidayClient(srv.URL)
	_, err := client.FetchYear(context.Background(), 1800)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")
	assert.Contains(t, err.Error(), "year out of range")
}

func TestExchangeClientRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/exchange-rates", r.URL.Path)
		assert.Equal(t, "GBP", r.URL.Query().Get("base"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"base": "GBP",
			"rates": {"USD": 1.27, "EUR": 1.17},
			"fetched_at": "2025-06-10T09:00:00Z"
		}`))
	}))
	defer srv.Close()

	client := NewExchangeClient(srv.URL)
	rate, err := client.Rate(context.Background(), "gbp", "usd")
	require.NoError(t, err)
	assert.InDelta(t, 1.27, rate, 1e-9)
}

func TestExchangeClientSameCurrencySkipsLookup(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewExchangeClient(srv.URL)
	rate, err := client.Rate(context.Background(), "GBP", " gbp ")
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)
	assert.Equal(t, 0, calls)
}

func TestExchangeClientMissingRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base": "GBP", "rates": {"USD": 1.27}}`))
	}))
	defer srv.Close()

	client := NewExchangeClient(srv.URL)
	_, err := client.Rate(context.Background(), "GBP", "JPY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rate for JPY")
}
