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

func testWeatherService(baseURL string) *WeatherService {
	return &WeatherService{
		apiKey:  "test-key",
		baseURL: baseURL,
		client:  &http.Client{Timeout: time.Second},
	}
}

func TestWeatherLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "02134,us", r.URL.Query().Get("zip"))
		assert.Equal(t, "imperial", r.URL.Query().Get("units"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		w.Write([]byte(`{"main":{"temp":23.6},"weather":[{"description":"light snow","icon":"13d"}]}`))
	}))
	defer srv.Close()

	weather := testWeatherService(srv.URL).Lookup(context.Background(), "02134")

	require.NotNil(t, weather)
	assert.Equal(t, 24, weather.Temperature)
	assert.Equal(t, "light snow", weather.Description)
	assert.Equal(t, "13d", weather.Icon)
}

func TestWeatherLookup_NoAPIKey(t *testing.T) {
	svc := testWeatherService("http://unused")
	svc.apiKey = ""

	assert.Nil(t, svc.Lookup(context.Background(), "02134"))
}

func TestWeatherLookup_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	assert.Nil(t, testWeatherService(srv.URL).Lookup(context.Background(), "02134"))
}

func TestWeatherLookup_ServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	assert.Nil(t, testWeatherService(srv.URL).Lookup(context.Background(), "02134"))
}
