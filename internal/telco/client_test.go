// internal/telco/client_test.go
package telco

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callguard/internal/common/auth"
	"callguard/internal/common/config"
	apperrors "callguard/internal/common/errors"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/", handler)
	server := httptest.NewServer(mux)

	cfg := config.TelcoConfig{
		BaseURL:      server.URL,
		TokenURL:     server.URL + "/oauth/token",
		ClientID:     "client",
		ClientSecret: "secret",
		Timeout:      2000,
	}
	return server, NewClient(cfg, auth.NewTokenSource(cfg))
}

func TestIdentityByPhone(t *testing.T) {
	server, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/kyc-match/v0/identity", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "+40712345678", payload["phoneNumber"])

		w.Write([]byte(`{
			"name": "Marcel Barosanu",
			"givenName": "Marcel",
			"familyName": "Barosanu",
			"address": "Strada Victoriei 12",
			"locality": "Bucharest",
			"country": "Romania"
		}`))
	})
	defer server.Close()

	identity, err := client.IdentityByPhone(context.Background(), "+40712345678")
	require.NoError(t, err)
	assert.Equal(t, "+40712345678", identity.PhoneNumber)
	assert.Equal(t, "Marcel Barosanu", identity.Name)
	assert.Equal(t, "Bucharest", identity.Locality)
	assert.Equal(t, "Romania", identity.Country)
}

func TestIdentityByPhoneNotFound(t *testing.T) {
	server, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer server.Close()

	_, err := client.IdentityByPhone(context.Background(), "+40799999999")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLocationByPhone(t *testing.T) {
	server, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/location-retrieval/v0/retrieve", r.URL.Path)
		w.Write([]byte(`{
			"lastLocationTime": "2026-02-10T09:30:00Z",
			"area": {
				"areaType": "CIRCLE",
				"center": {"latitude": 44.4268, "longitude": 26.1025},
				"radius": 800
			}
		}`))
	})
	defer server.Close()

	loc, err := client.LocationByPhone(context.Background(), "+40712345678")
	require.NoError(t, err)
	assert.InDelta(t, 44.4268, loc.Latitude, 1e-9)
	assert.InDelta(t, 26.1025, loc.Longitude, 1e-9)
	assert.Equal(t, float64(800), loc.AccuracyRadius)
	assert.Equal(t, time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC), loc.LastLocationTime)
}

func TestLocationByPhoneUnsupportedArea(t *testing.T) {
	server, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"area": {"areaType": "POLYGON"}}`))
	})
	defer server.Close()

	_, err := client.LocationByPhone(context.Background(), "+40712345678")
	require.Error(t, err)
}

func TestLatestSimChange(t *testing.T) {
	server, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sim-swap/v0/retrieve-date", r.URL.Path)
		w.Write([]byte(`{"latestSimChange": "2026-02-01T00:00:00Z"}`))
	})
	defer server.Close()

	record, err := client.LatestSimChange(context.Background(), "+40712345678")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), record.LatestSimChange)
}

func TestServerError(t *testing.T) {
	server, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.IdentityByPhone(context.Background(), "+40712345678")
	require.Error(t, err)
	assert.False(t, apperrors.IsNotFound(err))
}
