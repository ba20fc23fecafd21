package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rosarioResponse = `{
  "status": "OK",
  "results": [{
    "formatted_address": "Córdoba 1500, Rosario, Santa Fe, Argentina",
    "address_components": [
      {"long_name": "1500", "short_name": "1500", "types": ["street_number"]},
      {"long_name": "Rosario", "short_name": "Rosario", "types": ["locality", "political"]},
      {"long_name": "Santa Fe", "short_name": "SF", "types": ["administrative_area_level_1", "political"]},
      {"long_name": "Argentina", "short_name": "AR", "types": ["country", "political"]}
    ],
    "geometry": {"location": {"lat": -32.9468, "lng": -60.6393}}
  }]
}`

func newTestGoogleGeocoder(t *testing.T, status int, body string) (*GoogleGeocoder, *string) {
	t.Helper()
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("address")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	g, err := NewGoogleGeocoder("test-key", srv.URL)
	require.NoError(t, err)
	return g, &query
}

func TestGoogleGeocoder_Success(t *testing.T) {
	g, query := newTestGoogleGeocoder(t, http.StatusOK, rosarioResponse)

	result, err := g.GeocodeAddress(context.Background(), "Córdoba 1500, Rosario")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Córdoba 1500, Rosario", *query)
	assert.InDelta(t, -32.9468, result.Lat, 1e-9)
	assert.InDelta(t, -60.6393, result.Lng, 1e-9)
	assert.Equal(t, "Rosario", result.City)
	assert.Equal(t, "Santa Fe", result.Region)
	assert.Equal(t, "Argentina", result.Country)
}

func TestGoogleGeocoder_ZeroResults(t *testing.T) {
	g, _ := newTestGoogleGeocoder(t, http.StatusOK, `{"status": "ZERO_RESULTS", "results": []}`)

	result, err := g.GeocodeAddress(context.Background(), "zzzz")

	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestGoogleGeocoder_APIError(t *testing.T) {
	g, _ := newTestGoogleGeocoder(t, http.StatusOK, `{"status": "REQUEST_DENIED", "error_message": "bad key", "results": []}`)

	result, err := g.GeocodeAddress(context.Background(), "Rosario")

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestGoogleGeocoder_DisabledWithoutKey(t *testing.T) {
	g, err := NewGoogleGeocoder("", "")
	require.NoError(t, err)

	result, err := g.GeocodeAddress(context.Background(), "Rosario")

	require.NoError(t, err)
	assert.Nil(t, result)
}
