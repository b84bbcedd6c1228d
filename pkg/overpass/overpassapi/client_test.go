package overpassapi_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"scout/pkg/logger"
	"scout/pkg/overpass"
	"scout/pkg/overpass/overpassapi"
	"scout/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(endpoints []string, fn rtFunc) *overpassapi.Client {
	return overpassapi.New(&http.Client{Transport: fn}, overpassapi.Options{
		Endpoints:      endpoints,
		MaxAttempts:    3,
		RetryBaseDelay: time.Millisecond,
		UserAgent:      "scout-test",
	})
}

func jsonResponse(status int, body string) *http.Response {
	h := http.Header{}
	h.Set("Content-Type", "application/json")

	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestClient_Query_success(t *testing.T) {
	c := newTestClient([]string{"https://overpass.example/api"}, func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "overpass.example", r.URL.Host)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.Equal(t, "scout-test", r.Header.Get("User-Agent"))

		require.NoError(t, r.ParseForm())
		require.Contains(t, r.PostForm.Get("data"), "[out:json]")

		return jsonResponse(http.StatusOK,
			`{"elements":[{"type":"node","id":42,"lat":29.5,"lon":-98.4,"tags":{"name":"Glow"}}]}`), nil
	})

	resp, err := c.Query(context.Background(), "[out:json];node(1);out;")
	require.NoError(t, err)
	require.Len(t, resp.Elements, 1)

	el := resp.Elements[0]
	require.Equal(t, "node", el.Type)
	require.Equal(t, int64(42), el.ID)
	require.NotNil(t, el.Lat)
	require.InDelta(t, 29.5, *el.Lat, 1e-9)
	require.Equal(t, "Glow", el.Tag("name"))
}

func TestClient_Query_missingElementsTolerated(t *testing.T) {
	c := newTestClient([]string{"https://overpass.example/api"}, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"version":0.6}`), nil
	})

	resp, err := c.Query(context.Background(), "q")
	require.NoError(t, err)
	require.Empty(t, resp.Elements, "missing elements field should decode to zero results")
}

func TestClient_Query_retriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient([]string{"https://overpass.example/api"}, func(r *http.Request) (*http.Response, error) {
		if calls.Add(1) < 3 {
			return jsonResponse(http.StatusGatewayTimeout, "busy"), nil
		}

		return jsonResponse(http.StatusOK, `{"elements":[]}`), nil
	})

	_, err := c.Query(context.Background(), "q")
	require.NoError(t, err)
	require.Equal(t, int32(3), calls.Load(), "should retry the same endpoint before failing over")
}

func TestClient_Query_failsOverToNextEndpoint(t *testing.T) {
	var primary, secondary atomic.Int32
	c := newTestClient(
		[]string{"https://primary.example/api", "https://secondary.example/api"},
		func(r *http.Request) (*http.Response, error) {
			if r.URL.Host == "primary.example" {
				primary.Add(1)

				return nil, errors.New("connection refused")
			}
			secondary.Add(1)

			return jsonResponse(http.StatusOK, `{"elements":[]}`), nil
		})

	_, err := c.Query(context.Background(), "q")
	require.NoError(t, err)
	require.Equal(t, int32(3), primary.Load(), "primary endpoint should exhaust its attempts")
	require.Equal(t, int32(1), secondary.Load())
}

func TestClient_Query_wrongContentTypeIsRetryable(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient([]string{"https://overpass.example/api"}, func(r *http.Request) (*http.Response, error) {
		calls.Add(1)
		h := http.Header{}
		h.Set("Content-Type", "text/html")

		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     h,
			Body:       io.NopCloser(strings.NewReader("<html>rate limited</html>")),
		}, nil
	})

	_, err := c.Query(context.Background(), "q")
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrExhausted)
	require.Equal(t, int32(3), calls.Load())
}

func TestClient_Query_allEndpointsExhausted(t *testing.T) {
	var calls atomic.Int32
	endpoints := []string{"https://a.example/api", "https://b.example/api", "https://c.example/api"}
	c := newTestClient(endpoints, func(r *http.Request) (*http.Response, error) {
		calls.Add(1)

		return jsonResponse(http.StatusBadGateway, "upstream bad"), nil
	})

	_, err := c.Query(context.Background(), "q")
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrExhausted)
	require.Contains(t, err.Error(), "upstream bad", "exhausted error should carry the last failure")
	require.Equal(t, int32(9), calls.Load(), "3 attempts on each of 3 endpoints")
}

func TestClient_Query_canceledDuringBackoff(t *testing.T) {
	c := overpassapi.New(&http.Client{Transport: rtFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, "busy"), nil
	})}, overpassapi.Options{
		Endpoints:      []string{"https://overpass.example/api"},
		MaxAttempts:    3,
		RetryBaseDelay: time.Minute,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Query(ctx, "q")
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

// Interface conformance is also asserted in the implementation; the blank
// assignment here keeps the test honest against interface drift.
var _ overpass.Client = (*overpassapi.Client)(nil)
