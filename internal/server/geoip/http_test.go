package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPLookup_ProxyYes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/198.51.100.7", r.URL.Path)
		require.Equal(t, "k", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{"status":"ok","198.51.100.7":{"proxy":"yes","type":"VPN"}}`))
	}))
	defer srv.Close()

	l := NewHTTPLookup(srv.URL, "k", time.Second)
	res, err := l.Lookup(context.Background(), "198.51.100.7")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Proxy)
}

func TestHTTPLookup_ProxyNo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","203.0.113.9":{"proxy":"no"}}`))
	}))
	defer srv.Close()

	l := NewHTTPLookup(srv.URL, "", time.Second)
	res, err := l.Lookup(context.Background(), "203.0.113.9")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.False(t, res.Proxy)
}

func TestHTTPLookup_UnknownAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	l := NewHTTPLookup(srv.URL, "", time.Second)
	res, err := l.Lookup(context.Background(), "203.0.113.9")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestHTTPLookup_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	l := NewHTTPLookup(srv.URL, "", time.Second)
	_, err := l.Lookup(context.Background(), "203.0.113.9")
	require.Error(t, err)
}

func TestHTTPLookup_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	l := NewHTTPLookup(srv.URL, "", 10*time.Millisecond)
	_, err := l.Lookup(context.Background(), "203.0.113.9")
	require.Error(t, err)
}
