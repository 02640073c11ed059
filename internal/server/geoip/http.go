package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPLookup queries a proxycheck-style HTTP API: GET {endpoint}/{addr}
// returns a JSON object keyed by the queried address, each entry carrying a
// "proxy" verdict of "yes" or "no". Requests are bounded by the configured
// timeout and are not retried; the proxy gate treats failures as unknown
// origin.
type HTTPLookup struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	client   *http.Client
}

func NewHTTPLookup(endpoint, apiKey string, timeout time.Duration) *HTTPLookup {
	return &HTTPLookup{
		endpoint: endpoint,
		apiKey:   apiKey,
		timeout:  timeout,
		client:   &http.Client{},
	}
}

type addressRecord struct {
	Proxy string `json:"proxy"`
}

func (l *HTTPLookup) Lookup(ctx context.Context, addr string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	u := fmt.Sprintf("%s/%s", l.endpoint, url.PathEscape(addr))
	if l.apiKey != "" {
		u += "?key=" + url.QueryEscape(l.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reputation lookup returned status %d", resp.StatusCode)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	entry, ok := raw[addr]
	if !ok {
		// provider has no data for this address
		return nil, nil
	}

	var rec addressRecord
	if err := json.Unmarshal(entry, &rec); err != nil {
		return nil, err
	}

	return &Result{Proxy: rec.Proxy == "yes"}, nil
}
