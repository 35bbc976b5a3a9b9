// Package http holds outbound HTTP plumbing shared by external API adapters.
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient returns a client for calls to third-party APIs.
// http.DefaultClient has no timeout, so adapters take this one instead.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
		// a custom DialContext turns HTTP/2 off unless forced
		ForceAttemptHTTP2: true,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
