package http

import (
	"net"
	"net/http"
	"time"
)

type TransportFunc func(http.RoundTripper) http.RoundTripper

type clientConfig struct {
	dialTimeout           time.Duration
	requestTimeout        time.Duration
	keepAlive             time.Duration
	tlsHandshakeTimeout   time.Duration
	responseHeaderTimeout time.Duration
	idleConnTimeout       time.Duration
	maxIdleConns          int
	maxIdleConnsPerHost   int
	disableCompression    bool
	transports            []TransportFunc
}

// Defaults suit a single inference provider called from one process: few
// hosts, many sequential calls on warm connections.
func defaultClientConfig() *clientConfig {
	return &clientConfig{
		dialTimeout:           10 * time.Second,
		requestTimeout:        60 * time.Second,
		keepAlive:             30 * time.Second,
		tlsHandshakeTimeout:   10 * time.Second,
		responseHeaderTimeout: 60 * time.Second,
		idleConnTimeout:       90 * time.Second,
		maxIdleConns:          32,
		maxIdleConnsPerHost:   16,
	}
}

// NewClient builds an *http.Client with the given options. It is shared by
// the JSON Connector and by SDK clients that accept a custom *http.Client.
// Transports wrap in order, so the first one added sees the request first.
func NewClient(opts ...HttpOpts) *http.Client {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	dialer := &net.Dialer{
		Timeout:   cfg.dialTimeout,
		KeepAlive: cfg.keepAlive,
	}

	var rt http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          cfg.maxIdleConns,
		MaxIdleConnsPerHost:   cfg.maxIdleConnsPerHost,
		TLSHandshakeTimeout:   cfg.tlsHandshakeTimeout,
		ResponseHeaderTimeout: cfg.responseHeaderTimeout,
		IdleConnTimeout:       cfg.idleConnTimeout,
		DisableCompression:    cfg.disableCompression,
	}

	for i := len(cfg.transports) - 1; i >= 0; i-- {
		rt = cfg.transports[i](rt)
	}

	return &http.Client{
		Timeout:   cfg.requestTimeout,
		Transport: rt,
	}
}
