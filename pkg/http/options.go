package http

import "time"

type HttpOpts func(*clientConfig)

func WithConnClientTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) {
		c.dialTimeout = timeout
	}
}

// WithRequestTimeout bounds the whole exchange including the body. Zero
// disables the limit.
func WithRequestTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) {
		c.requestTimeout = timeout
	}
}

// WithStreaming prepares the client for server-sent events: no overall
// deadline, the caller's context ends the stream, and no transparent gzip
// so events are handed over as soon as they arrive.
func WithStreaming() HttpOpts {
	return func(c *clientConfig) {
		c.requestTimeout = 0
		c.disableCompression = true
	}
}

func WithClientKeepAlive(keepAlive time.Duration) HttpOpts {
	return func(c *clientConfig) {
		c.keepAlive = keepAlive
	}
}

func WithResponseHeaderTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) {
		c.responseHeaderTimeout = timeout
	}
}

func WithIdleConnTimeout(timeout time.Duration) HttpOpts {
	return func(c *clientConfig) {
		c.idleConnTimeout = timeout
	}
}

func WithTransport(transport TransportFunc) HttpOpts {
	return func(c *clientConfig) {
		c.transports = append(c.transports, transport)
	}
}
