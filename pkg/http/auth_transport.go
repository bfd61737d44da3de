package http

import "net/http"

type authTransport struct {
	token     string
	transport http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token == "" || req.Header.Get("Authorization") != "" {
		return t.transport.RoundTrip(req)
	}

	reqCopy := req.Clone(req.Context())
	reqCopy.Header.Set("Authorization", "Bearer "+t.token)

	return t.transport.RoundTrip(reqCopy)
}

// WithAuthToken sets a bearer token on requests that carry no Authorization
// header of their own.
func WithAuthToken(token string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &authTransport{
			token:     token,
			transport: rt,
		}
	})
}

type requestIDTransport struct {
	transport http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id, ok := req.Context().Value(requestIDContextKey{}).(string)
	if !ok || id == "" || req.Header.Get(RequestIDHeader) != "" {
		return t.transport.RoundTrip(req)
	}

	reqCopy := req.Clone(req.Context())
	reqCopy.Header.Set(RequestIDHeader, id)

	return t.transport.RoundTrip(reqCopy)
}

// WithRequestIDPropagation forwards the request id stored by ContextWithRequestID.
func WithRequestIDPropagation() HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &requestIDTransport{transport: rt}
	})
}
