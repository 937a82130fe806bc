package api

import (
	"log"
	"net/http"
	"time"

	"eduseva-cli/pkg/uid"
)

// Middleware wraps an http.RoundTripper with extra behavior on the way
// out. The client applies these to every request it sends.
type Middleware func(http.RoundTripper) http.RoundTripper

// roundTripperFunc adapts a function to http.RoundTripper.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Chain applies middlewares to base, first middleware outermost.
func Chain(base http.RoundTripper, middlewares ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		base = middlewares[i](base)
	}
	return base
}

// RequestID tags every outgoing request with a unique X-Request-ID so
// failures can be correlated with server-side logs. A well-formed ID
// already on the request is kept; anything else is replaced.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if !uid.IsValid(r.Header.Get("X-Request-ID")) {
				r.Header.Set("X-Request-ID", uid.New())
			}
			return next.RoundTrip(r)
		})
	}
}

// Auth injects the bearer token into outgoing requests. The token is
// resolved per request via tokenFn, so a login during the process
// lifetime takes effect without rebuilding the client.
// NO GLOBAL STATE - the token source is passed via closure.
func Auth(tokenFn func() string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get("Authorization") == "" {
				if token := tokenFn(); token != "" {
					r.Header.Set("Authorization", "Bearer "+token)
				}
			}
			return next.RoundTrip(r)
		})
	}
}

// UserAgent sets the User-Agent header on outgoing requests.
func UserAgent(ua string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			r.Header.Set("User-Agent", ua)
			return next.RoundTrip(r)
		})
	}
}

// Logging logs outgoing requests: method, path, status and duration.
func Logging() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()

			resp, err := next.RoundTrip(r)

			duration := time.Since(start)
			if err != nil {
				log.Printf("[%s] %s error: %v (%s)", r.Method, r.URL.Path, err, duration)
				return nil, err
			}

			log.Printf("[%s] %s %d %s", r.Method, r.URL.Path, resp.StatusCode, duration)
			return resp, nil
		})
	}
}
