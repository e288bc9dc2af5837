// Package transport abstracts the outbound HTTP capability the client is
// built on: send a request, receive status and body. Everything above it
// depends only on the Doer interface, so tests and callers can swap the
// real client for fakes or wrap it with interceptors.
package transport

import (
	"net/http"
	"time"
)

// Doer is the transport capability. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to the Doer interface.
type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// Interceptor observes or decorates an outbound request on its way to the
// next Doer in the chain.
type Interceptor func(req *http.Request, next Doer) (*http.Response, error)

// Chain composes interceptors around a base Doer. The first interceptor is
// the outermost, matching the order they are listed in.
func Chain(base Doer, interceptors ...Interceptor) Doer {
	chain := base
	for i := len(interceptors) - 1; i >= 0; i-- {
		interceptor := interceptors[i]
		next := chain
		chain = DoerFunc(func(req *http.Request) (*http.Response, error) {
			return interceptor(req, next)
		})
	}
	return chain
}

// New returns an HTTP-backed Doer with a per-request timeout.
func New(timeout time.Duration) Doer {
	return &http.Client{Timeout: timeout}
}
