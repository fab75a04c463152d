// Package middleware holds the HTTP middleware wrapped around the transpiler
// API routes.
package middleware

import "net/http"

// Middleware wraps an http.Handler
type Middleware func(http.Handler) http.Handler

// Chain composes middleware; the first added runs outermost
type Chain struct {
	middlewares []Middleware
}

// NewChain creates a chain
func NewChain(middlewares ...Middleware) *Chain {
	return &Chain{middlewares: middlewares}
}

// Use appends middleware to the chain
func (c *Chain) Use(m ...Middleware) *Chain {
	c.middlewares = append(c.middlewares, m...)
	return c
}

// Then wraps handler with every middleware in the chain
func (c *Chain) Then(handler http.Handler) http.Handler {
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		handler = c.middlewares[i](handler)
	}
	return handler
}
