// Package delivery defines the contract every transport entry point
// (HTTP server, future listeners) satisfies so main can serve them uniformly.
package delivery

import "context"

// Delivery is a long-running transport. Serve blocks until the transport
// stops or the context is cancelled.
type Delivery interface {
	Serve(ctx context.Context) error
}
