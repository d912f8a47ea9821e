// Package delivery holds the transports that expose the admin backend.
package delivery

import "context"

// Delivery is a long-running server started by the fx app.
type Delivery interface {
	Serve(ctx context.Context) error
}
