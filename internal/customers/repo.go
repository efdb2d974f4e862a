package customers

import "context"

// Repo defines persistence operations for customers.
type Repo interface {
	// Create persists a new customer. It returns ErrEmailTaken when the
	// email is already registered; the check and insert are atomic.
	Create(ctx context.Context, customer Customer) error
	GetByAPIKey(ctx context.Context, apiKey string) (Customer, error)
}
