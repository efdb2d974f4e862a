package customers

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu      sync.RWMutex
	byEmail map[string]string // normalized email -> customer ID
	byKey   map[string]Customer
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byEmail: make(map[string]string),
		byKey:   make(map[string]Customer),
	}
}

// Create stores a new customer, rejecting duplicate emails under the write lock.
func (r *MemoryRepo) Create(ctx context.Context, customer Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[customer.Email]; exists {
		return ErrEmailTaken
	}
	r.byEmail[customer.Email] = customer.ID
	r.byKey[customer.APIKey] = customer
	return nil
}

// GetByAPIKey returns the customer owning the given API key.
func (r *MemoryRepo) GetByAPIKey(ctx context.Context, apiKey string) (Customer, error) {
	if err := ctx.Err(); err != nil {
		return Customer{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.byKey[apiKey]
	if !ok {
		return Customer{}, ErrNotFound
	}
	return customer, nil
}

var _ Repo = (*MemoryRepo)(nil)
