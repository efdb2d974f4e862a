package documents

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu           sync.RWMutex
	data         map[string][]Document            // customer ID -> documents
	fingerprints map[string]map[string]struct{}   // customer ID -> fingerprint set
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data:         make(map[string][]Document),
		fingerprints: make(map[string]map[string]struct{}),
	}
}

// Create stores a document, rejecting duplicate content under the write lock
// so concurrent identical uploads produce exactly one record.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	seen, ok := r.fingerprints[doc.CustomerID]
	if !ok {
		seen = make(map[string]struct{})
		r.fingerprints[doc.CustomerID] = seen
	}
	if _, exists := seen[doc.Fingerprint]; exists {
		return ErrDuplicate
	}
	seen[doc.Fingerprint] = struct{}{}
	r.data[doc.CustomerID] = append(r.data[doc.CustomerID], doc)
	return nil
}

// GetByID returns a document by ID for a customer.
func (r *MemoryRepo) GetByID(ctx context.Context, customerID, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := r.data[customerID]
	for i := range docs {
		if docs[i].ID == documentID {
			return docs[i], nil
		}
	}
	return Document{}, ErrNotFound
}

// ListByCustomer returns documents for a customer, newest first, honoring
// limit/offset, plus the total count.
func (r *MemoryRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]Document, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	// Snapshot under the read lock; Delete shifts the slice in place.
	r.mu.RLock()
	owned := r.data[customerID]
	total := len(owned)
	if total == 0 || offset >= total {
		r.mu.RUnlock()
		return []Document{}, total, nil
	}
	docs := make([]Document, total)
	copy(docs, owned)
	r.mu.RUnlock()

	// Sort newest-first; ties break on ID for a stable order.
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})

	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return docs[offset:end], total, nil
}

// Delete removes a document owned by the customer and returns it.
func (r *MemoryRepo) Delete(ctx context.Context, customerID, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	docs := r.data[customerID]
	for i := range docs {
		if docs[i].ID != documentID {
			continue
		}
		deleted := docs[i]
		r.data[customerID] = append(docs[:i], docs[i+1:]...)
		if seen, ok := r.fingerprints[customerID]; ok {
			delete(seen, deleted.Fingerprint)
		}
		return deleted, nil
	}
	return Document{}, ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
