package documents

import "context"

// Repo defines persistence operations for documents.
type Repo interface {
	// Create persists a new document. It returns ErrDuplicate when the
	// customer already stored content with the same fingerprint; the
	// check and insert are a single atomic operation.
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, customerID, documentID string) (Document, error)
	// ListByCustomer returns one page of the customer's documents,
	// newest first, together with the total count.
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]Document, int, error)
	// Delete removes the document and returns the deleted record so the
	// caller can clean up stored bytes.
	Delete(ctx context.Context, customerID, documentID string) (Document, error)
}
