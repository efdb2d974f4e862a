package documents

import "time"

// Document represents an uploaded document owned by a customer.
type Document struct {
	ID          string
	CustomerID  string
	Filename    string
	Extension   string
	Fingerprint string
	SizeBytes   int64
	ContentType string
	StorageKey  string
	CreatedAt   time.Time
}
