package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault-backend/internal/shared/storage/object"
	"docvault-backend/internal/shared/telemetry"
	"docvault-backend/internal/shared/util"
)

const defaultStorageTimeout = 5 * time.Second

// Service contains business logic for documents: the upload gate, duplicate
// detection, and tenant-scoped listing and retrieval.
type Service struct {
	Store object.ObjectStore
	Repo  Repo

	allowedExtensions map[string]struct{}

	// Timeout bounds each repo call; expiry surfaces as ErrUnavailable.
	Timeout time.Duration
}

// NewService constructs a Service with the given extension allow-list.
func NewService(store object.ObjectStore, repo Repo, allowedExtensions []string) *Service {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allowed[ext] = struct{}{}
		}
	}
	return &Service{
		Store:             store,
		Repo:              repo,
		allowedExtensions: allowed,
		Timeout:           defaultStorageTimeout,
	}
}

// Upload validates the file, fingerprints its content, saves the bytes to
// object storage and records the document. Content the customer already
// stored is rejected with ErrDuplicate regardless of filename.
func (s *Service) Upload(ctx context.Context, customerID, filename string, r io.Reader) (Document, error) {
	if customerID == "" {
		return Document{}, fmt.Errorf("%w: customer id required", ErrInvalidInput)
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return Document{}, fmt.Errorf("%w: filename is required", ErrInvalidInput)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := s.allowedExtensions[ext]; !ok {
		return Document{}, fmt.Errorf("%w: .%s", ErrTypeNotAllowed, ext)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}
	if len(content) == 0 {
		return Document{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}

	fingerprint := util.Fingerprint(content)

	storageKey, size, mimeType, err := s.Store.Save(ctx, customerID, filename, bytes.NewReader(content))
	if err != nil {
		return Document{}, fmt.Errorf("save object: %w", err)
	}

	doc := Document{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		Filename:    filename,
		Extension:   ext,
		Fingerprint: fingerprint,
		SizeBytes:   size,
		ContentType: mimeType,
		StorageKey:  storageKey,
		CreatedAt:   time.Now().UTC(),
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	if err := s.Repo.Create(storeCtx, doc); err != nil {
		s.removeObject(ctx, doc.StorageKey)
		return Document{}, mapStoreErr(err)
	}
	return doc, nil
}

// List returns one page of the customer's documents with the total count.
func (s *Service) List(ctx context.Context, customerID string, page PageRequest) ([]Document, int, error) {
	if customerID == "" {
		return nil, 0, fmt.Errorf("%w: customer id required", ErrInvalidInput)
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	docs, total, err := s.Repo.ListByCustomer(storeCtx, customerID, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, mapStoreErr(err)
	}
	return docs, total, nil
}

// Get returns a document owned by the customer.
func (s *Service) Get(ctx context.Context, customerID, documentID string) (Document, error) {
	if customerID == "" || documentID == "" {
		return Document{}, fmt.Errorf("%w: customer id and document id required", ErrInvalidInput)
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	doc, err := s.Repo.GetByID(storeCtx, customerID, documentID)
	if err != nil {
		return Document{}, mapStoreErr(err)
	}
	return doc, nil
}

// Open returns a document and a reader over its stored bytes.
func (s *Service) Open(ctx context.Context, customerID, documentID string) (Document, io.ReadCloser, error) {
	doc, err := s.Get(ctx, customerID, documentID)
	if err != nil {
		return Document{}, nil, err
	}
	if doc.StorageKey == "" {
		return Document{}, nil, ErrNotFound
	}
	rc, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		return Document{}, nil, fmt.Errorf("open object: %w", err)
	}
	return doc, rc, nil
}

// Delete permanently removes a document owned by the customer. The stored
// bytes are cleaned up best-effort after the record is gone.
func (s *Service) Delete(ctx context.Context, customerID, documentID string) error {
	if customerID == "" || documentID == "" {
		return fmt.Errorf("%w: customer id and document id required", ErrInvalidInput)
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	doc, err := s.Repo.Delete(storeCtx, customerID, documentID)
	if err != nil {
		return mapStoreErr(err)
	}
	s.removeObject(ctx, doc.StorageKey)
	return nil
}

func (s *Service) removeObject(ctx context.Context, storageKey string) {
	if storageKey == "" {
		return
	}
	if err := s.Store.Delete(ctx, storageKey); err != nil {
		telemetry.Error("documents.object_cleanup_failed", map[string]any{
			"storage_key": storageKey,
			"err":         err.Error(),
		})
	}
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultStorageTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func mapStoreErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUnavailable
	}
	return err
}
