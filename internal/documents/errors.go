package documents

import "errors"

var (
	// ErrNotFound indicates the document does not exist for this customer.
	// Foreign-owned documents are reported the same way.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicate indicates this customer already stored identical content.
	ErrDuplicate = errors.New("duplicate document content")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTypeNotAllowed indicates the file extension is outside the allow-list.
	ErrTypeNotAllowed = errors.New("file type not allowed")

	// ErrUnavailable indicates the backing store did not answer in time.
	ErrUnavailable = errors.New("document store unavailable")
)
