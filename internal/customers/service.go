package customers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	apiKeyBytes           = 32
	defaultStorageTimeout = 5 * time.Second
)

// Service contains business logic for customer identity.
type Service struct {
	Repo Repo

	// Timeout bounds each store call; expiry surfaces as ErrUnavailable.
	Timeout time.Duration
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Timeout: defaultStorageTimeout}
}

// Register creates a customer and issues its API key. The email is
// case-normalized before the uniqueness check.
func (s *Service) Register(ctx context.Context, name, email string) (Customer, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return Customer{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if email == "" || !strings.Contains(email, "@") {
		return Customer{}, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		return Customer{}, fmt.Errorf("generate api key: %w", err)
	}

	customer := Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		APIKey:    apiKey,
		CreatedAt: time.Now().UTC(),
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	if err := s.Repo.Create(storeCtx, customer); err != nil {
		return Customer{}, mapStoreErr(err)
	}
	return customer, nil
}

// Authenticate resolves an API key to its customer. The lookup is keyed by
// the key's own value, so cost does not depend on how close a guess is.
func (s *Service) Authenticate(ctx context.Context, apiKey string) (Customer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return Customer{}, ErrNotFound
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	customer, err := s.Repo.GetByAPIKey(storeCtx, apiKey)
	if err != nil {
		return Customer{}, mapStoreErr(err)
	}
	return customer, nil
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

func generateAPIKey() (string, error) {
	var b [apiKeyBytes]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}
