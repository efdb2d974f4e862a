package health

import "time"

// Service encapsulates health-related checks.
type Service struct{}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{}
}

// Status is the health payload.
type Status struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Check returns the current health payload.
func (s *Service) Check() Status {
	return Status{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	}
}
