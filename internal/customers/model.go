package customers

import "time"

// Customer is a registered tenant. Records are immutable after creation.
type Customer struct {
	ID        string
	Name      string
	Email     string
	APIKey    string
	CreatedAt time.Time
}
