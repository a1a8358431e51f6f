package models

import (
	"time"

	"github.com/google/uuid"
)

// ScopeLogin is the capability a client must carry to use extension grants
const ScopeLogin = "login"

// Client represents a registered OAuth client application
type Client struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	SecretHash string    `json:"-" db:"secret_hash"` // Never expose in JSON
	Scope      []string  `json:"scope" db:"scope"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Client model
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new Client instance
func NewClient(name, secretHash string, scope []string) *Client {
	now := time.Now()
	return &Client{
		ID:         uuid.New(),
		Name:       name,
		SecretHash: secretHash,
		Scope:      scope,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// HasScope returns true if the client's scope set contains the capability
func (c *Client) HasScope(capability string) bool {
	for _, s := range c.Scope {
		if s == capability {
			return true
		}
	}
	return false
}
