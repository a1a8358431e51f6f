package models

import (
	"time"

	"github.com/google/uuid"
)

// Provider identifies a social network a user identity can be bound to
type Provider string

const (
	ProviderTwitter  Provider = "twitter"
	ProviderFacebook Provider = "facebook"
	ProviderYahoo    Provider = "yahoo"
)

// DisplayName returns the capitalized provider name used in user-facing messages
func (p Provider) DisplayName() string {
	switch p {
	case ProviderTwitter:
		return "Twitter"
	case ProviderFacebook:
		return "Facebook"
	case ProviderYahoo:
		return "Yahoo"
	}
	return string(p)
}

// Valid reports whether the provider is one of the supported networks
func (p Provider) Valid() bool {
	switch p {
	case ProviderTwitter, ProviderFacebook, ProviderYahoo:
		return true
	}
	return false
}

// User represents an account the identity service can resolve grants to
type User struct {
	ID          uuid.UUID `json:"id" db:"id"`
	LocalID     string    `json:"local_id" db:"local_id"` // externally supplied local account identifier
	Email       string    `json:"email" db:"email"`
	AcceptedTOS bool      `json:"accepted_tos" db:"accepted_tos"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance
func NewUser(localID, email string) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New(),
		LocalID:   localID,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NetworkIdentity binds a user to an account on an external provider
type NetworkIdentity struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Provider  Provider  `json:"provider" db:"provider"`
	NetworkID string    `json:"network_id" db:"network_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the NetworkIdentity model
func (NetworkIdentity) TableName() string {
	return "network_identities"
}
