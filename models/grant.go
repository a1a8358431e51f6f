package models

import (
	"time"

	"github.com/google/uuid"
)

// Grant represents one persisted authorization linking a user to a client.
// Several grants may coexist for the same (user, client) pair; validity is a
// property of the set, not of any single record.
type Grant struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ClientID  uuid.UUID `json:"client_id" db:"client_id"`
	ExpiresAt int64     `json:"expires_at" db:"expires_at"` // epoch milliseconds; zero means already expired
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Grant model
func (Grant) TableName() string {
	return "grants"
}

// NewGrant creates a new Grant instance expiring at the given time
func NewGrant(userID, clientID uuid.UUID, expiresAt time.Time) *Grant {
	return &Grant{
		ID:        uuid.New(),
		UserID:    userID,
		ClientID:  clientID,
		ExpiresAt: expiresAt.UnixMilli(),
		CreatedAt: time.Now(),
	}
}

// Expired reports whether the grant is expired relative to now.
// A missing (zero) expiration counts as expired.
func (g *Grant) Expired(now time.Time) bool {
	return g.ExpiresAt <= now.UnixMilli()
}
