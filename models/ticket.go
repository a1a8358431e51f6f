package models

import (
	"time"

	"github.com/google/uuid"
)

// TicketAction tags what a redeemed email ticket authorizes
type TicketAction string

const (
	TicketActionLogin   TicketAction = "login"
	TicketActionVerify  TicketAction = "verify"
	TicketActionRecover TicketAction = "recover"
)

// Ticket is a single-use token proving possession of a claimed email
// address. It is consumed exactly once on redemption.
type Ticket struct {
	Token     string       `json:"-" db:"token"` // Never expose in JSON
	Action    TicketAction `json:"action" db:"action"`
	UserID    uuid.UUID    `json:"user_id" db:"user_id"`
	ExpiresAt time.Time    `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Ticket model
func (Ticket) TableName() string {
	return "email_tickets"
}

// NewTicket creates a new Ticket instance with the given lifetime
func NewTicket(userID uuid.UUID, action TicketAction, ttl time.Duration) *Ticket {
	now := time.Now()
	return &Ticket{
		Token:     uuid.NewString(),
		Action:    action,
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// Expired reports whether the ticket can no longer be redeemed
func (t *Ticket) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
