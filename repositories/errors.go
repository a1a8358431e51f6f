package repositories

import "errors"

// Ticket redemption failures every TicketRepository implementation returns.
// The message text is caller-visible: the email grant flow surfaces it
// verbatim, so it must not leak storage internals.
var (
	ErrTicketNotFound = errors.New("email ticket not found or already used")
	ErrTicketExpired  = errors.New("email ticket expired")
)
