package token

import "github.com/google/uuid"

// Negotiated signing algorithm names carried inside session tokens
const (
	AlgHMACSHA1   = "hmac-sha-1"
	AlgHMACSHA256 = "hmac-sha-256"
)

// Session is the ephemeral credential decoded from a wire token. It lives
// for a single validation call and is never persisted.
type Session struct {
	Algorithm string    // negotiated signing algorithm name
	Key       []byte    // shared key material for message MACs
	UserID    uuid.UUID // bound user
}

// Complete reports whether the session carries everything a message
// authentication check needs
func (s *Session) Complete() bool {
	return s != nil && s.Algorithm != "" && len(s.Key) > 0 && s.UserID != uuid.Nil
}
