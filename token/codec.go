package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/averlon/identity-plane/vault"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMalformedToken is returned when a wire token cannot be decoded
	// into a session
	ErrMalformedToken = errors.New("token: malformed or unverifiable token")
)

// sessionClaims is the JWT claim set a session token carries
type sessionClaims struct {
	jwt.RegisteredClaims
	Algorithm string `json:"alg_name"`
	Key       string `json:"key"` // base64-encoded shared key
}

// Codec encodes sessions into signed wire tokens and decodes them back,
// using the vault-held master key for the outer signature.
type Codec struct {
	vault *vault.Vault
	ttl   time.Duration
}

// NewCodec creates a Codec signing with the vault's master key. Tokens it
// issues expire after ttl.
func NewCodec(v *vault.Vault, ttl time.Duration) *Codec {
	return &Codec{
		vault: v,
		ttl:   ttl,
	}
}

// Encode signs the session into a wire token
func (c *Codec) Encode(session *Session) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Algorithm: session.Algorithm,
		Key:       base64.StdEncoding.EncodeToString(session.Key),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.vault.MasterKey())
	if err != nil {
		return "", fmt.Errorf("token: failed to sign session: %w", err)
	}
	return signed, nil
}

// Decode verifies the wire token against the master key and extracts the
// session. Any parse, signature, or expiry failure yields ErrMalformedToken;
// a verifiable token with incomplete claims decodes to an incomplete
// session, which the caller rejects via Session.Complete.
func (c *Codec) Decode(tokenString string) (*Session, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.vault.MasterKey(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	session := &Session{Algorithm: claims.Algorithm}

	if claims.Key != "" {
		key, err := base64.StdEncoding.DecodeString(claims.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: bad key encoding", ErrMalformedToken)
		}
		session.Key = key
	}

	if claims.Subject != "" {
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return nil, fmt.Errorf("%w: bad subject", ErrMalformedToken)
		}
		session.UserID = userID
	}

	return session, nil
}
