package msgauth

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"hash"

	"github.com/averlon/identity-plane/models"
	"github.com/averlon/identity-plane/repositories"
	"github.com/averlon/identity-plane/services"
	"github.com/averlon/identity-plane/token"
	"go.uber.org/zap"
)

// Decoder turns a wire token into a session credential
type Decoder interface {
	Decode(tokenString string) (*token.Session, error)
}

// Service authenticates inbound signed messages against a session-bound
// shared secret.
type Service struct {
	decoder  Decoder
	userRepo repositories.UserRepository
	logger   *zap.Logger
}

// NewService creates a new message authentication Service
func NewService(decoder Decoder, userRepo repositories.UserRepository, logger *zap.Logger) *Service {
	return &Service{
		decoder:  decoder,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Verify checks that mac is the base64-encoded HMAC of message under the
// session's negotiated algorithm and key, and returns the session's bound
// user. The message is compared byte for byte as submitted; the caller is
// responsible for reconstructing the exact signed string.
func (s *Service) Verify(ctx context.Context, message, tokenString, mac string) (*models.User, error) {
	session, err := s.decoder.Decode(tokenString)
	if err != nil || !session.Complete() {
		return nil, services.ErrInvalidToken
	}

	newHash, err := hashForAlgorithm(session.Algorithm)
	if err != nil {
		// A session we signed carrying an algorithm we cannot map is a
		// server misconfiguration, not a client error.
		s.logger.Error("session carries unknown mac algorithm",
			zap.String("algorithm", session.Algorithm),
			zap.String("user_id", session.UserID.String()))
		return nil, services.NewDomainError(services.ErrorTypeInternal, "unknown algorithm", err).
			WithDetail("algorithm", session.Algorithm)
	}

	mh := hmac.New(newHash, session.Key)
	mh.Write([]byte(message))
	computed := base64.StdEncoding.EncodeToString(mh.Sum(nil))

	if !hmac.Equal([]byte(computed), []byte(mac)) {
		return nil, services.ErrInvalidMAC
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, services.WrapServerError("failed retrieving user", err)
	}
	if user == nil {
		return nil, services.ErrInvalidToken
	}

	return user, nil
}

// hashForAlgorithm maps a negotiated algorithm name to its hash constructor
func hashForAlgorithm(name string) (func() hash.Hash, error) {
	switch name {
	case token.AlgHMACSHA1:
		return sha1.New, nil
	case token.AlgHMACSHA256:
		return sha256.New, nil
	}
	return nil, services.ErrUnknownAlgorithm
}
