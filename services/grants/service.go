package grants

import (
	"context"
	"sort"
	"time"

	"github.com/averlon/identity-plane/models"
	"github.com/averlon/identity-plane/repositories"
	"github.com/averlon/identity-plane/services"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// cleanupTimeout bounds the background deletion of expired grants
const cleanupTimeout = 10 * time.Second

// Service decides whether a (user, client) pair holds a live authorization
// grant and purges expired grants as a side effect.
type Service struct {
	grantRepo repositories.GrantRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new grant authorization Service
func NewService(grantRepo repositories.GrantRepository, logger *zap.Logger) *Service {
	return &Service{
		grantRepo: grantRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// CheckAuthorization reports whether the user currently authorizes the
// client. It classifies every grant for the pair: expired grants are
// scheduled for deletion in the background regardless of the outcome, and
// the decision returns without waiting for that cleanup.
func (s *Service) CheckAuthorization(ctx context.Context, userID, clientID uuid.UUID) error {
	fetched, err := s.grantRepo.GetByUserAndClient(ctx, userID, clientID)
	if err != nil {
		s.logger.Error("grant lookup failed",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("client_id", clientID.String()))
		return services.WrapServerError("failed retrieving authorization", err)
	}

	if len(fetched) == 0 {
		return services.ErrClientNotAuthorized
	}

	now := s.now()
	sort.Slice(fetched, func(i, j int) bool {
		return fetched[i].ExpiresAt < fetched[j].ExpiresAt
	})

	var expired []uuid.UUID
	live := 0
	for _, grant := range fetched {
		if grant.Expired(now) {
			expired = append(expired, grant.ID)
		} else {
			live++
		}
	}

	if len(expired) > 0 {
		s.scheduleCleanup(expired)
	}

	if live == 0 {
		return services.ErrAuthorizationExpired
	}

	return nil
}

// scheduleCleanup deletes expired grants on a detached context. Failures
// are logged and swallowed; the authorization decision never depends on
// cleanup succeeding.
func (s *Service) scheduleCleanup(ids []uuid.UUID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()

		if err := s.grantRepo.DeleteByIDs(ctx, ids); err != nil {
			s.logger.Error("failed to delete expired grants",
				zap.Error(err),
				zap.Int("count", len(ids)))
			return
		}

		s.logger.Debug("expired grants deleted", zap.Int("count", len(ids)))
	}()
}

// Authorize persists a new grant for the pair, expiring at the given time
func (s *Service) Authorize(ctx context.Context, userID, clientID uuid.UUID, expiresAt time.Time) (*models.Grant, error) {
	grant := models.NewGrant(userID, clientID, expiresAt)
	if err := s.grantRepo.Create(ctx, grant); err != nil {
		return nil, services.WrapServerError("failed storing authorization", err)
	}

	s.logger.Debug("grant created",
		zap.String("grant_id", grant.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("client_id", clientID.String()))
	return grant, nil
}
