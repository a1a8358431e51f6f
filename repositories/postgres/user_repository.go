package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/averlon/identity-plane/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserRepository implements the repositories.UserRepository interface
type UserRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, local_id, email, accepted_tos, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.LocalID,
		user.Email,
		user.AcceptedTOS,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Debug("user created", zap.String("id", user.ID.String()))
	return nil
}

// GetByID retrieves a user by ID. Returns (nil, nil) when no such user
// exists.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, local_id, email, accepted_tos, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByLocalID retrieves a user by the externally supplied local account
// identifier. Returns (nil, nil) when no such account exists.
func (r *UserRepository) GetByLocalID(ctx context.Context, localID string) (*models.User, error) {
	query := `
		SELECT id, local_id, email, accepted_tos, created_at, updated_at
		FROM users
		WHERE local_id = $1
	`

	return r.scanUser(r.db.QueryRowContext(ctx, query, localID))
}

// GetByNetworkID retrieves the user bound to a network identifier on the
// given provider. Returns (nil, nil) when no binding exists.
func (r *UserRepository) GetByNetworkID(ctx context.Context, networkID string, provider models.Provider) (*models.User, error) {
	query := `
		SELECT u.id, u.local_id, u.email, u.accepted_tos, u.created_at, u.updated_at
		FROM users u
		JOIN network_identities n ON n.user_id = u.id
		WHERE n.network_id = $1 AND n.provider = $2
	`

	return r.scanUser(r.db.QueryRowContext(ctx, query, networkID, string(provider)))
}

// BindNetworkIdentity links a user to an external provider account
func (r *UserRepository) BindNetworkIdentity(ctx context.Context, identity *models.NetworkIdentity) error {
	query := `
		INSERT INTO network_identities (user_id, provider, network_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider, network_id) DO UPDATE SET user_id = EXCLUDED.user_id
	`

	_, err := r.db.ExecContext(ctx, query,
		identity.UserID,
		string(identity.Provider),
		identity.NetworkID,
		identity.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to bind network identity: %w", err)
	}

	r.logger.Debug("network identity bound",
		zap.String("user_id", identity.UserID.String()),
		zap.String("provider", string(identity.Provider)))
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.LocalID,
		&user.Email,
		&user.AcceptedTOS,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
