package postgres

import (
	"context"
	"fmt"

	"github.com/averlon/identity-plane/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// GrantRepository implements the repositories.GrantRepository interface
type GrantRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewGrantRepository creates a new grant repository
func NewGrantRepository(db *DB, logger *zap.Logger) *GrantRepository {
	return &GrantRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new grant
func (r *GrantRepository) Create(ctx context.Context, grant *models.Grant) error {
	query := `
		INSERT INTO grants (id, user_id, client_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		grant.ID,
		grant.UserID,
		grant.ClientID,
		grant.ExpiresAt,
		grant.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create grant: %w", err)
	}

	r.logger.Debug("grant created", zap.String("id", grant.ID.String()))
	return nil
}

// GetByUserAndClient retrieves all grants for a (user, client) pair,
// expired ones included
func (r *GrantRepository) GetByUserAndClient(ctx context.Context, userID, clientID uuid.UUID) ([]*models.Grant, error) {
	query := `
		SELECT id, user_id, client_id, expires_at, created_at
		FROM grants
		WHERE user_id = $1 AND client_id = $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query grants: %w", err)
	}
	defer rows.Close()

	var grants []*models.Grant
	for rows.Next() {
		grant := &models.Grant{}
		if err := rows.Scan(
			&grant.ID,
			&grant.UserID,
			&grant.ClientID,
			&grant.ExpiresAt,
			&grant.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan grant: %w", err)
		}
		grants = append(grants, grant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate grants: %w", err)
	}

	return grants, nil
}

// DeleteByIDs deletes the grants with the given IDs. IDs that no longer
// exist are skipped; re-deleting an already-deleted grant is a no-op.
func (r *GrantRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		DELETE FROM grants
		WHERE id = ANY($1)
	`

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	result, err := r.db.ExecContext(ctx, query, pq.Array(idStrings))
	if err != nil {
		return fmt.Errorf("failed to delete grants: %w", err)
	}

	if deleted, err := result.RowsAffected(); err == nil {
		r.logger.Debug("grants deleted",
			zap.Int64("deleted", deleted),
			zap.Int("requested", len(ids)))
	}

	return nil
}
