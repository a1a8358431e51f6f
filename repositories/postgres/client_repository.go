package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/averlon/identity-plane/models"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// ClientRepository implements the repositories.ClientRepository interface
type ClientRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *DB, logger *zap.Logger) *ClientRepository {
	return &ClientRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new client
func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (id, name, secret_hash, scope, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.SecretHash,
		pq.Array(client.Scope),
		client.CreatedAt,
		client.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	r.logger.Debug("client created", zap.String("name", client.Name))
	return nil
}

// GetByName retrieves a client by its external name. Returns (nil, nil)
// when no such client is registered.
func (r *ClientRepository) GetByName(ctx context.Context, name string) (*models.Client, error) {
	query := `
		SELECT id, name, secret_hash, scope, created_at, updated_at
		FROM clients
		WHERE name = $1
	`

	client := &models.Client{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&client.ID,
		&client.Name,
		&client.SecretHash,
		pq.Array(&client.Scope),
		&client.CreatedAt,
		&client.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return client, nil
}
