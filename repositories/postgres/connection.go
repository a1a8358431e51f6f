package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/averlon/identity-plane/config"
	"github.com/averlon/identity-plane/repositories"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// InitSchema initializes the database schema
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
		-- Users table
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			local_id VARCHAR(255) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL DEFAULT '',
			accepted_tos BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- local_id is optional; uniqueness applies only when set
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_local_id
			ON users(local_id) WHERE local_id <> '';

		-- Identities bound to users on external networks
		CREATE TABLE IF NOT EXISTS network_identities (
			provider VARCHAR(50) NOT NULL,
			network_id VARCHAR(255) NOT NULL,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (provider, network_id)
		);

		-- OAuth clients table
		CREATE TABLE IF NOT EXISTS clients (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			secret_hash VARCHAR(255) NOT NULL,
			scope TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Authorization grants table
		CREATE TABLE IF NOT EXISTS grants (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			client_id UUID NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			expires_at BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Single-use email tickets table
		CREATE TABLE IF NOT EXISTS email_tickets (
			token VARCHAR(255) PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			action VARCHAR(50) NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Indexes for common queries
		CREATE INDEX IF NOT EXISTS idx_grants_user_client ON grants(user_id, client_id);
		CREATE INDEX IF NOT EXISTS idx_network_identities_user ON network_identities(user_id);
		CREATE INDEX IF NOT EXISTS idx_email_tickets_user ON email_tickets(user_id);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized")
	return nil
}

// NewRepositories wires all repository implementations over one pool
func NewRepositories(db *DB, logger *zap.Logger) repositories.Repositories {
	return repositories.Repositories{
		Grants:  NewGrantRepository(db, logger),
		Users:   NewUserRepository(db, logger),
		Tickets: NewTicketRepository(db, logger),
		Clients: NewClientRepository(db, logger),
	}
}
