package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/averlon/identity-plane/models"
	"github.com/averlon/identity-plane/repositories"
	"go.uber.org/zap"
)

// TicketRepository implements the repositories.TicketRepository interface
type TicketRepository struct {
	db     *DB
	logger *zap.Logger
	now    func() time.Time
}

// NewTicketRepository creates a new email ticket repository
func NewTicketRepository(db *DB, logger *zap.Logger) *TicketRepository {
	return &TicketRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Create creates a new email ticket
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	query := `
		INSERT INTO email_tickets (token, action, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		ticket.Token,
		string(ticket.Action),
		ticket.UserID,
		ticket.ExpiresAt,
		ticket.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create email ticket: %w", err)
	}

	r.logger.Debug("email ticket created",
		zap.String("user_id", ticket.UserID.String()),
		zap.String("action", string(ticket.Action)))
	return nil
}

// Redeem consumes the ticket with the given token exactly once and returns
// it with its resolved user. The DELETE ... RETURNING makes redemption
// atomic: a second redeemer of the same token sees no row.
func (r *TicketRepository) Redeem(ctx context.Context, token string) (*models.Ticket, *models.User, error) {
	query := `
		DELETE FROM email_tickets
		WHERE token = $1
		RETURNING token, action, user_id, expires_at, created_at
	`

	ticket := &models.Ticket{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&ticket.Token,
		&ticket.Action,
		&ticket.UserID,
		&ticket.ExpiresAt,
		&ticket.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, repositories.ErrTicketNotFound
		}
		return nil, nil, fmt.Errorf("failed to redeem email ticket: %w", err)
	}

	if ticket.Expired(r.now()) {
		return nil, nil, repositories.ErrTicketExpired
	}

	userQuery := `
		SELECT id, local_id, email, accepted_tos, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user := &models.User{}
	err = r.db.QueryRowContext(ctx, userQuery, ticket.UserID).Scan(
		&user.ID,
		&user.LocalID,
		&user.Email,
		&user.AcceptedTOS,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, repositories.ErrTicketNotFound
		}
		return nil, nil, fmt.Errorf("failed to load ticket user: %w", err)
	}

	r.logger.Debug("email ticket redeemed", zap.String("user_id", user.ID.String()))
	return ticket, user, nil
}
