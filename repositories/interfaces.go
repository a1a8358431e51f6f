package repositories

import (
	"context"

	"github.com/averlon/identity-plane/models"
	"github.com/google/uuid"
)

// GrantRepository handles grant data operations
type GrantRepository interface {
	// Create creates a new grant
	Create(ctx context.Context, grant *models.Grant) error

	// GetByUserAndClient retrieves all grants for a (user, client) pair,
	// expired ones included
	GetByUserAndClient(ctx context.Context, userID, clientID uuid.UUID) ([]*models.Grant, error)

	// DeleteByIDs deletes the grants with the given IDs. IDs that no longer
	// exist are skipped silently; deletion is idempotent.
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
}

// UserRepository handles user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByLocalID retrieves a user by the externally supplied local
	// account identifier. Returns (nil, nil) when no such account exists.
	GetByLocalID(ctx context.Context, localID string) (*models.User, error)

	// GetByNetworkID retrieves the user bound to a network identifier on
	// the given provider. Returns (nil, nil) when no binding exists.
	GetByNetworkID(ctx context.Context, networkID string, provider models.Provider) (*models.User, error)

	// BindNetworkIdentity links a user to an external provider account.
	// Rebinding an existing (provider, network_id) pair moves it to the
	// given user.
	BindNetworkIdentity(ctx context.Context, identity *models.NetworkIdentity) error
}

// TicketRepository handles email ticket data operations
type TicketRepository interface {
	// Create creates a new email ticket
	Create(ctx context.Context, ticket *models.Ticket) error

	// Redeem consumes the ticket with the given token exactly once and
	// returns it together with its resolved user. A missing, already
	// redeemed, or expired ticket is ErrTicketNotFound or ErrTicketExpired;
	// any other error is a storage failure.
	Redeem(ctx context.Context, token string) (*models.Ticket, *models.User, error)
}

// ClientRepository handles OAuth client data operations
type ClientRepository interface {
	// Create creates a new client
	Create(ctx context.Context, client *models.Client) error

	// GetByName retrieves a client by its external name
	GetByName(ctx context.Context, name string) (*models.Client, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Grants  GrantRepository
	Users   UserRepository
	Tickets TicketRepository
	Clients ClientRepository
}
