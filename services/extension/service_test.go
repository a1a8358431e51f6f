package extension

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/averlon/identity-plane/models"
	"github.com/averlon/identity-plane/repositories"
	"github.com/averlon/identity-plane/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testNamespace = "https://api.identity-plane.dev/oauth"

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByLocalID(ctx context.Context, localID string) (*models.User, error) {
	args := m.Called(ctx, localID)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByNetworkID(ctx context.Context, networkID string, provider models.Provider) (*models.User, error) {
	args := m.Called(ctx, networkID, provider)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) BindNetworkIdentity(ctx context.Context, identity *models.NetworkIdentity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) Redeem(ctx context.Context, token string) (*models.Ticket, *models.User, error) {
	args := m.Called(ctx, token)
	var ticket *models.Ticket
	var user *models.User
	if t := args.Get(0); t != nil {
		ticket = t.(*models.Ticket)
	}
	if u := args.Get(1); u != nil {
		user = u.(*models.User)
	}
	return ticket, user, args.Error(2)
}

func newTestService(userRepo *MockUserRepository, ticketRepo *MockTicketRepository) *Service {
	return NewService(testNamespace, userRepo, ticketRepo, zap.NewNop())
}

func loginRequest(grantType string) ResolveRequest {
	return ResolveRequest{
		GrantType:   grantType,
		ClientScope: []string{"login"},
	}
}

func TestResolve_UnknownNamespace(t *testing.T) {
	service := newTestService(new(MockUserRepository), new(MockTicketRepository))

	req := ResolveRequest{
		GrantType:   "https://elsewhere.example.com/oauth/id",
		XUserID:     "u1",
		ClientScope: []string{"login"},
	}

	_, err := service.Resolve(context.Background(), req)
	require.Error(t, err)
	assert.True(t, services.IsUnsupportedGrantTypeError(err))
}

func TestResolve_MissingLoginScope(t *testing.T) {
	service := newTestService(new(MockUserRepository), new(MockTicketRepository))

	req := ResolveRequest{
		GrantType:   testNamespace + "/id",
		XUserID:     "u1",
		ClientScope: []string{"profile"},
	}

	_, err := service.Resolve(context.Background(), req)
	require.Error(t, err)
	assert.True(t, services.IsUnauthorizedClientError(err))
}

func TestResolve_SessionScopeSatisfiesLogin(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newTestService(userRepo, new(MockTicketRepository))

	user := models.NewUser("u1", "u1@example.com")
	userRepo.On("GetByLocalID", mock.Anything, "u1").Return(user, nil)

	req := ResolveRequest{
		GrantType:    testNamespace + "/id",
		XUserID:      "u1",
		ClientScope:  []string{"profile"},
		SessionScope: []string{"login"},
	}

	resolution, err := service.Resolve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolution.User.ID)
}

func TestResolve_LocalID(t *testing.T) {
	t.Run("known account", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := newTestService(userRepo, new(MockTicketRepository))

		user := models.NewUser("42", "someone@example.com")
		userRepo.On("GetByLocalID", mock.Anything, "42").Return(user, nil)

		req := loginRequest(testNamespace + "/id")
		req.XUserID = "42"

		resolution, err := service.Resolve(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, user, resolution.User)
		assert.Empty(t, resolution.Action)
	})

	t.Run("unknown account", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := newTestService(userRepo, new(MockTicketRepository))

		userRepo.On("GetByLocalID", mock.Anything, "missing").Return(nil, nil)

		req := loginRequest(testNamespace + "/id")
		req.XUserID = "missing"

		_, err := service.Resolve(context.Background(), req)
		require.Error(t, err)
		assert.True(t, services.IsInvalidGrantError(err))
		assert.Contains(t, err.Error(), "unknown local account")
	})

	t.Run("store failure", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := newTestService(userRepo, new(MockTicketRepository))

		userRepo.On("GetByLocalID", mock.Anything, "42").Return(nil, errors.New("connection refused"))

		req := loginRequest(testNamespace + "/id")
		req.XUserID = "42"

		_, err := service.Resolve(context.Background(), req)
		require.Error(t, err)
		assert.True(t, services.IsServerError(err))
	})
}

func TestResolve_NetworkProviders(t *testing.T) {
	providers := []struct {
		suffix  string
		display string
	}{
		{"twitter", "Twitter"},
		{"facebook", "Facebook"},
		{"yahoo", "Yahoo"},
	}

	for _, tc := range providers {
		t.Run(tc.suffix+" bound", func(t *testing.T) {
			userRepo := new(MockUserRepository)
			service := newTestService(userRepo, new(MockTicketRepository))

			user := models.NewUser("7", "bound@example.com")
			userRepo.On("GetByNetworkID", mock.Anything, "net-123", models.Provider(tc.suffix)).Return(user, nil)

			req := loginRequest(testNamespace + "/" + tc.suffix)
			req.XUserID = "net-123"

			resolution, err := service.Resolve(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, user, resolution.User)
		})

		t.Run(tc.suffix+" unbound", func(t *testing.T) {
			userRepo := new(MockUserRepository)
			service := newTestService(userRepo, new(MockTicketRepository))

			userRepo.On("GetByNetworkID", mock.Anything, "net-999", models.Provider(tc.suffix)).Return(nil, nil)

			req := loginRequest(testNamespace + "/" + tc.suffix)
			req.XUserID = "net-999"

			_, err := service.Resolve(context.Background(), req)
			require.Error(t, err)
			assert.True(t, services.IsInvalidGrantError(err))
			assert.Contains(t, err.Error(), tc.display)
			assert.Contains(t, err.Error(), "net-999")
		})
	}
}

func TestResolve_EmailTicket(t *testing.T) {
	t.Run("valid ticket", func(t *testing.T) {
		ticketRepo := new(MockTicketRepository)
		service := newTestService(new(MockUserRepository), ticketRepo)

		user := models.NewUser("9", "nine@example.com")
		ticket := models.NewTicket(user.ID, models.TicketActionRecover, time.Hour)
		ticketRepo.On("Redeem", mock.Anything, ticket.Token).Return(ticket, user, nil)

		req := loginRequest(testNamespace + "/email")
		req.XEmailToken = ticket.Token

		resolution, err := service.Resolve(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, user, resolution.User)
		assert.Equal(t, models.TicketActionRecover, resolution.Action)
	})

	t.Run("invalid ticket carries the store message", func(t *testing.T) {
		ticketRepo := new(MockTicketRepository)
		service := newTestService(new(MockUserRepository), ticketRepo)

		ticketRepo.On("Redeem", mock.Anything, "bogus").
			Return(nil, nil, repositories.ErrTicketNotFound)

		req := loginRequest(testNamespace + "/email")
		req.XEmailToken = "bogus"

		_, err := service.Resolve(context.Background(), req)
		require.Error(t, err)
		assert.True(t, services.IsInvalidGrantError(err))
		assert.Contains(t, err.Error(), "email ticket not found or already used")
	})

	t.Run("expired ticket carries the store message", func(t *testing.T) {
		ticketRepo := new(MockTicketRepository)
		service := newTestService(new(MockUserRepository), ticketRepo)

		ticketRepo.On("Redeem", mock.Anything, "stale").
			Return(nil, nil, repositories.ErrTicketExpired)

		req := loginRequest(testNamespace + "/email")
		req.XEmailToken = "stale"

		_, err := service.Resolve(context.Background(), req)
		require.Error(t, err)
		assert.True(t, services.IsInvalidGrantError(err))
		assert.Contains(t, err.Error(), "email ticket expired")
	})

	t.Run("store failure", func(t *testing.T) {
		ticketRepo := new(MockTicketRepository)
		service := newTestService(new(MockUserRepository), ticketRepo)

		ticketRepo.On("Redeem", mock.Anything, "tok").
			Return(nil, nil, errors.New("failed to redeem email ticket: dial tcp 10.0.0.5:5432: connect: connection refused"))

		req := loginRequest(testNamespace + "/email")
		req.XEmailToken = "tok"

		_, err := service.Resolve(context.Background(), req)
		require.Error(t, err)
		assert.True(t, services.IsServerError(err))
		assert.False(t, services.IsInvalidGrantError(err))
	})
}

func TestResolve_UnknownSuffix(t *testing.T) {
	service := newTestService(new(MockUserRepository), new(MockTicketRepository))

	req := loginRequest(testNamespace + "/github")

	_, err := service.Resolve(context.Background(), req)
	require.Error(t, err)
	assert.True(t, services.IsUnsupportedGrantTypeError(err))
	assert.Contains(t, err.Error(), "github")
}
