package extension

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/averlon/identity-plane/models"
	"github.com/averlon/identity-plane/repositories"
	"github.com/averlon/identity-plane/services"
	"go.uber.org/zap"
)

// Grant type suffixes recognized under the namespace
const (
	suffixLocalID = "id"
	suffixEmail   = "email"
)

// ResolveRequest carries an extension grant request: the namespaced grant
// type URI plus its type-specific payload fields and the scopes in play.
type ResolveRequest struct {
	GrantType    string   // full grant-type URI, e.g. "<namespace>/twitter"
	XUserID      string   // local or network user identifier, depending on type
	XEmailToken  string   // single-use email ticket token (email flow)
	ClientScope  []string // scope of the requesting client
	SessionScope []string // scope of an already-established session, if any
}

// Resolution is the outcome of a successful extension grant: the resolved
// user, plus the ticket's action tag for the email flow.
type Resolution struct {
	User   *models.User
	Action models.TicketAction // set only by the email flow
}

// Service resolves non-interactive extension grant types into a concrete
// user identity. Each grant type is an independent lookup; none of them
// mutates grant state.
type Service struct {
	namespace  string
	userRepo   repositories.UserRepository
	ticketRepo repositories.TicketRepository
	logger     *zap.Logger
}

// NewService creates a new extension grant Service. namespace is the fixed
// URI prefix all supported grant types live under.
func NewService(namespace string, userRepo repositories.UserRepository, ticketRepo repositories.TicketRepository, logger *zap.Logger) *Service {
	return &Service{
		namespace:  strings.TrimSuffix(namespace, "/"),
		userRepo:   userRepo,
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

// Resolve dispatches the request to the grant type's lookup strategy.
// The grant type must live under the configured namespace and the
// requesting client (or the established session) must carry the login
// scope.
func (s *Service) Resolve(ctx context.Context, req ResolveRequest) (*Resolution, error) {
	suffix, ok := s.parseGrantType(req.GrantType)
	if !ok {
		return nil, services.ErrUnknownGrantNamespace
	}

	if !scopeContains(req.ClientScope, models.ScopeLogin) && !scopeContains(req.SessionScope, models.ScopeLogin) {
		return nil, services.ErrClientNotLoginCapable
	}

	switch suffix {
	case suffixLocalID:
		return s.resolveLocalID(ctx, req.XUserID)
	case string(models.ProviderTwitter), string(models.ProviderFacebook), string(models.ProviderYahoo):
		return s.resolveNetworkID(ctx, req.XUserID, models.Provider(suffix))
	case suffixEmail:
		return s.resolveEmailTicket(ctx, req.XEmailToken)
	default:
		return nil, services.NewDomainError(services.ErrorTypeUnsupportedGrantType,
			fmt.Sprintf("unsupported grant type %q", suffix), nil).
			WithDetail("grant_type", req.GrantType)
	}
}

// parseGrantType splits the grant type URI into its suffix after the
// namespace prefix
func (s *Service) parseGrantType(grantType string) (string, bool) {
	prefix := s.namespace + "/"
	if !strings.HasPrefix(grantType, prefix) {
		return "", false
	}
	return strings.TrimPrefix(grantType, prefix), true
}

func (s *Service) resolveLocalID(ctx context.Context, localID string) (*Resolution, error) {
	user, err := s.userRepo.GetByLocalID(ctx, localID)
	if err != nil {
		return nil, services.WrapServerError("failed retrieving local account", err)
	}
	if user == nil {
		return nil, services.ErrUnknownLocalAccount
	}
	return &Resolution{User: user}, nil
}

func (s *Service) resolveNetworkID(ctx context.Context, networkID string, provider models.Provider) (*Resolution, error) {
	user, err := s.userRepo.GetByNetworkID(ctx, networkID, provider)
	if err != nil {
		return nil, services.WrapServerError("failed retrieving network account", err)
	}
	if user == nil {
		return nil, services.NewDomainError(services.ErrorTypeInvalidGrant,
			fmt.Sprintf("no %s account for id %q", provider.DisplayName(), networkID), nil).
			WithDetail("provider", string(provider))
	}
	return &Resolution{User: user}, nil
}

func (s *Service) resolveEmailTicket(ctx context.Context, ticketToken string) (*Resolution, error) {
	ticket, user, err := s.ticketRepo.Redeem(ctx, ticketToken)
	if err != nil {
		// A bad ticket means the asserted identity could not be proven and
		// its store message is caller-visible; anything else is a storage
		// failure and must not surface as a grant problem.
		if errors.Is(err, repositories.ErrTicketNotFound) || errors.Is(err, repositories.ErrTicketExpired) {
			return nil, services.NewDomainError(services.ErrorTypeInvalidGrant, err.Error(), err)
		}
		return nil, services.WrapServerError("failed redeeming email ticket", err)
	}

	s.logger.Debug("email ticket redeemed",
		zap.String("user_id", user.ID.String()),
		zap.String("action", string(ticket.Action)))
	return &Resolution{User: user, Action: ticket.Action}, nil
}

func scopeContains(scope []string, capability string) bool {
	for _, s := range scope {
		if s == capability {
			return true
		}
	}
	return false
}
