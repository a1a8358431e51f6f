package app

import (
	"context"
	"fmt"
	"time"

	"github.com/averlon/identity-plane/config"
	"github.com/averlon/identity-plane/handlers"
	"github.com/averlon/identity-plane/repositories"
	"github.com/averlon/identity-plane/repositories/postgres"
	"github.com/averlon/identity-plane/services/extension"
	"github.com/averlon/identity-plane/services/grants"
	"github.com/averlon/identity-plane/services/msgauth"
	"github.com/averlon/identity-plane/token"
	"github.com/averlon/identity-plane/vault"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repositories
	Repos repositories.Repositories

	// Crypto
	Vault *vault.Vault
	Codec *token.Codec

	// Services
	GrantAuthorizer *grants.Service
	GrantResolver   *extension.Service
	MsgAuth         *msgauth.Service

	// Handlers
	TokenHandler         *handlers.TokenHandler
	AuthorizationHandler *handlers.AuthorizationHandler
	VerifyHandler        *handlers.VerifyHandler
	HealthHandler        *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	db, err := postgres.NewDB(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.DB = db

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	deps.Repos = postgres.NewRepositories(db, logger)

	v, err := vault.New(cfg.OAuth.MasterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize key vault: %w", err)
	}
	deps.Vault = v
	deps.Codec = token.NewCodec(v, cfg.OAuth.SessionTTL)

	deps.GrantAuthorizer = grants.NewService(deps.Repos.Grants, logger)
	deps.GrantResolver = extension.NewService(cfg.OAuth.GrantTypeNamespace, deps.Repos.Users, deps.Repos.Tickets, logger)
	deps.MsgAuth = msgauth.NewService(deps.Codec, deps.Repos.Users, logger)

	deps.TokenHandler = handlers.NewTokenHandler(deps.GrantResolver, deps.Repos.Clients, deps.Codec, logger)
	deps.AuthorizationHandler = handlers.NewAuthorizationHandler(deps.GrantAuthorizer, logger)
	deps.VerifyHandler = handlers.NewVerifyHandler(deps.MsgAuth, logger)
	deps.HealthHandler = handlers.NewHealthHandler(db.DB, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// Close releases held resources
func (d *Dependencies) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
