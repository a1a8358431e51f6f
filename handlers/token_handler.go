package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/averlon/identity-plane/repositories"
	"github.com/averlon/identity-plane/services/extension"
	"github.com/averlon/identity-plane/token"
	"github.com/averlon/identity-plane/utils"
	"go.uber.org/zap"
)

// sessionKeyBytes is the size of the per-session MAC key
const sessionKeyBytes = 32

// TokenRequest represents a POST /oauth/token request body
type TokenRequest struct {
	GrantType   string `json:"grant_type" validate:"required,uri"`
	ClientID    string `json:"client_id" validate:"required"` // client name
	XUserID     string `json:"x_user_id,omitempty"`
	XEmailToken string `json:"x_email_token,omitempty"`
}

// TokenResponse represents a successful token grant
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Algorithm   string `json:"algorithm"`
	MACKey      string `json:"mac_key"` // base64-encoded session key
	UserID      string `json:"user_id"`
	Action      string `json:"action,omitempty"` // email flow only
}

// ExtensionGrantResolver defines the interface for extension grant resolution
type ExtensionGrantResolver interface {
	// Resolve resolves an extension grant request into a user identity
	Resolve(ctx context.Context, req extension.ResolveRequest) (*extension.Resolution, error)
}

// SessionEncoder signs sessions into wire tokens
type SessionEncoder interface {
	Encode(session *token.Session) (string, error)
}

// TokenHandler handles the OAuth token endpoint
type TokenHandler struct {
	resolver   ExtensionGrantResolver
	clientRepo repositories.ClientRepository
	encoder    SessionEncoder
	logger     *zap.Logger
}

// NewTokenHandler creates a new TokenHandler
func NewTokenHandler(resolver ExtensionGrantResolver, clientRepo repositories.ClientRepository, encoder SessionEncoder, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{
		resolver:   resolver,
		clientRepo: clientRepo,
		encoder:    encoder,
		logger:     logger,
	}
}

// HandleToken handles POST /oauth/token for extension grant types
func (h *TokenHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			details[k] = v
		}
		_ = utils.WriteBadRequest(w, "invalid token request", details)
		return
	}

	client, err := h.clientRepo.GetByName(r.Context(), req.ClientID)
	if err != nil {
		h.logger.Error("client lookup failed", zap.Error(err), zap.String("client", req.ClientID))
		_ = utils.WriteInternalServerError(w, "")
		return
	}
	if client == nil {
		_ = utils.WriteOAuthError(w, http.StatusUnauthorized, "invalid_client", "unknown client", nil)
		return
	}

	resolution, err := h.resolver.Resolve(r.Context(), extension.ResolveRequest{
		GrantType:   req.GrantType,
		XUserID:     req.XUserID,
		XEmailToken: req.XEmailToken,
		ClientScope: client.Scope,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	response, err := h.issueToken(resolution)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	h.logger.Info("extension grant resolved",
		zap.String("grant_type", req.GrantType),
		zap.String("client", client.Name),
		zap.String("user_id", resolution.User.ID.String()))

	_ = utils.WriteJSON(w, http.StatusOK, response)
}

// issueToken mints a fresh MAC session for the resolved user and signs it
func (h *TokenHandler) issueToken(resolution *extension.Resolution) (*TokenResponse, error) {
	key := make([]byte, sessionKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}

	session := &token.Session{
		Algorithm: token.AlgHMACSHA256,
		Key:       key,
		UserID:    resolution.User.ID,
	}

	signed, err := h.encoder.Encode(session)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken: signed,
		TokenType:   "mac",
		Algorithm:   session.Algorithm,
		MACKey:      base64.StdEncoding.EncodeToString(key),
		UserID:      resolution.User.ID.String(),
		Action:      string(resolution.Action),
	}, nil
}
