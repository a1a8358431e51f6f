package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/averlon/identity-plane/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthorizationCheckRequest represents a POST /oauth/authorization/check request body
type AuthorizationCheckRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid"`
	ClientID string `json:"client_id" validate:"required,uuid"`
}

// GrantAuthorizer defines the interface for grant authorization checks
type GrantAuthorizer interface {
	// CheckAuthorization reports whether the user currently authorizes the client
	CheckAuthorization(ctx context.Context, userID, clientID uuid.UUID) error
}

// AuthorizationHandler handles grant authorization checks
type AuthorizationHandler struct {
	authorizer GrantAuthorizer
	logger     *zap.Logger
}

// NewAuthorizationHandler creates a new AuthorizationHandler
func NewAuthorizationHandler(authorizer GrantAuthorizer, logger *zap.Logger) *AuthorizationHandler {
	return &AuthorizationHandler{
		authorizer: authorizer,
		logger:     logger,
	}
}

// HandleCheck handles POST /oauth/authorization/check
func (h *AuthorizationHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	var req AuthorizationCheckRequest
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
		_ = utils.WriteBadRequest(w, "invalid authorization check request", details)
		return
	}

	userID, _ := uuid.Parse(req.UserID)
	clientID, _ := uuid.Parse(req.ClientID)

	if err := h.authorizer.CheckAuthorization(r.Context(), userID, clientID); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}
