package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/averlon/identity-plane/models"
	"github.com/averlon/identity-plane/utils"
	"go.uber.org/zap"
)

// VerifyRequest represents a POST /oauth/verify request body
type VerifyRequest struct {
	Message string `json:"message" validate:"required"`
	Token   string `json:"token" validate:"required"`
	MAC     string `json:"mac" validate:"required"`
}

// VerifyResponse represents a successful message verification
type VerifyResponse struct {
	UserID      string `json:"user_id"`
	LocalID     string `json:"local_id"`
	AcceptedTOS bool   `json:"accepted_tos"`
}

// MessageAuthenticator defines the interface for signed message verification
type MessageAuthenticator interface {
	// Verify checks the MAC over message against the token's session key
	Verify(ctx context.Context, message, tokenString, mac string) (*models.User, error)
}

// VerifyHandler handles signed message verification
type VerifyHandler struct {
	authenticator MessageAuthenticator
	logger        *zap.Logger
}

// NewVerifyHandler creates a new VerifyHandler
func NewVerifyHandler(authenticator MessageAuthenticator, logger *zap.Logger) *VerifyHandler {
	return &VerifyHandler{
		authenticator: authenticator,
		logger:        logger,
	}
}

// HandleVerify handles POST /oauth/verify
func (h *VerifyHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
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
		_ = utils.WriteBadRequest(w, "invalid verify request", details)
		return
	}

	user, err := h.authenticator.Verify(r.Context(), req.Message, req.Token, req.MAC)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, VerifyResponse{
		UserID:      user.ID.String(),
		LocalID:     user.LocalID,
		AcceptedTOS: user.AcceptedTOS,
	})
}
