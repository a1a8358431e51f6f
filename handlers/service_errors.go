package handlers

import (
	"net/http"

	"github.com/averlon/identity-plane/services"
	"github.com/averlon/identity-plane/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses. Each error type
// keeps its stable code on the wire so callers can tell invalid_grant,
// unauthorized_client, and unauthorized apart.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	errType := services.GetErrorType(err)
	details := services.GetErrorDetails(err)

	switch {
	case services.IsInvalidGrantError(err), services.IsUnsupportedGrantTypeError(err), services.IsUnauthorizedClientError(err):
		// OAuth protocol errors travel as 400 with their distinct code
		if werr := utils.WriteOAuthError(w, http.StatusBadRequest, string(errType), err.Error(), details); werr != nil {
			logger.Error("failed to write oauth error response", zap.Error(werr))
		}

	case services.IsNotFoundError(err):
		if werr := utils.WriteNotFound(w, err.Error()); werr != nil {
			logger.Error("failed to write not found response", zap.Error(werr))
		}

	case services.IsUnauthorizedError(err):
		if werr := utils.WriteUnauthorized(w, err.Error()); werr != nil {
			logger.Error("failed to write unauthorized response", zap.Error(werr))
		}

	case services.IsInternalError(err):
		// Server misconfiguration, logged distinctly from client-caused failures
		logger.Error("internal service error", zap.Error(err))
		if werr := utils.WriteInternalServerError(w, "internal server error"); werr != nil {
			logger.Error("failed to write internal error response", zap.Error(werr))
		}

	case services.IsServerError(err):
		logger.Error("storage access failure", zap.Error(err))
		if werr := utils.WriteOAuthError(w, http.StatusInternalServerError, string(services.ErrorTypeServerError), err.Error(), nil); werr != nil {
			logger.Error("failed to write server error response", zap.Error(werr))
		}

	default:
		logger.Error("unhandled service error", zap.Error(err))
		if werr := utils.WriteInternalServerError(w, ""); werr != nil {
			logger.Error("failed to write internal error response", zap.Error(werr))
		}
	}
}
