package handlers

import (
	"errors"
	"net/http"

	"todoBoard/internal/logger"
	"todoBoard/internal/service"

	"go.uber.org/zap"
)

// handleBusinessError writes the response for a *service.BusinessError and
// reports whether err was one.
func handleBusinessError(w http.ResponseWriter, r *http.Request, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: business error",
		zap.String("error_code", businessErr.Code),
		zap.String("message", businessErr.Message),
		zap.Int("http_status", statusCode),
		zap.String("client_ip", r.RemoteAddr))

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Message),
		toPayload("code", businessErr.Code),
		toPayload("details", businessErr.Details),
	)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

// handleServiceError maps err to a response; anything that is not a
// business error is a store fault.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if handleBusinessError(w, r, err) {
		return
	}

	logger.Error("HTTP: service error", err,
		zap.String("operation", operation),
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, http.StatusInternalServerError, err.Error())
}
