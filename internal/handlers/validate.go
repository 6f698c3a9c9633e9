package handlers

import (
	"mime"
	"net/http"

	"todoBoard/internal/logger"

	"go.uber.org/zap"
)

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// requireJSON writes 415 and returns false unless the request carries JSON.
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	if checkContentType(r, "application/json") {
		return true
	}

	logger.Warn("HTTP: wrong content type",
		zap.String("expected", "application/json"),
		zap.String("received", r.Header.Get("Content-Type")),
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
	return false
}
