package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"busScheduleManagement/models"
)

// errorResponse is the uniform error body: {message, [errors]}.
type errorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func (api *API) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		api.logger.Error("encode response", zap.Error(err))
	}
}

func (api *API) writeMessage(w http.ResponseWriter, status int, message string) {
	api.writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps a business-rule failure to its HTTP status. Unexpected
// errors are logged with full detail and reduced to a generic 500 body so
// internals never leak to clients.
func (api *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		err = models.TimeoutError()
	}
	var de *models.DomainError
	if !errors.As(err, &de) {
		api.logger.Error("internal error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		api.writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
		return
	}
	api.writeJSON(w, statusForKind(de.Kind), errorResponse{Message: de.Message, Errors: de.Errors})
}

func statusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.KindValidation, models.KindInvalidState:
		return http.StatusBadRequest
	case models.KindConflict:
		return http.StatusConflict
	case models.KindUnauthorized:
		return http.StatusUnauthorized
	case models.KindForbidden:
		return http.StatusForbidden
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// decodeBody reads a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return models.ValidationError([]string{"invalid request body"})
	}
	return nil
}
