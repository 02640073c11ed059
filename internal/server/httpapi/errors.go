package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(context.Background(), "response encoding error", "error", err.Error())
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps a sentinel error to its status code. Internal
// failures are logged with detail but surface as an opaque 500: the payloads
// are ciphertext, but error text could still echo caller input.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		s.writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorShape),
		errors.Is(err, common.ErrorDuplicateID),
		errors.Is(err, common.ErrorTooManyItems):
		s.writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorCaptchaRequired):
		s.writeError(w, r, http.StatusBadRequest, "captcha required")
	case errors.Is(err, common.ErrorCaptchaInvalid):
		s.writeError(w, r, http.StatusBadRequest, "captcha invalid")
	case errors.Is(err, common.ErrorAuthenticationRequired):
		s.writeError(w, r, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, common.ErrorUnauthorized):
		s.writeError(w, r, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorProxyBlocked):
		s.writeError(w, r, http.StatusForbidden, "submission origin not allowed")
	case errors.Is(err, common.ErrorDuplicateSubmission):
		s.writeError(w, r, http.StatusConflict, "already submitted")
	case errors.Is(err, common.ErrorAlreadyExists):
		s.writeError(w, r, http.StatusConflict, "already exists")
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
		s.writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
