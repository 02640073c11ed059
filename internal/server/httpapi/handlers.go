package httpapi

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/services"
)

// maxBodyBytes caps request bodies well above the largest valid aggregate.
const maxBodyBytes = 1 << 20

func (s *HTTPServer) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *HTTPServer) surveyCreate(w http.ResponseWriter, r *http.Request) {
	var survey models.Survey
	if !s.decode(w, r, &survey) {
		return
	}

	result, err := s.surveys.Create(r.Context(), userIDFromContext(r.Context()), &survey)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "survey created", "survey_id", result.ID)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) surveyList(w http.ResponseWriter, r *http.Request) {
	result, err := s.surveys.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) surveyPublic(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["survey_id"]

	result, err := s.surveys.Public(r.Context(), surveyID, userIDFromContext(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) surveySubmit(w http.ResponseWriter, r *http.Request) {
	var answers []models.Answer
	if !s.decode(w, r, &answers) {
		return
	}

	req := &services.SubmitRequest{
		SurveyID:     mux.Vars(r)["survey_id"],
		Answers:      answers,
		CaptchaToken: r.URL.Query().Get("captcha"),
		UserID:       userIDFromContext(r.Context()),
		RemoteAddr:   s.clientAddr(r),
	}

	if _, err := s.submissions.Submit(r.Context(), req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "submission recorded", "survey_id", req.SurveyID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) accountCreate(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if !s.decode(w, r, &user) {
		return
	}

	result, err := s.users.Register(r.Context(), &user)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "account created", "user_id", result.ID)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) accountPublic(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		s.writeError(w, r, http.StatusBadRequest, "email required")
		return
	}

	result, err := s.users.Public(r.Context(), email)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) accountMe(w http.ResponseWriter, r *http.Request) {
	result, err := s.users.Get(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

type tokenRequest struct {
	Email   string `json:"email"`
	AuthKey string `json:"auth_key"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (s *HTTPServer) accountToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !s.decode(w, r, &req) {
		return
	}

	token, err := s.users.Token(r.Context(), req.Email, req.AuthKey)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}

// clientAddr extracts the client network address for the proxy gate. By
// default only the connection peer counts: X-Forwarded-For is caller-supplied
// and would let anyone forge a clean origin for proxy-blocked surveys. When a
// trusted reverse proxy is declared in config, the last header entry is used,
// the one appended by that proxy. Empty when nothing parses.
func (s *HTTPServer) clientAddr(r *http.Request) string {
	if s.trustForwarded {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			parts := strings.Split(fwd, ",")
			if addr := strings.TrimSpace(parts[len(parts)-1]); addr != "" {
				return addr
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	return host
}
