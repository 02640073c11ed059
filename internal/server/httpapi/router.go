package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *HTTPServer) routes() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/survey/create",
		s.identity(s.requireIdentity(http.HandlerFunc(s.surveyCreate)))).Methods(http.MethodPost)
	r.Handle("/survey/list",
		s.identity(s.requireIdentity(http.HandlerFunc(s.surveyList)))).Methods(http.MethodGet)
	r.Handle("/survey/{survey_id}/submit",
		s.identity(http.HandlerFunc(s.surveySubmit))).Methods(http.MethodPost)
	r.Handle("/survey/{survey_id}/public",
		s.identity(http.HandlerFunc(s.surveyPublic))).Methods(http.MethodGet)

	r.HandleFunc("/account/create", s.accountCreate).Methods(http.MethodPost)
	r.HandleFunc("/account/public", s.accountPublic).Methods(http.MethodGet)
	r.Handle("/account/me",
		s.identity(s.requireIdentity(http.HandlerFunc(s.accountMe)))).Methods(http.MethodGet)
	r.HandleFunc("/account/token", s.accountToken).Methods(http.MethodPost)

	return r
}
