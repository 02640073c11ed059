// Package httpapi exposes the application services over HTTP: survey
// management, account registration and submission intake. Handlers decode,
// delegate and map sentinel errors to status codes; every decision lives in
// the services layer.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/services"
)

// SurveyService is the survey management surface consumed by the handlers.
type SurveyService interface {
	Create(ctx context.Context, userID string, survey *models.Survey) (*models.Survey, error)
	List(ctx context.Context, userID string) ([]*models.Survey, error)
	Public(ctx context.Context, surveyID, userID string) (*models.Survey, error)
}

// UserService is the account surface consumed by the handlers.
type UserService interface {
	Register(ctx context.Context, user *models.User) (*models.User, error)
	Public(ctx context.Context, email string) (*models.PublicUser, error)
	Get(ctx context.Context, userID string) (*models.User, error)
	Token(ctx context.Context, email, authKey string) (string, error)
}

// SubmissionService runs the submission gatekeeper.
type SubmissionService interface {
	Submit(ctx context.Context, req *services.SubmitRequest) (*models.AnswerSet, error)
}

type HTTPServer struct {
	address        string
	surveys        SurveyService
	users          UserService
	submissions    SubmissionService
	logger         logging.Logger
	jwtSecret      []byte
	trustForwarded bool
}

func NewHTTPServer(address string, l logging.Logger,
	ss SurveyService, us UserService, sub SubmissionService,
	secretKey string, trustForwardedHeaders bool) *HTTPServer {
	return &HTTPServer{
		address:        address,
		logger:         l.With("module", "http_server"),
		surveys:        ss,
		users:          us,
		submissions:    sub,
		jwtSecret:      []byte(secretKey),
		trustForwarded: trustForwardedHeaders,
	}
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
