package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	"github.com/dmitrijs2005/surveykeeper/internal/server/captcha"
	"github.com/dmitrijs2005/surveykeeper/internal/server/config"
	"github.com/dmitrijs2005/surveykeeper/internal/server/geoip"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
)

// SubmitRequest carries everything the gatekeeper needs to decide on one
// submission attempt.
type SubmitRequest struct {
	SurveyID     string
	Answers      []models.Answer
	CaptchaToken string
	// UserID is the authenticated submitter, empty for anonymous callers.
	UserID string
	// RemoteAddr is the client network address, empty when unknown.
	RemoteAddr string
}

// SubmissionService runs every submission attempt through a fixed sequence
// of gates. The first failing gate terminates the attempt and nothing is
// persisted.
type SubmissionService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	captcha         captcha.Verifier
	geoip           geoip.Lookup
	proxyFailClosed bool
	limits          models.Limits
	logger          logging.Logger
	now             func() time.Time
	newID           func() string
}

func NewSubmissionService(db *sql.DB, m repomanager.RepositoryManager,
	verifier captcha.Verifier, lookup geoip.Lookup,
	cfg *config.Config, logger logging.Logger) *SubmissionService {
	return &SubmissionService{
		db:              db,
		repomanager:     m,
		captcha:         verifier,
		geoip:           lookup,
		proxyFailClosed: cfg.ProxyFailClosed,
		limits:          cfg.Limits,
		logger:          logger,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

// Submit records an answer set after the survey's policy gates pass, in
// order: answer shape, captcha, authentication, network-origin reputation,
// duplicate check, persist. Answer content is ciphertext and is never
// inspected or logged.
func (s *SubmissionService) Submit(ctx context.Context, req *SubmitRequest) (*models.AnswerSet, error) {

	survey, err := s.getSurvey(ctx, req.SurveyID)
	if err != nil {
		return nil, err
	}

	if err := models.ValidateAnswers(req.Answers, survey, s.limits); err != nil {
		return nil, err
	}

	if err := s.captchaGate(ctx, survey, req.CaptchaToken); err != nil {
		return nil, err
	}

	if survey.RequiresLogin && req.UserID == "" {
		return nil, common.ErrorAuthenticationRequired
	}

	if err := s.proxyGate(ctx, survey, req.RemoteAddr); err != nil {
		return nil, err
	}

	set := &models.AnswerSet{
		ID:       s.newID(),
		SurveyID: survey.ID,
		UserID:   req.UserID,
		Answers:  req.Answers,
		Created:  s.now().UTC(),
	}

	// The duplicate check and the insert run inside one transaction. The
	// partial unique index still covers the race with concurrent writers.
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.duplicateGate(ctx, tx, survey, req.UserID); err != nil {
			return err
		}

		_, err := s.repomanager.AnswerSets(tx).Insert(ctx, set)
		return err
	})

	if err != nil {
		return nil, err
	}

	return set, nil
}

func (s *SubmissionService) getSurvey(ctx context.Context, surveyID string) (*models.Survey, error) {
	if len(surveyID) != surveyIDHexLen || !common.IsHexString(surveyID) {
		return nil, common.ErrorNotFound
	}

	repo := s.repomanager.Surveys(s.db)
	return repo.GetByID(ctx, surveyID)
}

// captchaGate fails closed: a verifier outage is indistinguishable from a
// rejected token.
func (s *SubmissionService) captchaGate(ctx context.Context, survey *models.Survey, token string) error {
	if !survey.RequiresCaptcha {
		return nil
	}
	if token == "" {
		return common.ErrorCaptchaRequired
	}

	valid, err := s.captcha.Verify(ctx, token)
	if err != nil {
		s.logger.Warn(ctx, "captcha verification failed", "survey_id", survey.ID, "error", err.Error())
		return common.ErrorCaptchaInvalid
	}
	if !valid {
		return common.ErrorCaptchaInvalid
	}
	return nil
}

// proxyGate consults the reputation provider only when the survey blocks
// proxies and the origin is known. An unknown origin or a lookup failure is
// resolved by the operator's fail policy.
func (s *SubmissionService) proxyGate(ctx context.Context, survey *models.Survey, addr string) error {
	if !survey.ProxyBlock {
		return nil
	}

	if addr == "" {
		if s.proxyFailClosed {
			return common.ErrorProxyBlocked
		}
		return nil
	}

	result, err := s.geoip.Lookup(ctx, addr)
	if err != nil || result == nil {
		if err != nil {
			s.logger.Warn(ctx, "origin reputation lookup failed", "survey_id", survey.ID, "error", err.Error())
		}
		if s.proxyFailClosed {
			return common.ErrorProxyBlocked
		}
		return nil
	}

	if result.Proxy {
		return common.ErrorProxyBlocked
	}
	return nil
}

// duplicateGate rejects a second identified submission up front. Anonymous
// submitters are never deduplicated. The storage-level unique index covers
// the race with concurrent writers.
func (s *SubmissionService) duplicateGate(ctx context.Context, tx dbx.DBTX, survey *models.Survey, userID string) error {
	if survey.AllowMultipleSubmissions || userID == "" {
		return nil
	}

	repo := s.repomanager.AnswerSets(tx)

	exists, err := repo.Exists(ctx, survey.ID, userID)
	if err != nil {
		return err
	}
	if exists {
		return common.ErrorDuplicateSubmission
	}
	return nil
}
