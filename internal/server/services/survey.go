// Package services implements the application operations on top of the
// repository layer: survey schema management, account registration and the
// submission gatekeeper.
package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/server/config"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
)

// surveyIDHexLen is the length of a survey/account identifier: 12 random
// bytes hex-encoded.
const surveyIDHexLen = 24

type SurveyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	limits      models.Limits
	now         func() time.Time
}

func NewSurveyService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SurveyService {
	return &SurveyService{
		db:          db,
		repomanager: m,
		limits:      cfg.Limits,
		now:         time.Now,
	}
}

// Create validates the submitted schema, attaches identity and ownership and
// persists the survey as a single atomic write.
func (s *SurveyService) Create(ctx context.Context, userID string, survey *models.Survey) (*models.Survey, error) {

	if userID == "" {
		return nil, common.ErrorAuthenticationRequired
	}

	if err := survey.ValidateCreate(s.limits); err != nil {
		return nil, err
	}

	id, err := common.MakeRandHexString(surveyIDHexLen / 2)
	if err != nil {
		return nil, err
	}

	survey.ID = id
	survey.UserID = userID
	survey.Created = s.now().UTC()
	if survey.Algorithms == "" {
		survey.Algorithms = models.DefaultSurveyAlgorithms
	}

	repo := s.repomanager.Surveys(s.db)

	return repo.Create(ctx, survey)
}

// List returns the full owner view of every survey owned by userID.
func (s *SurveyService) List(ctx context.Context, userID string) ([]*models.Survey, error) {

	if userID == "" {
		return nil, common.ErrorAuthenticationRequired
	}

	repo := s.repomanager.Surveys(s.db)

	list, err := repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*models.Survey, 0, len(list))
	for _, survey := range list {
		result = append(result, survey.ProjectFull())
	}
	return result, nil
}

// Public returns the respondent view of a survey. A malformed id behaves
// exactly like an absent one so callers cannot probe the id space.
func (s *SurveyService) Public(ctx context.Context, surveyID, userID string) (*models.Survey, error) {

	survey, err := s.getSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	if survey.RequiresLogin && userID == "" {
		return nil, common.ErrorAuthenticationRequired
	}

	return survey.ProjectPublic(), nil
}

func (s *SurveyService) getSurvey(ctx context.Context, surveyID string) (*models.Survey, error) {
	if len(surveyID) != surveyIDHexLen || !common.IsHexString(surveyID) {
		return nil, common.ErrorNotFound
	}

	repo := s.repomanager.Surveys(s.db)
	return repo.GetByID(ctx, surveyID)
}
