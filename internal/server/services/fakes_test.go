package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	"github.com/dmitrijs2005/surveykeeper/internal/server/geoip"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/answersets"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/surveys"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/users"
)

// --- fakes ---

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type fakeSurveysRepo struct {
	getOut  *models.Survey
	getErr  error
	listOut []*models.Survey
	listErr error

	createErr error
	created   *models.Survey
}

func (f *fakeSurveysRepo) Create(ctx context.Context, s *models.Survey) (*models.Survey, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = s
	return s, nil
}

func (f *fakeSurveysRepo) GetByID(ctx context.Context, id string) (*models.Survey, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeSurveysRepo) ListByOwner(ctx context.Context, userID string) ([]*models.Survey, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

type fakeAnswerSetsRepo struct {
	existsOut bool
	existsErr error

	insertErr error
	inserted  *models.AnswerSet
}

func (f *fakeAnswerSetsRepo) Insert(ctx context.Context, set *models.AnswerSet) (*models.AnswerSet, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserted = set
	return set, nil
}

func (f *fakeAnswerSetsRepo) Exists(ctx context.Context, surveyID, userID string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.existsOut, nil
}

type fakeUsersRepo struct {
	createErr error
	created   *models.User

	getOut *models.User
	getErr error

	byEmailOut *models.User
	byEmailErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmailOut, nil
}

type fakeRepoManager struct {
	surveys    *fakeSurveysRepo
	answerSets *fakeAnswerSetsRepo
	users      *fakeUsersRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Surveys(db dbx.DBTX) surveys.Repository { return m.surveys }

func (m *fakeRepoManager) AnswerSets(db dbx.DBTX) answersets.Repository { return m.answerSets }

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository { return m.users }

type fakeVerifier struct {
	valid bool
	err   error
	calls int
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.valid, nil
}

type fakeLookup struct {
	result *geoip.Result
	err    error
	calls  int
}

func (f *fakeLookup) Lookup(ctx context.Context, addr string) (*geoip.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// --- fixtures ---

func testEnvelope() models.Envelope {
	return models.Envelope{IV: "aaaaaaaaaaaaaaaaaaaaaaaa", CipherText: "ciphertext"}
}

func testKeyPair() models.KeyPair {
	priv := testEnvelope()
	return models.KeyPair{PublicKey: "pub", PrivateKey: &priv}
}

func validSurveyFixture() *models.Survey {
	secret := testEnvelope()
	return &models.Survey{
		ID:      "64e0f3a12bc45d9817f0aa31",
		UserID:  "64e0f3a12bc45d9817f0aa32",
		Created: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Title:   testEnvelope(),
		Questions: []models.Question{
			{ID: 0, Question: testEnvelope(), Type: models.ShortAnswer},
			{ID: 1, Question: testEnvelope(), Type: models.SingleChoice, Choices: []models.Choice{
				{ID: 0, Envelope: testEnvelope()},
				{ID: 1, Envelope: testEnvelope()},
			}},
		},
		SignKeyPair: testKeyPair(),
		KeyPair:     testKeyPair(),
		SecretKey:   &secret,
		Signature:   "signature",
	}
}

func validUserFixture() *models.User {
	return &models.User{
		Email:       "user@example.com",
		Auth:        models.AuthKey{PublicKey: "authkey"},
		KeyPair:     testKeyPair(),
		SignKeyPair: testKeyPair(),
		Keychain:    testEnvelope(),
		KDF: models.KDFParams{
			Salt:       "c2FsdA==",
			TimeCost:   3,
			MemoryCost: 65536,
		},
		Signature: "signature",
	}
}

func testAnswers() []models.Answer {
	return []models.Answer{
		{ID: 0, Type: models.ShortAnswer, Answer: []string{"enc"}},
		{ID: 1, Type: models.SingleChoice, Answer: []string{"enc"}},
	}
}
