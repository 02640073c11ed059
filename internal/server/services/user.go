package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"encoding/base32"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/server/auth"
	"github.com/dmitrijs2005/surveykeeper/internal/server/config"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
)

// otpSecretBytes is the size of the generated one-time-password secret.
const otpSecretBytes = 16

type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	limits                      models.Limits
	now                         func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		limits:                      cfg.Limits,
		now:                         time.Now,
	}
}

// Register validates and persists a new account aggregate. The key material
// arrives already wrapped client-side; the server only attaches identity,
// timestamps and a fresh OTP secret.
func (s *UserService) Register(ctx context.Context, user *models.User) (*models.User, error) {

	if err := user.ValidateCreate(s.limits); err != nil {
		return nil, err
	}

	id, err := common.MakeRandHexString(surveyIDHexLen / 2)
	if err != nil {
		return nil, err
	}

	user.ID = id
	user.Created = s.now().UTC()
	user.OTP = models.OTP{Secret: s.newOTPSecret()}
	user.EmailVerified = false
	if user.Algorithms == "" {
		user.Algorithms = models.DefaultAccountAlgorithms
	}

	repo := s.repomanager.Users(s.db)

	return repo.Create(ctx, user)
}

// newOTPSecret returns a fresh base32 secret in the form authenticator apps
// expect. The provisioning flow itself lives in an external collaborator.
func (s *UserService) newOTPSecret() string {
	return base32.StdEncoding.WithPadding(base32.NoPadding).
		EncodeToString(common.GenerateRandByteArray(otpSecretBytes))
}

// Public returns the restricted projection of an account looked up by email:
// the KDF parameters a client needs to derive its keys, plus the
// second-factor flag. Never key material.
func (s *UserService) Public(ctx context.Context, email string) (*models.PublicUser, error) {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return user.ProjectPublic(), nil
}

// Get returns the full aggregate for the authenticated owner.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {

	if userID == "" {
		return nil, common.ErrorAuthenticationRequired
	}

	repo := s.repomanager.Users(s.db)

	return repo.GetByID(ctx, userID)
}

// Token mints an access token for the account whose stored auth key matches
// the presented one. The auth key is derived client-side from the password
// and never surfaces in any public projection, so possession is the login
// proof. Lookup and compare failures are indistinguishable to the caller.
func (s *UserService) Token(ctx context.Context, email, authKey string) (string, error) {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return "", common.ErrorUnauthorized
	}

	if subtle.ConstantTimeCompare([]byte(authKey), []byte(user.Auth.PublicKey)) != 1 {
		return "", common.ErrorUnauthorized
	}

	return auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
}
