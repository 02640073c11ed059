// Package answersets provides the PostgreSQL-backed repository for answer
// sets. The partial unique index on (survey_id, user_id) is the storage-level
// guarantee behind the duplicate-submission gate.
package answersets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
)

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, set *models.AnswerSet) (*models.AnswerSet, error) {

	answers, err := json.Marshal(set.Answers)
	if err != nil {
		return nil, fmt.Errorf("marshaling answers: %w", err)
	}

	var userID sql.NullString
	if set.UserID != "" {
		userID = sql.NullString{String: set.UserID, Valid: true}
	}

	query :=
		`INSERT INTO answer_sets (id, survey_id, user_id, answers, created)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err = r.db.QueryRowContext(ctx, query,
		set.ID, set.SurveyID, userID, answers, set.Created).Scan(&set.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorDuplicateSubmission
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return set, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, surveyID, userID string) (bool, error) {
	query :=
		`SELECT EXISTS (
		     SELECT 1 FROM answer_sets WHERE survey_id = $1 AND user_id = $2
		 )`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, surveyID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}
