// Package surveys provides the PostgreSQL-backed repository for survey
// aggregates. A survey is stored as a single JSONB document with identity
// and ownership columns lifted out for querying, so creation stays a single
// atomic row write.
package surveys

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, survey *models.Survey) (*models.Survey, error) {

	doc, err := json.Marshal(survey)
	if err != nil {
		return nil, fmt.Errorf("marshaling survey: %w", err)
	}

	query :=
		`INSERT INTO surveys (id, user_id, doc, created)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err = r.db.QueryRowContext(ctx, query,
		survey.ID, survey.UserID, doc, survey.Created).Scan(&survey.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return survey, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Survey, error) {
	query :=
		`SELECT id, user_id, doc, created FROM surveys
		 WHERE id = $1
		 `

	return r.scanSurvey(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Survey, error) {
	query :=
		`SELECT id, user_id, doc, created FROM surveys
		 WHERE user_id = $1
		 ORDER BY created
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Survey
	for rows.Next() {
		var (
			id, owner string
			doc       []byte
			created   time.Time
		)
		if err := rows.Scan(&id, &owner, &doc, &created); err != nil {
			return nil, err
		}
		survey, err := unmarshalSurvey(id, owner, doc, created)
		if err != nil {
			return nil, err
		}
		result = append(result, survey)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) scanSurvey(row *sql.Row) (*models.Survey, error) {
	var (
		id, owner string
		doc       []byte
		created   time.Time
	)
	if err := row.Scan(&id, &owner, &doc, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return unmarshalSurvey(id, owner, doc, created)
}

// unmarshalSurvey restores the aggregate from its stored document. The
// lifted columns are authoritative for identity and ownership.
func unmarshalSurvey(id, userID string, doc []byte, created time.Time) (*models.Survey, error) {
	survey := &models.Survey{}
	if err := json.Unmarshal(doc, survey); err != nil {
		return nil, fmt.Errorf("unmarshaling survey %s: %w", id, err)
	}
	survey.ID = id
	survey.UserID = userID
	survey.Created = created
	return survey, nil
}
