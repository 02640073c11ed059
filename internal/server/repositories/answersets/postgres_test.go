package answersets

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func testAnswerSet(userID string) *models.AnswerSet {
	return &models.AnswerSet{
		ID:       "5b9f1d2e-3c4a-4b5c-8d6e-7f8091a2b3c4",
		SurveyID: "64e0f3a12bc45d9817f0aa31",
		UserID:   userID,
		Answers: []models.Answer{
			{ID: 0, Type: models.ShortAnswer, Answer: []string{"enc"}},
		},
		Created: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestInsert_Authenticated(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	set := testAnswerSet("64e0f3a12bc45d9817f0aa32")

	q := `(?s)^INSERT\s+INTO\s+answer_sets\s*\(id,\s*survey_id,\s*user_id,\s*answers,\s*created\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id\s*$`

	rows := sqlmock.NewRows([]string{"id"}).AddRow(set.ID)
	mock.ExpectQuery(q).
		WithArgs(set.ID, set.SurveyID, sql.NullString{String: set.UserID, Valid: true}, sqlmock.AnyArg(), set.Created).
		WillReturnRows(rows)

	got, err := repo.Insert(context.Background(), set)
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if got.ID != set.ID {
		t.Fatalf("unexpected answer set: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsert_AnonymousStoresNullUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	set := testAnswerSet("")

	rows := sqlmock.NewRows([]string{"id"}).AddRow(set.ID)
	mock.ExpectQuery(`INSERT\s+INTO\s+answer_sets`).
		WithArgs(set.ID, set.SurveyID, sql.NullString{}, sqlmock.AnyArg(), set.Created).
		WillReturnRows(rows)

	if _, err := repo.Insert(context.Background(), set); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsert_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+answer_sets`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "answer_sets_survey_user_uq"})

	_, err := repo.Insert(context.Background(), testAnswerSet("64e0f3a12bc45d9817f0aa32"))
	if !errors.Is(err, common.ErrorDuplicateSubmission) {
		t.Fatalf("want common.ErrorDuplicateSubmission, got %v", err)
	}
}

func TestInsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+answer_sets`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Insert(context.Background(), testAnswerSet(""))
	if err == nil {
		t.Fatalf("expected wrapped db error, got nil")
	}
	if errors.Is(err, common.ErrorDuplicateSubmission) {
		t.Fatalf("only unique violations map to duplicate submission, got %v", err)
	}
}

func TestExists(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"found", true},
		{"not found", false},
	}

	q := `(?s)^SELECT\s+EXISTS\s*\(\s*SELECT\s+1\s+FROM\s+answer_sets\s+WHERE\s+survey_id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*\)$`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			rows := sqlmock.NewRows([]string{"exists"}).AddRow(tt.want)
			mock.ExpectQuery(q).
				WithArgs("64e0f3a12bc45d9817f0aa31", "64e0f3a12bc45d9817f0aa32").
				WillReturnRows(rows)

			got, err := repo.Exists(context.Background(), "64e0f3a12bc45d9817f0aa31", "64e0f3a12bc45d9817f0aa32")
			if err != nil {
				t.Fatalf("Exists error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Exists = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExists_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+EXISTS`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Exists(context.Background(), "64e0f3a12bc45d9817f0aa31", "64e0f3a12bc45d9817f0aa32")
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}
