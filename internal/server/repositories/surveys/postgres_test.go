package surveys

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

func testSurvey(t *testing.T) *models.Survey {
	t.Helper()
	return &models.Survey{
		ID:      "64e0f3a12bc45d9817f0aa31",
		UserID:  "64e0f3a12bc45d9817f0aa32",
		Created: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Title:   models.Envelope{IV: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", CipherText: "ct"},
		Questions: []models.Question{
			{ID: 0, Question: models.Envelope{IV: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", CipherText: "q"}, Type: models.ShortAnswer},
		},
		Signature: "sig",
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	s := testSurvey(t)

	q := `(?s)^INSERT\s+INTO\s+surveys\s*\(id,\s*user_id,\s*doc,\s*created\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id\s*$`

	rows := sqlmock.NewRows([]string{"id"}).AddRow(s.ID)
	mock.ExpectQuery(q).
		WithArgs(s.ID, s.UserID, sqlmock.AnyArg(), s.Created).
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), s)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != s.ID {
		t.Fatalf("unexpected survey: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+surveys`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), testSurvey(t))
	if err == nil {
		t.Fatalf("expected wrapped db error, got nil")
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	s := testSurvey(t)
	doc, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	q := `(?s)^SELECT\s+id,\s*user_id,\s*doc,\s*created\s+FROM\s+surveys\s+WHERE\s+id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"id", "user_id", "doc", "created"}).
		AddRow(s.ID, s.UserID, doc, s.Created)
	mock.ExpectQuery(q).WithArgs(s.ID).WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != s.ID || got.UserID != s.UserID || len(got.Questions) != 1 {
		t.Fatalf("unexpected survey: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*user_id,\s*doc,\s*created\s+FROM\s+surveys`).
		WithArgs("ffffffffffffffffffffffff").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ffffffffffffffffffffffff")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestListByOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	s := testSurvey(t)
	doc, _ := json.Marshal(s)

	q := `(?s)^SELECT\s+id,\s*user_id,\s*doc,\s*created\s+FROM\s+surveys\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created\s*$`

	rows := sqlmock.NewRows([]string{"id", "user_id", "doc", "created"}).
		AddRow(s.ID, s.UserID, doc, s.Created).
		AddRow("64e0f3a12bc45d9817f0aa33", s.UserID, doc, s.Created.Add(time.Minute))
	mock.ExpectQuery(q).WithArgs(s.UserID).WillReturnRows(rows)

	got, err := repo.ListByOwner(context.Background(), s.UserID)
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 surveys, got %d", len(got))
	}
	if got[1].ID != "64e0f3a12bc45d9817f0aa33" {
		t.Fatalf("lifted id column must win over doc contents: %+v", got[1])
	}
}

func TestListByOwner_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "user_id", "doc", "created"})
	mock.ExpectQuery(`SELECT\s+id,\s*user_id,\s*doc,\s*created\s+FROM\s+surveys`).
		WithArgs("64e0f3a12bc45d9817f0aa32").
		WillReturnRows(rows)

	got, err := repo.ListByOwner(context.Background(), "64e0f3a12bc45d9817f0aa32")
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no surveys, got %d", len(got))
	}
}
