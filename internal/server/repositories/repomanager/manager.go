package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/answersets"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/surveys"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Surveys(db dbx.DBTX) surveys.Repository
	AnswerSets(db dbx.DBTX) answersets.Repository
	Users(db dbx.DBTX) users.Repository
}
