package answersets

import (
	"context"

	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
)

type Repository interface {
	// Insert persists an answer set. For identified submitters the unique
	// index on (survey_id, user_id) rejects a second submission with
	// common.ErrorDuplicateSubmission, closing the check-then-act race with
	// concurrent writers.
	Insert(ctx context.Context, set *models.AnswerSet) (*models.AnswerSet, error)

	// Exists reports whether the identified submitter already has an answer
	// set recorded for the survey.
	Exists(ctx context.Context, surveyID, userID string) (bool, error)
}
