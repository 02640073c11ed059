package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
)

// Answer is one respondent's answer to a single question. Every payload is
// normalized to a list of strings regardless of the question type, so the
// storage and transport shape stays uniform; interpretation (e.g. exactly one
// element for a single-choice answer) is left to the client.
type Answer struct {
	ID     int          `json:"id"`
	Type   QuestionType `json:"type"`
	Answer []string     `json:"answer"`
}

// AnswerSet is one respondent's submission to a survey. UserID is empty for
// anonymous submissions. Immutable once written.
type AnswerSet struct {
	ID       string    `json:"id"`
	SurveyID string    `json:"survey_id"`
	UserID   string    `json:"user_id,omitempty"`
	Answers  []Answer  `json:"answers"`
	Created  time.Time `json:"created"`
}

// ValidateAnswers checks shape and cardinality of a submission against the
// survey's question set: every referenced question id must exist, the
// recorded type must match the survey's type for that id, and each answer
// list must hold 1 to MaxAnswerItems bounded strings. Content semantics
// (required flags, validation regexes) are never enforced here: the content
// is encrypted and only the client can check it.
func ValidateAnswers(answers []Answer, survey *Survey, limits Limits) error {
	if len(answers) == 0 {
		return common.NewShapeError("answers", "required")
	}
	for i, a := range answers {
		field := fmt.Sprintf("answers[%d]", i)
		if a.ID < 0 || a.ID >= limits.MaxID {
			return common.NewShapeError(field+".id", "must be within [0,%d)", limits.MaxID)
		}
		q, ok := survey.QuestionByID(a.ID)
		if !ok {
			return common.NewShapeError(field+".id", "unknown question %d", a.ID)
		}
		if a.Type != q.Type {
			return common.NewShapeError(field+".type", "does not match question %d", a.ID)
		}
		if len(a.Answer) == 0 {
			return common.NewShapeError(field+".answer", "required")
		}
		if len(a.Answer) > limits.MaxAnswerItems {
			return &common.TooManyItemsError{Scope: field + ".answer", Limit: limits.MaxAnswerItems}
		}
		for j, v := range a.Answer {
			if v == "" {
				return common.NewShapeError(fmt.Sprintf("%s.answer[%d]", field, j), "required")
			}
			if len(v) > limits.AnswerMaxLen {
				return common.NewShapeError(fmt.Sprintf("%s.answer[%d]", field, j), "exceeds %d chars", limits.AnswerMaxLen)
			}
		}
	}
	return nil
}
