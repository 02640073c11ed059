package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
)

// DefaultSurveyAlgorithms is the informational algorithm tag recorded when a
// client omits one. The server never derives behavior from it.
const DefaultSurveyAlgorithms = "XChaCha20Poly1305+ED25519+X25519_XSalsa20Poly1305+BLAKE2b"

// QuestionType tags a question and its answers. The set is closed; values
// outside it fail validation.
type QuestionType int

const (
	ShortAnswer QuestionType = iota
	Paragraph
	MultipleChoice
	SingleChoice
)

// Valid reports whether qt is a member of the closed type set.
func (qt QuestionType) Valid() bool {
	switch qt {
	case ShortAnswer, Paragraph, MultipleChoice, SingleChoice:
		return true
	}
	return false
}

// Choice is one selectable option of a choice-type question. The label
// envelope is flattened into the object on the wire: {id, iv, cipher_text}.
type Choice struct {
	ID int `json:"id"`
	Envelope
}

// Question is a single survey question. The prompt, the optional validation
// regex and the optional description are all envelopes: the server cannot
// tell a question's text from random bytes.
type Question struct {
	ID          int          `json:"id"`
	Question    Envelope     `json:"question"`
	Regex       *Envelope    `json:"regex,omitempty"`
	Description *Envelope    `json:"description,omitempty"`
	Choices     []Choice     `json:"choices,omitempty"`
	Required    bool         `json:"required"`
	Type        QuestionType `json:"type"`
}

// Survey is the aggregate root: encrypted content, the key material
// respondents need to encrypt answers, and the policy flags the submission
// gatekeeper evaluates. ID, UserID and Created are attached by the service
// layer, never by clients.
type Survey struct {
	ID      string    `json:"id,omitempty"`
	UserID  string    `json:"user_id,omitempty"`
	Created time.Time `json:"created"`

	Title       Envelope   `json:"title"`
	Description *Envelope  `json:"description,omitempty"`
	Questions   []Question `json:"questions"`

	SignKeyPair KeyPair   `json:"sign_keypair"`
	KeyPair     KeyPair   `json:"keypair"`
	SecretKey   *Envelope `json:"secret_key,omitempty"`
	Signature   string    `json:"signature"`
	Algorithms  string    `json:"algorithms"`

	RequiresLogin            bool `json:"requires_login"`
	RequiresCaptcha          bool `json:"requires_captcha"`
	ProxyBlock               bool `json:"proxy_block"`
	AllowMultipleSubmissions bool `json:"allow_multiple_submissions"`
}

// ValidateCreate checks the structural shape of a survey-create payload:
// envelope bounds, count bounds, id uniqueness per namespace, and the
// presence of all key material. It does not attach identity or timestamps.
func (s *Survey) ValidateCreate(limits Limits) error {
	if err := s.Title.Validate("title", limits.TitleMaxLen, limits); err != nil {
		return err
	}
	if s.Description != nil {
		if err := s.Description.Validate("description", limits.DescriptionMaxLen, limits); err != nil {
			return err
		}
	}

	if len(s.Questions) > limits.MaxQuestions {
		return &common.TooManyItemsError{Scope: "questions", Limit: limits.MaxQuestions}
	}

	questionIDs := make(map[int]struct{}, len(s.Questions))
	for i, q := range s.Questions {
		field := fmt.Sprintf("questions[%d]", i)
		if q.ID < 0 || q.ID >= limits.MaxID {
			return common.NewShapeError(field+".id", "must be within [0,%d)", limits.MaxID)
		}
		if _, ok := questionIDs[q.ID]; ok {
			return &common.DuplicateIDError{Scope: "questions", ID: q.ID}
		}
		questionIDs[q.ID] = struct{}{}

		if err := s.validateQuestion(field, q, limits); err != nil {
			return err
		}
	}

	if err := s.SignKeyPair.Validate("sign_keypair", limits); err != nil {
		return err
	}
	if err := s.KeyPair.Validate("keypair", limits); err != nil {
		return err
	}
	if s.SecretKey == nil {
		return common.NewShapeError("secret_key", "required")
	}
	if err := s.SecretKey.Validate("secret_key", limits.KeyCipherMaxLen, limits); err != nil {
		return err
	}

	if s.Signature == "" {
		return common.NewShapeError("signature", "required")
	}
	if len(s.Signature) > limits.SignatureMaxLen {
		return common.NewShapeError("signature", "exceeds %d chars", limits.SignatureMaxLen)
	}
	if len(s.Algorithms) > limits.AlgorithmsMaxLen {
		return common.NewShapeError("algorithms", "exceeds %d chars", limits.AlgorithmsMaxLen)
	}

	return nil
}

func (s *Survey) validateQuestion(field string, q Question, limits Limits) error {
	if !q.Type.Valid() {
		return common.NewShapeError(field+".type", "unknown question type %d", q.Type)
	}
	if err := q.Question.Validate(field+".question", limits.QuestionMaxLen, limits); err != nil {
		return err
	}
	if q.Regex != nil {
		if err := q.Regex.Validate(field+".regex", limits.RegexMaxLen, limits); err != nil {
			return err
		}
	}
	if q.Description != nil {
		if err := q.Description.Validate(field+".description", limits.DescriptionMaxLen, limits); err != nil {
			return err
		}
	}

	if len(q.Choices) > limits.MaxChoices {
		return &common.TooManyItemsError{Scope: fmt.Sprintf("question %d choices", q.ID), Limit: limits.MaxChoices}
	}
	choiceIDs := make(map[int]struct{}, len(q.Choices))
	for j, c := range q.Choices {
		cf := fmt.Sprintf("%s.choices[%d]", field, j)
		if c.ID < 0 || c.ID >= limits.MaxID {
			return common.NewShapeError(cf+".id", "must be within [0,%d)", limits.MaxID)
		}
		if _, ok := choiceIDs[c.ID]; ok {
			return &common.DuplicateIDError{Scope: fmt.Sprintf("question %d choices", q.ID), ID: c.ID}
		}
		choiceIDs[c.ID] = struct{}{}
		if err := c.Envelope.Validate(cf, limits.ChoiceMaxLen, limits); err != nil {
			return err
		}
	}

	return nil
}

// QuestionByID returns the question with the given id, if present.
func (s *Survey) QuestionByID(id int) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// ProjectPublic returns the respondent-visible view: private key halves and
// the secret key are stripped, public keys and all encrypted content remain.
func (s *Survey) ProjectPublic() *Survey {
	out := *s
	out.SignKeyPair = s.SignKeyPair.Public()
	out.KeyPair = s.KeyPair.Public()
	out.SecretKey = nil
	return &out
}

// ProjectFull returns the owner-visible view: the survey unchanged. Callers
// must have established ownership first.
func (s *Survey) ProjectFull() *Survey {
	out := *s
	return &out
}
