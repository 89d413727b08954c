package model

import (
	"encoding/json"
	"time"
)

type Form struct {
	ID       int64  `json:"id"`
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	IsActive bool   `json:"-"`
}

// QType is the question kind. Anything other than checkbox and date
// is stored and validated as text.
type QType string

const (
	QTypeText     QType = "text"
	QTypeCheckbox QType = "checkbox"
	QTypeDate     QType = "date"
)

type Question struct {
	ID        int64  `json:"id"`
	FormID    int64  `json:"-"`
	Section   string `json:"section,omitempty"`
	Text      string `json:"question_text"`
	QType     QType  `json:"qtype"`
	Required  bool   `json:"required"`
	SortOrder int    `json:"sort_order"`
	IsActive  bool   `json:"-"`
}

type Submission struct {
	ID          string     `json:"id"`
	FormID      int64      `json:"form_id"`
	FormSlug    string     `json:"form_slug,omitempty"`
	FormTitle   string     `json:"form_title,omitempty"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SubmittedAt *time.Time `json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	ReviewedBy  *int64     `json:"reviewed_by"`
}

// Value holds the three answer slots. At most one is set; all nil means "no answer".
type Value struct {
	Text *string `json:"value_text"`
	Bool *bool   `json:"value_bool"`
	Date *string `json:"value_date"`
}

func (v Value) IsEmpty() bool {
	return v.Text == nil && v.Bool == nil && v.Date == nil
}

type Answer struct {
	QuestionID int64 `json:"question_id"`
	Value
	UpdatedAt time.Time `json:"updated_at"`
}

// QA is one active question of a form joined with the answer recorded for it, if any.
type QA struct {
	QuestionID   int64  `json:"question_id"`
	Section      string `json:"section,omitempty"`
	QuestionText string `json:"question_text"`
	QType        QType  `json:"qtype"`
	Required     bool   `json:"required"`
	SortOrder    int    `json:"sort_order"`
	Value
	AnswerUpdatedAt *time.Time `json:"answer_updated_at"`
}

// AnswerInput is one entry of a patch batch. Value stays raw so that its
// JSON type can be checked against the question kind.
type AnswerInput struct {
	QuestionID int64           `json:"questionId"`
	Value      json.RawMessage `json:"value"`
}

type SubmissionFilter struct {
	Status   *Status
	Reviewed *bool
}

type User struct {
	ID       int64
	Email    string
	Role     string
	IsActive bool
}
