package model

import (
	"encoding/json"
	"strings"
	"time"
)

// ResponseStatus is the lifecycle state of a respondent attempt
type ResponseStatus string

const (
	ResponseInProgress ResponseStatus = "in-progress"
	ResponseCompleted  ResponseStatus = "completed"
)

// AnswerValue is a tagged variant: either a single scalar value or a set of
// selected options. Exactly one side is meaningful; Multiple non-nil marks
// the set form even when empty, so its bson tag must not use omitempty or
// an empty set would come back from the store as the scalar form.
type AnswerValue struct {
	Single   string   `bson:"single,omitempty"`
	Multiple []string `bson:"multiple"`
}

// SingleValue wraps a scalar answer
func SingleValue(v string) AnswerValue {
	return AnswerValue{Single: v}
}

// MultiValue wraps a set of selected options
func MultiValue(vs ...string) AnswerValue {
	if vs == nil {
		vs = []string{}
	}
	return AnswerValue{Multiple: vs}
}

// IsEmpty reports whether the value counts as unanswered
func (v AnswerValue) IsEmpty() bool {
	if v.Multiple != nil {
		return len(v.Multiple) == 0
	}
	return strings.TrimSpace(v.Single) == ""
}

// Flatten returns the selected values as a slice, one element per selection
func (v AnswerValue) Flatten() []string {
	if v.Multiple != nil {
		return v.Multiple
	}
	if v.Single == "" {
		return nil
	}
	return []string{v.Single}
}

// MarshalJSON emits the wire form the clients use: a bare string for single
// values, an array for multi-value answers.
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.Multiple != nil {
		return json.Marshal(v.Multiple)
	}
	return json.Marshal(v.Single)
}

// UnmarshalJSON accepts either a string or an array of strings and maps it
// onto the variant. Anything else is rejected at the boundary.
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*v = AnswerValue{Single: single}
		return nil
	}
	var multiple []string
	if err := json.Unmarshal(data, &multiple); err == nil {
		if multiple == nil {
			multiple = []string{}
		}
		*v = AnswerValue{Multiple: multiple}
		return nil
	}
	return &ValidationError{Message: "answer value must be a string or an array of strings"}
}

// Answer binds a value to a question
type Answer struct {
	QuestionID string      `json:"questionId" bson:"questionId"`
	Value      AnswerValue `json:"value" bson:"value"`
}

// Response is one respondent attempt at a questionnaire. It is created
// in-progress on the first saved answer and finalized exactly once on submit,
// after which it is immutable.
type Response struct {
	ID              string         `json:"id" bson:"_id,omitempty"`
	SessionID       string         `json:"sessionId" bson:"sessionId"`
	QuestionnaireID string         `json:"questionnaireId" bson:"questionnaireId"`
	Answers         []Answer       `json:"answers" bson:"answers"`
	TimeSpentSec    int            `json:"timeSpent" bson:"timeSpentSec"`
	Status          ResponseStatus `json:"status" bson:"status"`
	StartedAt       time.Time      `json:"startedAt" bson:"startedAt"`
	CompletedAt     *time.Time     `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

// AnswerFor returns the answer recorded for a question, if any
func (r *Response) AnswerFor(questionID string) (AnswerValue, bool) {
	for _, a := range r.Answers {
		if a.QuestionID == questionID {
			return a.Value, true
		}
	}
	return AnswerValue{}, false
}
