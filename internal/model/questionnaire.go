package model

import "time"

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionTypeText           QuestionType = "text"            // Free text input
	QuestionTypeSingleChoice   QuestionType = "single_choice"   // Pick one option
	QuestionTypeMultipleChoice QuestionType = "multiple_choice" // Pick any number of options
	QuestionTypeImage          QuestionType = "image"           // Respondent uploads an image
)

// Valid reports whether t is a known question type
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeText, QuestionTypeSingleChoice, QuestionTypeMultipleChoice, QuestionTypeImage:
		return true
	}
	return false
}

// IsChoice reports whether t carries a list of options
func (t QuestionType) IsChoice() bool {
	return t == QuestionTypeSingleChoice || t == QuestionTypeMultipleChoice
}

// Question is one entry in a questionnaire. The ID is assigned client-side
// at creation and stays stable across reorders and edits.
type Question struct {
	ID       string       `json:"id" bson:"id"`
	Type     QuestionType `json:"type" bson:"type"`
	Text     string       `json:"text" bson:"text"`
	Options  []string     `json:"options,omitempty" bson:"options,omitempty"`   // Choice types only
	ImageURL string       `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"` // Optional illustration
}

// Questionnaire is an authored, ordered set of questions with a running
// completion counter. Questions are embedded in the document; responses live
// in their own collection and reference the questionnaire by id.
type Questionnaire struct {
	ID               string     `json:"id" bson:"_id,omitempty"`
	Name             string     `json:"name" bson:"name"`
	Description      string     `json:"description" bson:"description"`
	Questions        []Question `json:"questions" bson:"questions"`
	TotalCompletions int64      `json:"totalCompletions" bson:"totalCompletions"`
	CreatedAt        time.Time  `json:"createdAt" bson:"createdAt"`
}

// QuestionByID returns the question with the given id, if present
func (q *Questionnaire) QuestionByID(id string) (*Question, bool) {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return &q.Questions[i], true
		}
	}
	return nil, false
}
