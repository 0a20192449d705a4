package model

import (
	"encoding/json"
	"fmt"
)

// Student is a learner record from students.json.
type Student struct {
	ID        string `json:"id" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"`
	YearLevel int    `json:"yearLevel"`
}

// FullName returns "First Last" with no trailing space when the last name is empty.
func (s Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// AssessmentQuestion places a question within an assessment.
type AssessmentQuestion struct {
	QuestionID string `json:"questionId"`
	Position   int    `json:"position"`
}

// Assessment is an assessment definition from assessments.json.
type Assessment struct {
	ID        string               `json:"id" validate:"required"`
	Name      string               `json:"name" validate:"required"`
	Questions []AssessmentQuestion `json:"questions,omitempty"`
}

// OptionValue is an option's scoring value. Source files carry it either as a
// JSON string or as a number, so both decode into the same string form.
type OptionValue string

// UnmarshalJSON accepts a string, a number or null.
func (v *OptionValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = OptionValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("option value must be a string or number: %s", data)
	}
	*v = OptionValue(n.String())
	return nil
}

// Option is one selectable choice of a question.
type Option struct {
	ID    string      `json:"id" validate:"required"`
	Label string      `json:"label"`
	Value OptionValue `json:"value"`
}

// QuestionConfig holds the answer key, options and hint of a question.
type QuestionConfig struct {
	Key     string   `json:"key" validate:"required"`
	Options []Option `json:"options" validate:"dive"`
	Hint    string   `json:"hint"`
}

// Option returns a copy of the option with the given id, or nil.
func (c QuestionConfig) Option(id string) *Option {
	for _, o := range c.Options {
		if o.ID == id {
			return &o
		}
	}
	return nil
}

// Question is a question definition from questions.json.
type Question struct {
	ID     string         `json:"id" validate:"required"`
	Stem   string         `json:"stem"`
	Type   string         `json:"type,omitempty"`
	Strand string         `json:"strand" validate:"required"`
	Config QuestionConfig `json:"config"`
}

// StudentRef identifies the student a response belongs to.
type StudentRef struct {
	ID        string `json:"id" validate:"required"`
	YearLevel int    `json:"yearLevel,omitempty"`
}

// Answer is the option a student picked for one question.
type Answer struct {
	QuestionID string `json:"questionId" validate:"required"`
	Response   string `json:"response"`
}

// Results holds the stored outcome of a response.
type Results struct {
	RawScore int `json:"rawScore"`
}

// StudentResponse is one attempt of a student at an assessment.
type StudentResponse struct {
	ID           string     `json:"id" validate:"required"`
	AssessmentID string     `json:"assessmentId" validate:"required"`
	Assigned     string     `json:"assigned,omitempty"`
	Started      string     `json:"started,omitempty"`
	Completed    string     `json:"completed,omitempty"`
	Student      StudentRef `json:"student"`
	Responses    []Answer   `json:"responses" validate:"dive"`
	Results      Results    `json:"results"`
}

// IsCompleted reports whether the response carries a completion timestamp.
func (r StudentResponse) IsCompleted() bool {
	return r.Completed != ""
}

// Datasets bundles the four read-only collections a report is built from.
// Questions are indexed by id.
type Datasets struct {
	Students         []Student
	Assessments      []Assessment
	Questions        map[string]Question
	StudentResponses []StudentResponse
}

// IndexQuestions builds the id -> question index. Later duplicates replace earlier ones.
func IndexQuestions(qs []Question) map[string]Question {
	idx := make(map[string]Question, len(qs))
	for _, q := range qs {
		idx[q.ID] = q
	}
	return idx
}

// ReportConfig holds runtime report parameters set via CLI flags.
type ReportConfig struct {
	DataDir  string
	Timezone string // IANA name; empty means UTC
	Format   string // text or json
	Narrate  bool   // ask the LLM for a feedback summary
}
