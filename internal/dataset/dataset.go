// Package dataset loads the four JSON collections a report is built from and
// validates their required fields so the report engine never sees a record
// with a missing key.
package dataset

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pavelanni/reporter/internal/model"
)

// Default file names inside the data directory.
const (
	StudentsFile         = "students.json"
	AssessmentsFile      = "assessments.json"
	QuestionsFile        = "questions.json"
	StudentResponsesFile = "student-responses.json"
)

// Paths names the four input files.
type Paths struct {
	Students         string
	Assessments      string
	Questions        string
	StudentResponses string
}

// PathsIn returns the default file paths under dir.
func PathsIn(dir string) Paths {
	return Paths{
		Students:         filepath.Join(dir, StudentsFile),
		Assessments:      filepath.Join(dir, AssessmentsFile),
		Questions:        filepath.Join(dir, QuestionsFile),
		StudentResponses: filepath.Join(dir, StudentResponsesFile),
	}
}

// Loader reads and validates datasets.
type Loader struct {
	validate *validator.Validate
}

// NewLoader creates a loader whose validation messages use JSON field names.
func NewLoader() *Loader {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Loader{validate: v}
}

// Load reads all four files and returns the validated datasets with questions
// indexed by id.
func (l *Loader) Load(p Paths) (model.Datasets, error) {
	var (
		students    []model.Student
		assessments []model.Assessment
		questions   []model.Question
		responses   []model.StudentResponse
	)
	if err := l.readFile(p.Students, &students); err != nil {
		return model.Datasets{}, err
	}
	if err := l.readFile(p.Assessments, &assessments); err != nil {
		return model.Datasets{}, err
	}
	if err := l.readFile(p.Questions, &questions); err != nil {
		return model.Datasets{}, err
	}
	if err := l.readFile(p.StudentResponses, &responses); err != nil {
		return model.Datasets{}, err
	}

	data := model.Datasets{
		Students:         students,
		Assessments:      assessments,
		Questions:        model.IndexQuestions(questions),
		StudentResponses: responses,
	}
	slog.Debug("loaded datasets",
		"students", len(students),
		"assessments", len(assessments),
		"questions", len(questions),
		"responses", len(responses),
	)
	return data, nil
}

// readFile decodes a JSON array from path into dst and validates each element.
func (l *Loader) readFile(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return l.decode(path, data, dst)
}

func (l *Loader) decode(name string, data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	items := reflect.ValueOf(dst).Elem()
	var errs ValidationErrors
	for i := 0; i < items.Len(); i++ {
		if err := l.validate.Struct(items.Index(i).Interface()); err != nil {
			errs = append(errs, toValidationErrors(name, i, err)...)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
