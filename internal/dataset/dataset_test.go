package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pavelanni/reporter/internal/model"
)

func TestLoad(t *testing.T) {
	data, err := NewLoader().Load(PathsIn("testdata"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(data.Students) != 3 {
		t.Errorf("expected 3 students, got %d", len(data.Students))
	}
	if len(data.Assessments) != 1 {
		t.Errorf("expected 1 assessment, got %d", len(data.Assessments))
	}
	if len(data.Questions) != 3 {
		t.Errorf("expected 3 indexed questions, got %d", len(data.Questions))
	}
	if len(data.StudentResponses) != 3 {
		t.Errorf("expected 3 responses, got %d", len(data.StudentResponses))
	}

	q, ok := data.Questions["numeracy1"]
	if !ok {
		t.Fatal("numeracy1 not indexed")
	}
	if q.Config.Key != "option2" {
		t.Errorf("expected key option2, got %q", q.Config.Key)
	}
	if q.Strand != "Number and Algebra" {
		t.Errorf("unexpected strand %q", q.Strand)
	}

	// Numeric option values decode as strings.
	q2 := data.Questions["numeracy2"]
	if got := q2.Config.Option("option2"); got == nil || got.Value != model.OptionValue("2") {
		t.Errorf("expected numeric value decoded as \"2\", got %+v", got)
	}

	incomplete := data.StudentResponses[2]
	if incomplete.IsCompleted() {
		t.Errorf("expected response without completed to be incomplete")
	}
}

func TestLoadMissingFile(t *testing.T) {
	p := PathsIn("testdata")
	p.Questions = filepath.Join(t.TempDir(), "nope.json")
	_, err := NewLoader().Load(p)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{AssessmentsFile, QuestionsFile, StudentResponsesFile} {
		copyFile(t, filepath.Join("testdata", name), filepath.Join(dir, name))
	}
	if err := os.WriteFile(filepath.Join(dir, StudentsFile), []byte(`{"id": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewLoader().Load(PathsIn(dir))
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadValidation(t *testing.T) {
	_, err := NewLoader().Load(PathsIn(filepath.Join("testdata", "invalid")))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ve ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
	}
	if len(ve) != 2 {
		t.Fatalf("expected 2 validation errors, got %d: %v", len(ve), ve)
	}
	if ve[0].Index != 1 || !strings.HasSuffix(ve[0].Field, "id") || ve[0].Rule != "required" {
		t.Errorf("unexpected first error: %+v", ve[0])
	}
	if ve[1].Index != 2 || !strings.HasSuffix(ve[1].Field, "firstName") {
		t.Errorf("unexpected second error: %+v", ve[1])
	}
	if !strings.Contains(err.Error(), "and 1 more") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestDecodeNestedValidation(t *testing.T) {
	var responses []model.StudentResponse
	raw := []byte(`[{"id": "r1", "assessmentId": "a1", "student": {"id": ""},
		"responses": [{"questionId": "", "response": "option1"}]}]`)
	err := NewLoader().decode("student-responses.json", raw, &responses)
	var ve ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(ve) != 2 {
		t.Errorf("expected 2 errors (student.id, questionId), got %d: %v", len(ve), ve)
	}
}

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read %s: %v", src, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", dst, err)
	}
}
