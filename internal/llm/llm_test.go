package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pavelanni/reporter/internal/model"
	"github.com/pavelanni/reporter/internal/report"
)

func testFeedback() *report.Feedback {
	return &report.Feedback{
		Student:        model.Student{ID: "student1", FirstName: "Tony", LastName: "Stark"},
		Assessment:     model.Assessment{ID: "assessment1", Name: "Numeracy"},
		RawScore:       15,
		TotalQuestions: 16,
		Items: []report.FeedbackItem{{
			QuestionID: "numeracy1",
			Question:   "What is the median of 5, 21, 7, 18, 9?",
			Strand:     "number and algebra",
			Correct:    &model.Option{ID: "option2", Label: "B", Value: "9"},
			Incorrect:  &model.Option{ID: "option1", Label: "A", Value: "7"},
			Hint:       "Arrange the numbers in ascending order first.",
		}},
	}
}

func TestBuildFeedbackPrompt(t *testing.T) {
	prompt := buildFeedbackPrompt(testFeedback())
	for _, want := range []string{
		"STUDENT: Tony",
		"ASSESSMENT: Numeracy",
		"SCORE: 15 out of 16",
		"1. What is the median of 5, 21, 7, 18, 9?",
		"topic: Number And Algebra",
		"chosen: 7",
		"correct: 9",
		"hint: Arrange the numbers",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt should contain %q\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "Stark") {
		t.Error("prompt should not contain the student's last name")
	}
}

func TestBuildFeedbackPromptAllCorrect(t *testing.T) {
	f := testFeedback()
	f.Items = nil
	prompt := buildFeedbackPrompt(f)
	if !strings.Contains(prompt, "answered every question correctly") {
		t.Error("prompt should say every answer was correct")
	}
	if strings.Contains(prompt, "WRONG ANSWERS") {
		t.Error("prompt should not list wrong answers")
	}
}

func TestBuildFeedbackPromptMissingOptions(t *testing.T) {
	f := testFeedback()
	f.Items[0].Correct = nil
	f.Items[0].Incorrect = nil
	prompt := buildFeedbackPrompt(f)
	if strings.Contains(prompt, "chosen:") || strings.Contains(prompt, "correct:") {
		t.Errorf("prompt should omit unknown options\n%s", prompt)
	}
}

func TestSummarizeFeedback(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/chat/completions":
			var req struct {
				Model string `json:"model"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			gotModel = req.Model
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  Great work, Tony. Practise medians.  "},"finish_reason":"stop"}]}`))
		case "/v1/models/test-model":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"test-model","object":"model"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/v1", "key", "test-model")
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	got, err := c.SummarizeFeedback(context.Background(), testFeedback())
	if err != nil {
		t.Fatalf("SummarizeFeedback: %v", err)
	}
	if got != "Great work, Tony. Practise medians." {
		t.Errorf("SummarizeFeedback() = %q", got)
	}
	if gotModel != "test-model" {
		t.Errorf("request model = %q, want test-model", gotModel)
	}
}

func TestSummarizeFeedbackNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL+"/v1", "key", "m").SummarizeFeedback(context.Background(), testFeedback())
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Errorf("expected no choices error, got %v", err)
	}
}
