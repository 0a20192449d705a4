package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pavelanni/reporter/internal/model"
)

// Kind selects one of the three report shapes.
type Kind int

const (
	KindDiagnostic Kind = 1
	KindProgress   Kind = 2
	KindFeedback   Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindDiagnostic:
		return "diagnostic"
	case KindProgress:
		return "progress"
	case KindFeedback:
		return "feedback"
	default:
		return "unknown"
	}
}

// ParseKind accepts "1", "2", "3" or the report name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		k := Kind(n)
		if k >= KindDiagnostic && k <= KindFeedback {
			return k, nil
		}
		return 0, fmt.Errorf("%w: %d", ErrUnknownKind, n)
	}
	for _, k := range []Kind{KindDiagnostic, KindProgress, KindFeedback} {
		if s == k.String() {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Diagnostic summarizes the most recent completed attempt by strand.
type Diagnostic struct {
	Student        model.Student    `json:"student"`
	Assessment     model.Assessment `json:"assessment"`
	CompletedAt    time.Time        `json:"completedAt"`
	RawScore       int              `json:"rawScore"`
	ComputedScore  int              `json:"computedScore"`
	TotalQuestions int              `json:"totalQuestions"`
	Strands        []StrandResult   `json:"strands"`
}

// ScoreMismatch reports whether the stored raw score disagrees with the answers.
func (d *Diagnostic) ScoreMismatch() bool { return d.RawScore != d.ComputedScore }

// ProgressAttempt is one completed attempt inside a progress group.
type ProgressAttempt struct {
	ResponseID     string    `json:"responseId"`
	CompletedAt    time.Time `json:"completedAt"`
	RawScore       int       `json:"rawScore"`
	TotalQuestions int       `json:"totalQuestions"`
}

// ProgressGroup holds every attempt at one assessment, oldest first.
type ProgressGroup struct {
	Assessment model.Assessment  `json:"assessment"`
	Attempts   []ProgressAttempt `json:"attempts"`
	ScoreDelta int               `json:"scoreDelta"`
}

// Progress lists attempts grouped by assessment in order of first appearance.
type Progress struct {
	Student model.Student   `json:"student"`
	Groups  []ProgressGroup `json:"groups"`
}

// Feedback explains the wrong answers of the most recent completed attempt.
type Feedback struct {
	Student        model.Student    `json:"student"`
	Assessment     model.Assessment `json:"assessment"`
	CompletedAt    time.Time        `json:"completedAt"`
	RawScore       int              `json:"rawScore"`
	ComputedScore  int              `json:"computedScore"`
	TotalQuestions int              `json:"totalQuestions"`
	Items          []FeedbackItem   `json:"items"`
}

// ScoreMismatch reports whether the stored raw score disagrees with the answers.
func (f *Feedback) ScoreMismatch() bool { return f.RawScore != f.ComputedScore }

// Engine builds report data from immutable datasets. It holds no mutable
// state, so one Engine may serve concurrent callers.
type Engine struct {
	data   model.Datasets
	scorer *Scorer
	loc    *time.Location
}

// NewEngine creates an engine. A nil loc means UTC.
func NewEngine(data model.Datasets, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{data: data, scorer: NewScorer(data.Questions), loc: loc}
}

// Student looks up a student by id; the first match wins.
func (e *Engine) Student(id string) (model.Student, error) {
	for _, s := range e.data.Students {
		if s.ID == id {
			return s, nil
		}
	}
	return model.Student{}, fmt.Errorf("%w: %q", ErrStudentNotFound, id)
}

// Assessment looks up an assessment by id; the first match wins.
func (e *Engine) Assessment(id string) (model.Assessment, error) {
	for _, a := range e.data.Assessments {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Assessment{}, fmt.Errorf("%w: %q", ErrAssessmentNotFound, id)
}

func (e *Engine) resolver() *Resolver {
	return NewResolver(e.data.StudentResponses, e.loc)
}

// Generate builds the report of the given kind. The result is a *Diagnostic,
// *Progress or *Feedback.
func (e *Engine) Generate(studentID string, kind Kind) (any, error) {
	switch kind {
	case KindDiagnostic:
		return e.Diagnostic(studentID)
	case KindProgress:
		return e.Progress(studentID)
	case KindFeedback:
		return e.Feedback(studentID)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
}

// latest resolves the student, their last completed attempt and its assessment.
func (e *Engine) latest(studentID string) (model.Student, Attempt, model.Assessment, error) {
	student, err := e.Student(studentID)
	if err != nil {
		return model.Student{}, Attempt{}, model.Assessment{}, err
	}
	last, err := e.resolver().LastCompleted(studentID)
	if err != nil {
		return model.Student{}, Attempt{}, model.Assessment{}, fmt.Errorf("student %s: %w", studentID, err)
	}
	assessment, err := e.Assessment(last.Response.AssessmentID)
	if err != nil {
		return model.Student{}, Attempt{}, model.Assessment{}, fmt.Errorf("response %s: %w", last.Response.ID, err)
	}
	return student, last, assessment, nil
}

// Diagnostic builds the diagnostic report for the student's last completed attempt.
func (e *Engine) Diagnostic(studentID string) (*Diagnostic, error) {
	student, last, assessment, err := e.latest(studentID)
	if err != nil {
		return nil, err
	}
	strands, err := e.scorer.StrandBreakdown(last.Response)
	if err != nil {
		return nil, err
	}
	computed, err := e.scorer.ComputedScore(last.Response)
	if err != nil {
		return nil, err
	}
	return &Diagnostic{
		Student:        student,
		Assessment:     assessment,
		CompletedAt:    last.CompletedAt,
		RawScore:       last.Response.Results.RawScore,
		ComputedScore:  computed,
		TotalQuestions: len(last.Response.Responses),
		Strands:        strands,
	}, nil
}

// Progress builds the progress report over every completed attempt.
func (e *Engine) Progress(studentID string) (*Progress, error) {
	student, err := e.Student(studentID)
	if err != nil {
		return nil, err
	}
	attempts, err := e.resolver().CompletedResponses(studentID)
	if err != nil {
		return nil, fmt.Errorf("student %s: %w", studentID, err)
	}
	if len(attempts) == 0 {
		return nil, fmt.Errorf("student %s: %w", studentID, ErrNoCompletedResponses)
	}

	var groups []ProgressGroup
	pos := make(map[string]int)
	for _, at := range attempts {
		id := at.Response.AssessmentID
		i, ok := pos[id]
		if !ok {
			assessment, err := e.Assessment(id)
			if err != nil {
				return nil, fmt.Errorf("response %s: %w", at.Response.ID, err)
			}
			i = len(groups)
			pos[id] = i
			groups = append(groups, ProgressGroup{Assessment: assessment})
		}
		groups[i].Attempts = append(groups[i].Attempts, ProgressAttempt{
			ResponseID:     at.Response.ID,
			CompletedAt:    at.CompletedAt,
			RawScore:       at.Response.Results.RawScore,
			TotalQuestions: len(at.Response.Responses),
		})
	}

	for i := range groups {
		g := groups[i].Attempts
		groups[i].ScoreDelta = g[len(g)-1].RawScore - g[0].RawScore
	}

	return &Progress{Student: student, Groups: groups}, nil
}

// Feedback builds the feedback report for the student's last completed attempt.
func (e *Engine) Feedback(studentID string) (*Feedback, error) {
	student, last, assessment, err := e.latest(studentID)
	if err != nil {
		return nil, err
	}
	items, err := e.scorer.FeedbackItems(last.Response)
	if err != nil {
		return nil, err
	}
	computed, err := e.scorer.ComputedScore(last.Response)
	if err != nil {
		return nil, err
	}
	return &Feedback{
		Student:        student,
		Assessment:     assessment,
		CompletedAt:    last.CompletedAt,
		RawScore:       last.Response.Results.RawScore,
		ComputedScore:  computed,
		TotalQuestions: len(last.Response.Responses),
		Items:          items,
	}, nil
}
