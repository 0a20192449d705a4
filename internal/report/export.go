package report

import (
	"errors"
	"log/slog"

	"github.com/pavelanni/reporter/internal/model"
)

// StudentReports holds all three reports of one student. When any report
// fails, Error is set and no report is included.
type StudentReports struct {
	Student    model.Student `json:"student"`
	Diagnostic *Diagnostic   `json:"diagnostic,omitempty"`
	Progress   *Progress     `json:"progress,omitempty"`
	Feedback   *Feedback     `json:"feedback,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// Export is the batch output of every student's reports.
type Export struct {
	Students []StudentReports `json:"students"`
	Failed   int              `json:"failed"`
	Skipped  int              `json:"skipped"`
}

// ExportAll builds every report for every student, in dataset order.
// Students without completed responses are skipped.
func (e *Engine) ExportAll() *Export {
	out := &Export{Students: []StudentReports{}}
	for _, s := range e.data.Students {
		sr, err := e.studentReports(s)
		if errors.Is(err, ErrNoCompletedResponses) {
			slog.Debug("skipping student without completed responses", "student", s.ID)
			out.Skipped++
			continue
		}
		if err != nil {
			slog.Warn("student reports failed", "student", s.ID, "error", err)
			out.Failed++
			sr = StudentReports{Student: s, Error: err.Error()}
		}
		out.Students = append(out.Students, sr)
	}
	return out
}

func (e *Engine) studentReports(s model.Student) (StudentReports, error) {
	d, err := e.Diagnostic(s.ID)
	if err != nil {
		return StudentReports{}, err
	}
	p, err := e.Progress(s.ID)
	if err != nil {
		return StudentReports{}, err
	}
	f, err := e.Feedback(s.ID)
	if err != nil {
		return StudentReports{}, err
	}
	return StudentReports{Student: s, Diagnostic: d, Progress: p, Feedback: f}, nil
}
