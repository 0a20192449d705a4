package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/reporter/internal/render"
	"github.com/pavelanni/reporter/internal/report"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	engine *report.Engine
}

// New creates a new Handler.
func New(e *report.Engine) *Handler {
	return &Handler{engine: e}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Get("/students/{studentID}", h.handleStudent)
	r.Get("/students/{studentID}/reports/{kind}", h.handleReport)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleStudent(w http.ResponseWriter, r *http.Request) {
	student, err := h.engine.Student(chi.URLParam(r, "studentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	kind, err := report.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	format := render.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		if format, err = render.ParseFormat(q); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	studentID := chi.URLParam(r, "studentID")
	rep, err := h.engine.Generate(studentID, kind)
	if err != nil {
		slog.Info("report failed", "student", studentID, "kind", kind, "error", err)
		writeError(w, err)
		return
	}

	if format == render.FormatJSON {
		writeJSON(w, http.StatusOK, rep)
		return
	}

	var buf bytes.Buffer
	if err := render.Text(r.Context(), &buf, render.Output{Report: rep}); err != nil {
		slog.Error("render error", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, report.ErrUnknownKind):
		return http.StatusBadRequest
	case errors.Is(err, report.ErrStudentNotFound),
		errors.Is(err, report.ErrNoCompletedResponses):
		return http.StatusNotFound
	case errors.Is(err, report.ErrAssessmentNotFound),
		errors.Is(err, report.ErrQuestionNotFound),
		errors.Is(err, report.ErrMalformedTimestamp):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
