// Package render turns report structs into the text or JSON a reader sees.
package render

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pavelanni/reporter/internal/i18n"
	"github.com/pavelanni/reporter/internal/model"
	"github.com/pavelanni/reporter/internal/report"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// Output is what gets rendered: the report plus an optional narrated summary.
type Output struct {
	Report  any    `json:"report"`
	Summary string `json:"summary,omitempty"`
}

// Write renders out in the given format.
func Write(ctx context.Context, w io.Writer, f Format, out Output) error {
	if f == FormatJSON {
		return JSON(w, out)
	}
	return Text(ctx, w, out)
}

// JSON writes out as indented JSON followed by a newline.
func JSON(w io.Writer, out Output) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// Text writes the human-readable form of out.Report.
func Text(ctx context.Context, w io.Writer, out Output) error {
	p := &printer{ctx: ctx, w: w}
	switch r := out.Report.(type) {
	case *report.Diagnostic:
		p.diagnostic(r)
	case *report.Progress:
		p.progress(r)
	case *report.Feedback:
		p.feedback(r)
	default:
		return fmt.Errorf("render: unsupported report type %T", out.Report)
	}
	if out.Summary != "" {
		p.line("")
		p.msg("Summary", map[string]any{"Text": out.Summary})
	}
	return p.err
}

// FormatDateTime formats t like "16th December 2021 10:46 AM".
func FormatDateTime(t time.Time) string {
	return ordinal(t.Day()) + " " + t.Format("January 2006 03:04 PM")
}

// FormatDate formats t like "16th December 2021".
func FormatDate(t time.Time) string {
	return ordinal(t.Day()) + " " + t.Format("January 2006")
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%02d%s", n, suffix)
}

// TitleStrand capitalizes every word of a strand name.
func TitleStrand(s string) string {
	return cases.Title(language.English).String(s)
}

type printer struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func (p *printer) msg(id string, data map[string]any) {
	p.line(i18n.Td(p.ctx, id, data))
}

func (p *printer) header(s model.Student, a model.Assessment, at time.Time, score, total int, scoreMsg string) {
	p.msg("RecentlyCompleted", map[string]any{
		"Name":       s.FullName(),
		"Assessment": a.Name,
		"Date":       FormatDateTime(at),
	})
	p.msg(scoreMsg, map[string]any{
		"FirstName": s.FirstName,
		"Score":     score,
		"Total":     total,
	})
	p.line("")
}

func (p *printer) diagnostic(d *report.Diagnostic) {
	p.header(d.Student, d.Assessment, d.CompletedAt, d.RawScore, d.TotalQuestions, "DiagnosticScore")
	for _, s := range d.Strands {
		p.msg("StrandLine", map[string]any{
			"Strand":  TitleStrand(s.Strand),
			"Correct": s.Correct,
			"Total":   s.Total,
		})
	}
}

func (p *printer) progress(r *report.Progress) {
	name := r.Student.FullName()
	for i, g := range r.Groups {
		if i > 0 {
			p.line("")
		}
		p.line(i18n.Tp(p.ctx, "ProgressIntro", len(g.Attempts), map[string]any{
			"Name":       name,
			"Assessment": g.Assessment.Name,
		}))
		p.line("")
		for _, a := range g.Attempts {
			p.msg("ProgressAttempt", map[string]any{
				"Date":  FormatDate(a.CompletedAt),
				"Score": a.RawScore,
				"Total": a.TotalQuestions,
			})
		}
		p.line("")
		id, delta := "ProgressMore", g.ScoreDelta
		if delta < 0 {
			id, delta = "ProgressFewer", -delta
		}
		p.msg(id, map[string]any{"Name": name, "Delta": delta})
	}
}

func (p *printer) feedback(f *report.Feedback) {
	p.header(f.Student, f.Assessment, f.CompletedAt, f.RawScore, f.TotalQuestions, "FeedbackScore")
	if len(f.Items) == 0 {
		p.msg("FeedbackNone", nil)
		return
	}
	for _, it := range f.Items {
		p.msg("FeedbackQuestion", map[string]any{"Stem": it.Question})
		p.msg("FeedbackYourAnswer", p.optionData(it.Incorrect))
		p.msg("FeedbackRightAnswer", p.optionData(it.Correct))
		p.msg("FeedbackHint", map[string]any{"Hint": it.Hint})
		p.line("")
	}
}

func (p *printer) optionData(o *model.Option) map[string]any {
	if o == nil {
		unknown := i18n.T(p.ctx, "FeedbackUnknownOption")
		return map[string]any{"Label": unknown, "Value": "-"}
	}
	return map[string]any{"Label": o.Label, "Value": string(o.Value)}
}
