package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pavelanni/reporter/internal/dataset"
	"github.com/pavelanni/reporter/internal/handler"
	appI18n "github.com/pavelanni/reporter/internal/i18n"
	"github.com/pavelanni/reporter/internal/llm"
	"github.com/pavelanni/reporter/internal/model"
	"github.com/pavelanni/reporter/internal/render"
	"github.com/pavelanni/reporter/internal/report"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "reporter",
		Short:        "Diagnostic, progress and feedback reports for student assessments",
		SilenceUsage: true,
	}

	generate := generateCmd()
	root.AddCommand(generate, serveCmd(), exportCmd())

	// Make "generate" the default when no subcommand is given.
	root.RunE = generate.RunE

	// Register generate flags on root so bare `reporter --student ...` still works.
	root.Flags().AddFlagSet(generate.Flags())

	return root
}

func addDataFlags(f *pflag.FlagSet) {
	f.String("data-dir", "data", "Directory holding students.json, assessments.json, questions.json and student-responses.json")
	f.String("timezone", "UTC", "IANA time zone the dataset timestamps are recorded in")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one report for one student",
		RunE:  runGenerate,
	}
	f := cmd.Flags()
	f.StringP("student", "s", "", "Student ID (prompted for when empty)")
	f.StringP("report", "r", "", "Report to generate: 1/diagnostic, 2/progress, 3/feedback (prompted for when empty)")
	f.StringP("format", "f", "text", "Output format (text, json)")
	f.Bool("narrate", false, "Add an LLM-written summary to feedback reports")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.Duration("llm-timeout", 30*time.Second, "Timeout for the narration request")
	addDataFlags(f)
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports as JSON over HTTP",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.StringSlice("cors-origins", []string{"http://localhost:3000"}, "Allowed CORS origins (repeatable)")
	addDataFlags(f)
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every report of every student as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addDataFlags(f)
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("REPORTER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("reporter")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/reporter")
	v.AddConfigPath("/etc/reporter")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// loadEngine reads the datasets and builds a report engine over them.
func loadEngine(v *viper.Viper) (*report.Engine, error) {
	loc, err := loadLocation(v.GetString("timezone"))
	if err != nil {
		return nil, err
	}
	dir := v.GetString("data-dir")
	data, err := dataset.NewLoader().Load(dataset.PathsIn(dir))
	if err != nil {
		return nil, fmt.Errorf("load datasets from %s: %w", dir, err)
	}
	slog.Info("loaded datasets", "dir", dir, "students", len(data.Students), "responses", len(data.StudentResponses))
	return report.NewEngine(data, loc), nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "UTC") {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return loc, nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	if err := appI18n.Init(appI18n.DefaultLang); err != nil {
		return fmt.Errorf("init messages: %w", err)
	}
	ctx := appI18n.WithLocalizer(cmd.Context(), appI18n.NewLocalizer(appI18n.DefaultLang))

	cfg := model.ReportConfig{
		DataDir:  v.GetString("data-dir"),
		Timezone: v.GetString("timezone"),
		Format:   v.GetString("format"),
		Narrate:  v.GetBool("narrate"),
	}
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	in := bufio.NewReader(cmd.InOrStdin())
	studentID := strings.TrimSpace(v.GetString("student"))
	if studentID == "" {
		if studentID, err = ask(cmd, in, appI18n.T(ctx, "PromptStudentID")); err != nil {
			return err
		}
	}
	kindInput := strings.TrimSpace(v.GetString("report"))
	if kindInput == "" {
		if kindInput, err = ask(cmd, in, appI18n.T(ctx, "PromptReportType")); err != nil {
			return err
		}
	}

	engine, err := loadEngine(v)
	if err != nil {
		return err
	}

	if _, err := engine.Student(studentID); err != nil {
		return err
	}
	kind, err := report.ParseKind(kindInput)
	if err != nil {
		return fmt.Errorf("%s (%w)", appI18n.T(ctx, "InvalidReportType"), err)
	}

	rep, err := engine.Generate(studentID, kind)
	if err != nil {
		return fmt.Errorf("generate %s report: %w", kind, err)
	}
	warnScoreMismatch(studentID, rep)

	out := render.Output{Report: rep}
	if f, ok := rep.(*report.Feedback); ok && cfg.Narrate {
		out.Summary = narrate(ctx, v, f)
	}

	return render.Write(ctx, cmd.OutOrStdout(), format, out)
}

// ask prints a prompt and reads one line of input.
func ask(cmd *cobra.Command, in *bufio.Reader, label string) (string, error) {
	fmt.Fprintf(cmd.ErrOrStderr(), " %s:\n > ", label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func warnScoreMismatch(studentID string, rep any) {
	var raw, computed int
	switch r := rep.(type) {
	case *report.Diagnostic:
		if !r.ScoreMismatch() {
			return
		}
		raw, computed = r.RawScore, r.ComputedScore
	case *report.Feedback:
		if !r.ScoreMismatch() {
			return
		}
		raw, computed = r.RawScore, r.ComputedScore
	default:
		return
	}
	slog.Warn("stored raw score differs from computed score",
		"student", studentID, "raw_score", raw, "computed_score", computed)
}

// narrate asks the LLM for a summary. Failures are logged and yield no summary.
func narrate(ctx context.Context, v *viper.Viper, f *report.Feedback) string {
	ctx, cancel := context.WithTimeout(ctx, v.GetDuration("llm-timeout"))
	defer cancel()

	client := llm.New(v.GetString("llm-url"), v.GetString("llm-key"), v.GetString("llm-model"))
	summary, err := client.SummarizeFeedback(ctx, f)
	if err != nil {
		slog.Warn("narration failed, printing report without summary",
			"url", v.GetString("llm-url"), "model", v.GetString("llm-model"), "error", err)
		return ""
	}
	return summary
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	if err := appI18n.Init(appI18n.DefaultLang); err != nil {
		return fmt.Errorf("init messages: %w", err)
	}
	engine, err := loadEngine(v)
	if err != nil {
		return err
	}

	h := handler.New(engine)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: v.GetStringSlice("cors-origins"),
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Accept-Language"},
		MaxAge:         300,
	}))
	r.Use(appI18n.Middleware)
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"data_dir", v.GetString("data-dir"),
		"timezone", v.GetString("timezone"),
		"cors_origins", v.GetStringSlice("cors-origins"),
	)
	return http.ListenAndServe(addr, r)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	engine, err := loadEngine(v)
	if err != nil {
		return err
	}

	export := engine.ExportAll()

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = cmd.OutOrStdout()
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := render.JSON(w, render.Output{Report: export}); err != nil {
		return err
	}
	slog.Info("exported reports", "students", len(export.Students), "output", outPath)
	return nil
}
