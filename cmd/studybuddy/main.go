package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pavelanni/studybuddy/internal/advisor"
	"github.com/pavelanni/studybuddy/internal/console"
	"github.com/pavelanni/studybuddy/internal/handler"
	appI18n "github.com/pavelanni/studybuddy/internal/i18n"
	"github.com/pavelanni/studybuddy/internal/llm"
	"github.com/pavelanni/studybuddy/internal/llm/prompts"
	"github.com/pavelanni/studybuddy/internal/model"
	"github.com/pavelanni/studybuddy/internal/scoring"
	"github.com/pavelanni/studybuddy/internal/session"
)

const cleanupInterval = 10 * time.Minute

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "studybuddy",
		Short: "Student performance predictor and study assistant",
	}

	serve := serveCmd()
	root.AddCommand(serve, predictCmd(), askCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `studybuddy --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.StringP("lang", "l", "en", "UI language (en, ru)")
	f.String("base-path", "", "URL prefix for sub-path deployments (e.g. /buddy)")
	f.Bool("secure-cookies", true, "Set Secure flag on session cookies")
	f.Duration("session-ttl", session.DefaultTTL, "Idle time after which a session is discarded")
	addLLMFlags(f)
	addPredictorFlags(f)
	addLogFlags(f)
	return cmd
}

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict an exam score and print insights and a study plan",
		RunE:  runPredict,
	}
	f := cmd.Flags()
	f.BoolP("interactive", "i", false, "Fill in the profile with an interactive form")
	f.StringP("format", "f", "text", "Output format (text, json)")
	addProfileFlags(f)
	addPredictorFlags(f)
	addLogFlags(f)
	return cmd
}

func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the study assistant a question about your profile",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}
	f := cmd.Flags()
	f.Float64("score", 0, "Last predicted exam score to include in the prompt")
	addProfileFlags(f)
	addLLMFlags(f)
	addLogFlags(f)
	return cmd
}

func addLLMFlags(f *pflag.FlagSet) {
	f.String("llm-url", llm.DefaultBaseURL, "OpenAI-compatible API base URL")
	f.String("llm-key", "", "API bearer token (or set STUDYBUDDY_LLM_KEY)")
	f.String("llm-model", llm.DefaultModel, "Chat model ID")
}

func addPredictorFlags(f *pflag.FlagSet) {
	f.String("model-file", "", "Linear model coefficients JSON (built-in model if empty)")
	f.String("predictor-url", "", "Remote score predictor endpoint (overrides model-file)")
}

func addLogFlags(f *pflag.FlagSet) {
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func addProfileFlags(f *pflag.FlagSet) {
	def := model.DefaultProfile()
	f.String("gender", "", "Gender (male, female)")
	f.Float64("study-hours", def.StudyHours, "Study hours per day (0-12)")
	f.Int("attendance", def.Attendance, "Attendance percentage (0-100)")
	f.Int("mental-health", def.MentalHealth, "Mental health rating (1-10)")
	f.Float64("sleep-hours", def.SleepHours, "Sleep hours (0-12)")
	f.String("diet", "", "Diet quality (poor, average, good)")
	f.String("part-time-job", "", "Part-time job (yes, no)")
	f.String("parent-education", "", "Parental education (high-school, bachelor, master)")
	f.String("extracurricular", "", "Extracurricular participation (yes, no)")
	f.Float64("social-media-hours", def.SocialMediaHours, "Social media hours (0-8)")
}

func profileFromConfig(v *viper.Viper) model.StudentProfile {
	return model.StudentProfile{
		Gender:           model.Gender(strings.ToLower(v.GetString("gender"))),
		StudyHours:       v.GetFloat64("study-hours"),
		Attendance:       v.GetInt("attendance"),
		MentalHealth:     v.GetInt("mental-health"),
		SleepHours:       v.GetFloat64("sleep-hours"),
		Diet:             model.Diet(strings.ToLower(v.GetString("diet"))),
		PartTimeJob:      model.YesNo(strings.ToLower(v.GetString("part-time-job"))),
		ParentEducation:  model.Education(strings.ToLower(v.GetString("parent-education"))),
		Extracurricular:  model.YesNo(strings.ToLower(v.GetString("extracurricular"))),
		SocialMediaHours: v.GetFloat64("social-media-hours"),
	}
}

// chatProfileFromConfig keeps only the profile fields the user supplied, so
// the prompt defaults fill in the rest.
func chatProfileFromConfig(v *viper.Viper, p model.StudentProfile) prompts.PartialProfile {
	pp := prompts.FromStudentProfile(p, nil)
	if !v.IsSet("study-hours") {
		pp.StudyHours = nil
	}
	if !v.IsSet("sleep-hours") {
		pp.SleepHours = nil
	}
	if !v.IsSet("mental-health") {
		pp.MentalHealth = nil
	}
	if !v.IsSet("attendance") {
		pp.Attendance = nil
	}
	if !v.IsSet("social-media-hours") {
		pp.SocialMedia = nil
	}
	if !v.IsSet("diet") {
		pp.Diet = nil
	}
	return pp
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

	v.SetEnvPrefix("STUDYBUDDY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("studybuddy")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/studybuddy")
	v.AddConfigPath("/etc/studybuddy")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// newPredictor picks the remote predictor, a coefficients file or the
// built-in linear model, in that order.
func newPredictor(v *viper.Viper) (scoring.Predictor, error) {
	if url := v.GetString("predictor-url"); url != "" {
		slog.Info("using remote predictor", "url", url)
		return scoring.NewHTTPPredictor(url), nil
	}
	if path := v.GetString("model-file"); path != "" {
		m, err := scoring.LoadLinearModel(path)
		if err != nil {
			return nil, err
		}
		slog.Info("using linear model", "file", path, "name", m.Name)
		return m, nil
	}
	return scoring.DefaultLinearModel()
}

func newLLMClient(ctx context.Context, v *viper.Viper) (*llm.Client, error) {
	client, err := llm.New(v.GetString("llm-url"), v.GetString("llm-key"), v.GetString("llm-model"))
	if err != nil {
		return nil, fmt.Errorf("create LLM client: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		slog.Warn("LLM health check failed", "url", v.GetString("llm-url"), "error", err)
	} else {
		slog.Info("LLM endpoint OK", "url", v.GetString("llm-url"), "model", client.Model())
	}
	return client, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize i18n.
	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	predictor, err := newPredictor(v)
	if err != nil {
		return fmt.Errorf("create predictor: %w", err)
	}
	llmClient, err := newLLMClient(ctx, v)
	if err != nil {
		return err
	}

	// Normalize base path.
	basePath := strings.TrimRight(v.GetString("base-path"), "/")
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}

	appCfg := model.AppConfig{
		BasePath:      basePath,
		SecureCookies: v.GetBool("secure-cookies"),
		Lang:          lang,
	}

	sessions := session.NewManager(v.GetDuration("session-ttl"))
	go cleanupSessions(ctx, sessions)

	h, err := handler.New(sessions, advisor.New(predictor, nil), llmClient, appCfg)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))

	if basePath != "" {
		r.Route(basePath, func(sub chi.Router) {
			sub.Use(h.BasePathMiddleware)
			h.Routes(sub)
		})
		r.Get(basePath, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, basePath+"/", http.StatusMovedPermanently)
		})
	} else {
		r.Use(h.BasePathMiddleware)
		h.Routes(r)
	}

	addr := v.GetString("addr")
	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("starting server",
		"addr", addr,
		"model", llmClient.Model(),
		"llm_url", v.GetString("llm-url"),
		"lang", lang,
		"languages", appI18n.Languages(),
		"base_path", basePath,
		"session_ttl", v.GetDuration("session-ttl"),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func cleanupSessions(ctx context.Context, m *session.Manager) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Cleanup(); n > 0 {
				slog.Info("expired sessions removed", "count", n, "live", m.Len())
			}
		}
	}
}

func runPredict(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	profile := profileFromConfig(v)
	if v.GetBool("interactive") {
		if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			return errors.New("--interactive requires a terminal")
		}
		var err error
		profile, err = console.AskProfile(profile)
		if err != nil {
			return err
		}
	}
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	predictor, err := newPredictor(v)
	if err != nil {
		return fmt.Errorf("create predictor: %w", err)
	}
	a, err := advisor.New(predictor, nil).Assess(cmd.Context(), profile)
	if err != nil {
		return err
	}

	switch strings.ToLower(v.GetString("format")) {
	case "json":
		data, err := json.MarshalIndent(advisor.Export(profile, a, time.Now().UTC()), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	case "text", "":
		_, err = fmt.Fprint(cmd.OutOrStdout(), console.RenderAssessment(a))
		return err
	default:
		return fmt.Errorf("unknown format %q", v.GetString("format"))
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	profile := profileFromConfig(v)
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	var lastScore *float64
	if cmd.Flags().Changed("score") || v.IsSet("score") {
		s := scoring.Clamp(v.GetFloat64("score"))
		lastScore = &s
	}

	client, err := newLLMClient(cmd.Context(), v)
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")
	reply := client.Ask(cmd.Context(), question, chatProfileFromConfig(v, profile), lastScore)
	_, err = fmt.Fprint(cmd.OutOrStdout(), console.RenderReply(reply))
	return err
}
