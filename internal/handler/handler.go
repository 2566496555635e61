package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pavelanni/studybuddy/internal/advisor"
	"github.com/pavelanni/studybuddy/internal/handler/views"
	appI18n "github.com/pavelanni/studybuddy/internal/i18n"
	"github.com/pavelanni/studybuddy/internal/llm"
	"github.com/pavelanni/studybuddy/internal/llm/prompts"
	"github.com/pavelanni/studybuddy/internal/model"
	"github.com/pavelanni/studybuddy/internal/session"
)

// Assessor scores a student profile.
type Assessor interface {
	Assess(ctx context.Context, p model.StudentProfile) (advisor.Assessment, error)
}

// ChatClient answers a study question in the context of a profile.
type ChatClient interface {
	Ask(ctx context.Context, question string, profile prompts.PartialProfile, lastScore *float64) llm.Reply
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	sessions *session.Manager
	advisor  Assessor
	chat     ChatClient
	config   model.AppConfig
}

// New creates a new Handler.
func New(sm *session.Manager, a Assessor, c ChatClient, cfg model.AppConfig) (*Handler, error) {
	if sm == nil || a == nil || c == nil {
		return nil, errors.New("session manager, assessor and chat client are required")
	}
	return &Handler{sessions: sm, advisor: a, chat: c, config: cfg}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.csrfMiddleware)
		r.Use(h.sessionMiddleware)

		r.Get("/", h.handleIndex)
		r.Post("/predict", h.handlePredict)
		r.Post("/profile", h.handleSaveProfile)
		r.Post("/task", h.handleSaveTask)
		r.Post("/chat", h.handleChat)
		r.Get("/chat/export", h.handleExportChat)
		r.Post("/session/end", h.handleEndSession)
	})
}

// BasePathMiddleware stores the configured base path in the request context.
func (h *Handler) BasePathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := model.ContextWithBasePath(r.Context(), h.config.BasePath)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// path prefixes an absolute application path with the base path.
func (h *Handler) path(p string) string {
	return h.config.BasePath + p
}

func (h *Handler) cookiePath() string {
	if h.config.BasePath != "" {
		return h.config.BasePath + "/"
	}
	return "/"
}

func (h *Handler) pageData(r *http.Request, tab string) views.PageData {
	snap := sessionFromContext(r.Context()).Snapshot()
	return views.PageData{
		Tab:        tab,
		BasePath:   h.config.BasePath,
		CSRFToken:  model.CSRFTokenFromContext(r.Context()),
		Profile:    snap.Profile,
		DailyTask:  snap.DailyTask,
		Score:      snap.Score,
		Transcript: snap.Transcript,
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data views.PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := views.IndexPage(data).Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

func (h *Handler) redirectToTab(w http.ResponseWriter, r *http.Request, tab string) {
	target := h.path("/")
	if tab == views.TabChat {
		target += "?tab=" + views.TabChat
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, h.pageData(r, r.URL.Query().Get("tab")))
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	profile, err := parseProfile(r)
	if err != nil {
		data := h.pageData(r, views.TabPredict)
		data.Error = appI18n.Td(r.Context(), "InvalidProfile", map[string]any{"Error": err.Error()})
		h.render(w, r, http.StatusUnprocessableEntity, data)
		return
	}
	sess.SetProfile(profile)

	a, err := h.advisor.Assess(r.Context(), profile)
	if err != nil {
		slog.Error("prediction failed", "session", sess.ID, "error", err)
		data := h.pageData(r, views.TabPredict)
		data.Error = appI18n.Td(r.Context(), "PredictionFailed", map[string]any{"Error": err.Error()})
		h.render(w, r, http.StatusBadGateway, data)
		return
	}
	sess.RecordPrediction(a.Score)
	slog.Info("prediction", "session", sess.ID, "score", a.Score, "issues", len(a.Report))

	data := h.pageData(r, views.TabPredict)
	data.Assessment = &a
	h.render(w, r, http.StatusOK, data)
}

func (h *Handler) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := parseProfile(r)
	if err != nil {
		data := h.pageData(r, r.FormValue("tab"))
		data.Error = appI18n.Td(r.Context(), "InvalidProfile", map[string]any{"Error": err.Error()})
		h.render(w, r, http.StatusUnprocessableEntity, data)
		return
	}
	sessionFromContext(r.Context()).SetProfile(profile)
	h.redirectToTab(w, r, r.FormValue("tab"))
}

func (h *Handler) handleSaveTask(w http.ResponseWriter, r *http.Request) {
	sessionFromContext(r.Context()).SetDailyTask(r.FormValue("task"))
	h.redirectToTab(w, r, r.FormValue("tab"))
}

func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	h.sessions.Delete(sess.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     h.cookiePath(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.SecureCookies,
	})
	slog.Info("session ended", "session", sess.ID)
	http.Redirect(w, r, h.path("/"), http.StatusSeeOther)
}

// parseProfile reads the profile form. Missing numeric fields fall back to
// the form defaults; present ones must parse and lie within range.
func parseProfile(r *http.Request) (model.StudentProfile, error) {
	def := model.DefaultProfile()
	var errs []error

	parseFloat := func(name string, fallback float64) float64 {
		s := strings.TrimSpace(r.FormValue(name))
		if s == "" {
			return fallback
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid number %q", name, s))
			return fallback
		}
		return v
	}
	parseInt := func(name string, fallback int) int {
		s := strings.TrimSpace(r.FormValue(name))
		if s == "" {
			return fallback
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid integer %q", name, s))
			return fallback
		}
		return v
	}

	p := model.StudentProfile{
		Gender:           model.Gender(r.FormValue("gender")),
		StudyHours:       parseFloat("study_hours", def.StudyHours),
		Attendance:       parseInt("attendance", def.Attendance),
		MentalHealth:     parseInt("mental_health", def.MentalHealth),
		SleepHours:       parseFloat("sleep_hours", def.SleepHours),
		Diet:             model.Diet(r.FormValue("diet")),
		PartTimeJob:      model.YesNo(r.FormValue("part_time_job")),
		ParentEducation:  model.Education(r.FormValue("parent_education")),
		Extracurricular:  model.YesNo(r.FormValue("extracurricular")),
		SocialMediaHours: parseFloat("social_media_hours", def.SocialMediaHours),
	}
	if err := errors.Join(errs...); err != nil {
		return p, err
	}
	return p, p.Validate()
}
