package prompts

import (
	"bytes"
	_ "embed"
	"math"
	"strconv"
	"strings"
	"sync"
	"text/template"
	"unicode/utf8"

	"github.com/pavelanni/studybuddy/internal/model"
)

//go:embed advice.tmpl
var adviceSource string

var (
	loadOnce       sync.Once
	loadErr        error
	adviceTemplate *template.Template
)

// maxQuestionRunes bounds the user question embedded in the prompt.
const maxQuestionRunes = 4000

// PartialProfile is the profile as known to the chat surface. Nil fields
// fall back to Defaults.
type PartialProfile struct {
	StudyHours      *float64
	SleepHours      *float64
	MentalHealth    *float64
	Attendance      *float64
	Diet            *string
	SocialMedia     *float64
	PredictionScore *float64
}

// Defaults is merged under every PartialProfile.
var Defaults = struct {
	StudyHours, SleepHours, MentalHealth, Attendance, SocialMedia, PredictionScore float64
	Diet                                                                          string
}{
	StudyHours:      3,
	SleepHours:      7,
	MentalHealth:    7,
	Attendance:      80,
	Diet:            "Average",
	SocialMedia:     2,
	PredictionScore: 50,
}

// AdviceData holds template data for the study advice prompt.
type AdviceData struct {
	StudyHours     string
	SleepHours     string
	MentalHealth   string
	Attendance     string
	Diet           string
	SocialMedia    string
	PredictedScore string
	Question       string
}

// FromStudentProfile converts a full form profile into the chat profile.
// An unset diet is left absent so that the default applies.
func FromStudentProfile(p model.StudentProfile, score *float64) PartialProfile {
	pp := PartialProfile{
		StudyHours:      ptr(p.StudyHours),
		SleepHours:      ptr(p.SleepHours),
		MentalHealth:    ptr(float64(p.MentalHealth)),
		Attendance:      ptr(float64(p.Attendance)),
		SocialMedia:     ptr(p.SocialMediaHours),
		PredictionScore: score,
	}
	if p.Diet != model.DietUnset {
		d := string(p.Diet)
		d = strings.ToUpper(d[:1]) + d[1:]
		pp.Diet = &d
	}
	return pp
}

// Merge overlays the partial profile on Defaults. Each present field
// replaces its default as a whole.
func Merge(pp PartialProfile, question string) AdviceData {
	return AdviceData{
		StudyHours:     formatNumber(orDefault(pp.StudyHours, Defaults.StudyHours)),
		SleepHours:     formatNumber(orDefault(pp.SleepHours, Defaults.SleepHours)),
		MentalHealth:   formatNumber(orDefault(pp.MentalHealth, Defaults.MentalHealth)),
		Attendance:     formatNumber(orDefault(pp.Attendance, Defaults.Attendance)),
		Diet:           orDefault(pp.Diet, Defaults.Diet),
		SocialMedia:    formatNumber(orDefault(pp.SocialMedia, Defaults.SocialMedia)),
		PredictedScore: formatNumber(orDefault(pp.PredictionScore, Defaults.PredictionScore)),
		Question:       sanitizeQuestion(question),
	}
}

// Load parses the embedded prompt template once.
func Load() error {
	loadOnce.Do(func() {
		adviceTemplate, loadErr = template.New("advice").Parse(adviceSource)
	})
	return loadErr
}

// BuildAdvicePrompt renders the study advice prompt for a question.
func BuildAdvicePrompt(question string, pp PartialProfile) (string, error) {
	if err := Load(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := adviceTemplate.Execute(&buf, Merge(pp, question)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func ptr[T any](v T) *T {
	return &v
}

func orDefault[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

// formatNumber renders whole numbers without a fractional part and keeps
// at most two decimals otherwise.
func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func sanitizeQuestion(q string) string {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) > maxQuestionRunes {
		runes := []rune(q)
		q = string(runes[:maxQuestionRunes]) + "\n\n[Question truncated due to length]"
	}
	return q
}
