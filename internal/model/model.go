package model

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
)

// Gender is the student's gender as selected in the form. The empty value means unset.
type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Diet is the self-reported diet quality.
type Diet string

const (
	DietUnset   Diet = ""
	DietPoor    Diet = "poor"
	DietAverage Diet = "average"
	DietGood    Diet = "good"
)

// DietLevels lists diet values in feature-code order.
var DietLevels = []Diet{DietUnset, DietPoor, DietAverage, DietGood}

// YesNo answers a yes/no form question.
type YesNo string

const (
	AnswerUnset YesNo = ""
	AnswerNo    YesNo = "no"
	AnswerYes   YesNo = "yes"
)

// Education is the highest education level of the student's parents.
type Education string

const (
	EducationUnset      Education = ""
	EducationHighSchool Education = "high-school"
	EducationBachelor   Education = "bachelor"
	EducationMaster     Education = "master"
)

// EducationLevels lists education values in feature-code order.
var EducationLevels = []Education{EducationUnset, EducationHighSchool, EducationBachelor, EducationMaster}

// Field bounds enforced by the input surfaces.
const (
	MaxStudyHours       = 12.0
	MaxSleepHours       = 12.0
	MaxSocialMediaHours = 8.0
	MaxAttendance       = 100
	MinMentalHealth     = 1
	MaxMentalHealth     = 10
)

// StudentProfile holds the lifestyle attributes collected from the form.
type StudentProfile struct {
	Gender           Gender    `json:"gender"`
	StudyHours       float64   `json:"study_hours"`
	Attendance       int       `json:"attendance"`
	MentalHealth     int       `json:"mental_health"`
	SleepHours       float64   `json:"sleep_hours"`
	Diet             Diet      `json:"diet"`
	PartTimeJob      YesNo     `json:"part_time_job"`
	ParentEducation  Education `json:"parent_education"`
	Extracurricular  YesNo     `json:"extracurricular"`
	SocialMediaHours float64   `json:"social_media_hours"`
}

// DefaultProfile mirrors the initial state of the form: sliders at their
// minimum and every select left unset.
func DefaultProfile() StudentProfile {
	return StudentProfile{MentalHealth: MinMentalHealth}
}

// Validate reports every field that lies outside its declared domain.
func (p StudentProfile) Validate() error {
	var errs []error
	check := func(ok bool, field string, v any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%s out of range: %v", field, v))
		}
	}
	check(p.StudyHours >= 0 && p.StudyHours <= MaxStudyHours, "study_hours", p.StudyHours)
	check(p.Attendance >= 0 && p.Attendance <= MaxAttendance, "attendance", p.Attendance)
	check(p.MentalHealth >= MinMentalHealth && p.MentalHealth <= MaxMentalHealth, "mental_health", p.MentalHealth)
	check(p.SleepHours >= 0 && p.SleepHours <= MaxSleepHours, "sleep_hours", p.SleepHours)
	check(p.SocialMediaHours >= 0 && p.SocialMediaHours <= MaxSocialMediaHours, "social_media_hours", p.SocialMediaHours)

	check(slices.Contains([]Gender{GenderUnset, GenderMale, GenderFemale}, p.Gender), "gender", p.Gender)
	check(slices.Contains(DietLevels, p.Diet), "diet", p.Diet)
	check(slices.Contains(EducationLevels, p.ParentEducation), "parent_education", p.ParentEducation)
	check(validAnswer(p.PartTimeJob), "part_time_job", p.PartTimeJob)
	check(validAnswer(p.Extracurricular), "extracurricular", p.Extracurricular)
	return errors.Join(errs...)
}

func validAnswer(a YesNo) bool {
	return a == AnswerUnset || a == AnswerNo || a == AnswerYes
}

// Role represents a chat message role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one entry of a session's chat transcript.
type ChatTurn struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// AppConfig holds runtime parameters for the web surface set via CLI flags.
type AppConfig struct {
	BasePath      string // URL prefix for sub-path deployments (e.g. "/ru")
	SecureCookies bool   // Set Secure flag on cookies (disable for local dev)
	Lang          string
}

type basePathCtxKey struct{}

// ContextWithBasePath stores the base path prefix in context.
func ContextWithBasePath(ctx context.Context, basePath string) context.Context {
	return context.WithValue(ctx, basePathCtxKey{}, basePath)
}

// BasePathFromContext retrieves the base path from context (empty string if not set).
func BasePathFromContext(ctx context.Context) string {
	bp, _ := ctx.Value(basePathCtxKey{}).(string)
	return bp
}

type csrfCtxKey struct{}

// ContextWithCSRFToken stores the CSRF token in context.
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfCtxKey{}, token)
}

// CSRFTokenFromContext retrieves the CSRF token from context.
func CSRFTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(csrfCtxKey{}).(string)
	return t
}
