package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/pavelanni/studybuddy/internal/model"
)

// answers holds the raw form values while the form is running.
type answers struct {
	gender           string
	studyHours       string
	attendance       string
	mentalHealth     string
	sleepHours       string
	diet             string
	partTimeJob      string
	parentEducation  string
	extracurricular  string
	socialMediaHours string
}

func answersFrom(p model.StudentProfile) answers {
	return answers{
		gender:           string(p.Gender),
		studyHours:       strconv.FormatFloat(p.StudyHours, 'f', -1, 64),
		attendance:       strconv.Itoa(p.Attendance),
		mentalHealth:     strconv.Itoa(p.MentalHealth),
		sleepHours:       strconv.FormatFloat(p.SleepHours, 'f', -1, 64),
		diet:             string(p.Diet),
		partTimeJob:      string(p.PartTimeJob),
		parentEducation:  string(p.ParentEducation),
		extracurricular:  string(p.Extracurricular),
		socialMediaHours: strconv.FormatFloat(p.SocialMediaHours, 'f', -1, 64),
	}
}

func (a answers) profile() (model.StudentProfile, error) {
	var errs []error
	num := func(name, s string) float64 {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid number %q", name, s))
		}
		return v
	}
	p := model.StudentProfile{
		Gender:           model.Gender(a.gender),
		StudyHours:       num("study_hours", a.studyHours),
		Attendance:       int(num("attendance", a.attendance)),
		MentalHealth:     int(num("mental_health", a.mentalHealth)),
		SleepHours:       num("sleep_hours", a.sleepHours),
		Diet:             model.Diet(a.diet),
		PartTimeJob:      model.YesNo(a.partTimeJob),
		ParentEducation:  model.Education(a.parentEducation),
		Extracurricular:  model.YesNo(a.extracurricular),
		SocialMediaHours: num("social_media_hours", a.socialMediaHours),
	}
	if err := errors.Join(errs...); err != nil {
		return p, err
	}
	return p, p.Validate()
}

// rangeValidator accepts numbers in [lo, hi]. Integer fields reject fractions.
func rangeValidator(lo, hi float64, integer bool) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return errors.New("enter a number")
		}
		if integer && v != float64(int(v)) {
			return errors.New("enter a whole number")
		}
		if v < lo || v > hi {
			return fmt.Errorf("must be between %g and %g", lo, hi)
		}
		return nil
	}
}

func numberInput(title string, value *string, lo, hi float64, integer bool) *huh.Input {
	return huh.NewInput().
		Title(title).
		Description(fmt.Sprintf("%g to %g", lo, hi)).
		Value(value).
		Validate(rangeValidator(lo, hi, integer))
}

func choice(title string, value *string, opts ...huh.Option[string]) *huh.Select[string] {
	all := append([]huh.Option[string]{huh.NewOption("Select", "")}, opts...)
	return huh.NewSelect[string]().
		Title(title).
		Options(all...).
		Value(value)
}

func profileForm(a *answers) *huh.Form {
	yesNo := []huh.Option[string]{
		huh.NewOption("No", string(model.AnswerNo)),
		huh.NewOption("Yes", string(model.AnswerYes)),
	}
	return huh.NewForm(
		huh.NewGroup(
			choice("Gender", &a.gender,
				huh.NewOption("Male", string(model.GenderMale)),
				huh.NewOption("Female", string(model.GenderFemale))),
			numberInput("Study Hours Per Day", &a.studyHours, 0, model.MaxStudyHours, false),
			numberInput("Attendance (%)", &a.attendance, 0, model.MaxAttendance, true),
			numberInput("Mental Health Rating (1-10)", &a.mentalHealth, model.MinMentalHealth, model.MaxMentalHealth, true),
			numberInput("Sleep Hours", &a.sleepHours, 0, model.MaxSleepHours, false),
		),
		huh.NewGroup(
			choice("Diet Quality", &a.diet,
				huh.NewOption("Poor", string(model.DietPoor)),
				huh.NewOption("Average", string(model.DietAverage)),
				huh.NewOption("Good", string(model.DietGood))),
			choice("Part-Time Job", &a.partTimeJob, yesNo...),
			choice("Parental Education Level", &a.parentEducation,
				huh.NewOption("High School", string(model.EducationHighSchool)),
				huh.NewOption("Bachelor", string(model.EducationBachelor)),
				huh.NewOption("Master", string(model.EducationMaster))),
			choice("Extracurricular Participation", &a.extracurricular, yesNo...),
			numberInput("Social Media Hours", &a.socialMediaHours, 0, model.MaxSocialMediaHours, false),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)
}

// AskProfile runs the interactive profile form starting from initial.
func AskProfile(initial model.StudentProfile) (model.StudentProfile, error) {
	a := answersFrom(initial)
	if err := profileForm(&a).Run(); err != nil {
		return initial, fmt.Errorf("profile form: %w", err)
	}
	return a.profile()
}
