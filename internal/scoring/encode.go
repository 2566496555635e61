package scoring

import (
	"slices"

	"github.com/pavelanni/studybuddy/internal/model"
)

// NumFeatures is the length of every FeatureVector.
const NumFeatures = 10

// FeatureVector is the ordered model input:
// gender, study hours, attendance, mental health, sleep hours, diet,
// part-time job, parent education, extracurricular, social media hours.
// The order matches the order the regression model was trained on.
type FeatureVector [NumFeatures]float64

// Slice returns a copy of the vector as a slice.
func (fv FeatureVector) Slice() []float64 {
	return fv[:]
}

// Encode maps a profile into its feature vector. Unknown enum values
// encode as the unset code.
func Encode(p model.StudentProfile) FeatureVector {
	return FeatureVector{
		flag(p.Gender == model.GenderMale),
		p.StudyHours,
		float64(p.Attendance),
		float64(p.MentalHealth),
		p.SleepHours,
		index(model.DietLevels, p.Diet),
		flag(p.PartTimeJob == model.AnswerYes),
		index(model.EducationLevels, p.ParentEducation),
		flag(p.Extracurricular == model.AnswerYes),
		p.SocialMediaHours,
	}
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func index[T comparable](levels []T, v T) float64 {
	i := slices.Index(levels, v)
	if i < 0 {
		return 0
	}
	return float64(i)
}
