// Package insight derives rule-based lifestyle observations from a student profile.
package insight

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/pavelanni/studybuddy/internal/model"
)

// HighScoreThreshold is the score at which a non-empty report also gets the
// composite warning.
const HighScoreThreshold = 85.0

// MotivationCutoff is the score below which a motivational quote is shown.
const MotivationCutoff = 95.0

// Insight is one fired rule: a human-readable message and a short issue tag.
type Insight struct {
	Message string `json:"message"`
	Tag     string `json:"tag"`
}

// Report holds fired rules in evaluation order.
type Report []Insight

// Tags returns the issue tags in evaluation order.
func (r Report) Tags() []string {
	tags := make([]string, 0, len(r))
	for _, in := range r {
		tags = append(tags, in.Tag)
	}
	return tags
}

type rule struct {
	applies func(model.StudentProfile) bool
	Insight
}

// rules are evaluated in this order; each looks at a distinct field.
var rules = []rule{
	{func(p model.StudentProfile) bool { return p.StudyHours < 3 },
		Insight{"Low study hours may reduce concept clarity.", "Low study hours"}},
	{func(p model.StudentProfile) bool { return p.Attendance < 75 },
		Insight{"Low attendance affects learning consistency.", "Low attendance"}},
	{func(p model.StudentProfile) bool { return p.MentalHealth < 4 },
		Insight{"Mental stress lowers academic performance.", "Mental well-being"}},
	{func(p model.StudentProfile) bool { return p.SleepHours < 5 },
		Insight{"Insufficient sleep may reduce focus and memory retention.", "Insufficient sleep"}},
	{func(p model.StudentProfile) bool { return p.SocialMediaHours > 1.5 },
		Insight{"Excessive social media distracts from studies.", "High social media usage"}},
	{func(p model.StudentProfile) bool { return p.Diet == model.DietPoor },
		Insight{"Poor diet may reduce energy.", "Poor diet reduces energy"}},
}

// Evaluate applies every rule to the profile.
func Evaluate(p model.StudentProfile) Report {
	var report Report
	for _, r := range rules {
		if r.applies(p) {
			report = append(report, r.Insight)
		}
	}
	return report
}

// BalancedMessage is shown instead of per-rule messages when no rule fires.
const BalancedMessage = "Your lifestyle habits appear balanced and supportive for academic success."

// Summary is what the results panel shows for a report.
type Summary struct {
	Balanced bool
	Messages []string // per-rule messages, or the single balanced affirmation
	Warning  string   // composite high-score warning, empty when not triggered
}

// Lines returns the messages followed by the warning, if any.
func (s Summary) Lines() []string {
	lines := append([]string(nil), s.Messages...)
	if s.Warning != "" {
		lines = append(lines, s.Warning)
	}
	return lines
}

// Summarize decides between the per-rule listing (with the optional
// high-score warning) and the balanced-lifestyle affirmation.
func Summarize(report Report, score float64) Summary {
	if len(report) == 0 {
		return Summary{Balanced: true, Messages: []string{BalancedMessage}}
	}
	s := Summary{}
	for _, in := range report {
		s.Messages = append(s.Messages, in.Message)
	}
	if score >= HighScoreThreshold {
		s.Warning = fmt.Sprintf(
			"Your study effort is strong, but issues such as %s may impact long-term performance and well-being.",
			strings.Join(report.Tags(), ", "))
	}
	return s
}

var quotes = []string{
	"Small improvements every day lead to big results.",
	"Consistency matters more than perfection.",
	"Your effort today shapes your success tomorrow.",
	"Focus on progress, not comparison.",
	"One good habit can change everything.",
	"Believe in the process, not just the outcome.",
	"Hard work beats talent when talent doesn't work hard.",
	"Learning is a journey, not a race.",
	"Discipline is choosing what you want most.",
	"Success starts with showing up.",
}

// Motivation picks a quote for scores below MotivationCutoff. A nil rng uses
// the global source.
func Motivation(score float64, rng *rand.Rand) string {
	if score >= MotivationCutoff {
		return ""
	}
	if rng == nil {
		return quotes[rand.IntN(len(quotes))]
	}
	return quotes[rng.IntN(len(quotes))]
}
