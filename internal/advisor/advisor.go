// Package advisor runs the prediction flow: encode the profile, predict and
// clamp a score, then derive insights, a plan and a motivational quote.
package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/pavelanni/studybuddy/internal/insight"
	"github.com/pavelanni/studybuddy/internal/model"
	"github.com/pavelanni/studybuddy/internal/plan"
	"github.com/pavelanni/studybuddy/internal/scoring"
)

// Assessment is the result of one prediction request.
type Assessment struct {
	Features   scoring.FeatureVector
	RawScore   float64
	Score      float64
	Report     insight.Report
	Summary    insight.Summary
	Plan       plan.Plan
	Motivation string
}

// Advisor combines a score predictor with the rule-based engines.
type Advisor struct {
	predictor scoring.Predictor
	rng       *rand.Rand
}

// New creates an Advisor. A nil rng picks quotes from the global source.
func New(p scoring.Predictor, rng *rand.Rand) *Advisor {
	return &Advisor{predictor: p, rng: rng}
}

// Assess scores a profile. The only failure is a predictor error.
func (a *Advisor) Assess(ctx context.Context, p model.StudentProfile) (Assessment, error) {
	fv := scoring.Encode(p)
	raw, err := a.predictor.Predict(ctx, fv)
	if err != nil {
		return Assessment{}, fmt.Errorf("predict score: %w", err)
	}
	score := scoring.Clamp(raw)
	report := insight.Evaluate(p)

	slog.Debug("assessed profile", "raw_score", raw, "score", score, "issues", len(report))

	return Assessment{
		Features:   fv,
		RawScore:   raw,
		Score:      score,
		Report:     report,
		Summary:    insight.Summarize(report, score),
		Plan:       plan.Select(score),
		Motivation: insight.Motivation(score, a.rng),
	}, nil
}

// Export builds the JSON shape of an assessment.
func Export(p model.StudentProfile, a Assessment, at time.Time) model.AssessmentExport {
	insights := make([]model.InsightExport, 0, len(a.Report))
	for _, in := range a.Report {
		insights = append(insights, model.InsightExport{Message: in.Message, Tag: in.Tag})
	}
	timetable := make([]model.TimetableExport, 0, len(a.Plan.Timetable))
	for _, b := range a.Plan.Timetable {
		timetable = append(timetable, model.TimetableExport{Period: b.Period, Text: b.Text})
	}
	return model.AssessmentExport{
		GeneratedAt: at,
		Profile:     p,
		Features:    a.Features.Slice(),
		Score:       a.Score,
		Insights:    insights,
		Summary:     a.Summary.Lines(),
		Motivation:  a.Motivation,
		Plan: model.PlanExport{
			Band:           string(a.Plan.Band),
			RecommendedDay: a.Plan.RecommendedHours,
			Steps:          a.Plan.Steps,
			Timetable:      timetable,
		},
	}
}
