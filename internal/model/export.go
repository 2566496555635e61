package model

import "time"

// AssessmentExport is the JSON structure printed by `predict --format json`.
type AssessmentExport struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Profile     StudentProfile  `json:"profile"`
	Features    []float64       `json:"features"`
	Score       float64         `json:"score"`
	Insights    []InsightExport `json:"insights"`
	Summary     []string        `json:"summary"`
	Motivation  string          `json:"motivation,omitempty"`
	Plan        PlanExport      `json:"plan"`
}

// InsightExport is one fired lifestyle rule.
type InsightExport struct {
	Message string `json:"message"`
	Tag     string `json:"tag"`
}

// PlanExport holds the selected study plan and its daily timetable.
type PlanExport struct {
	Band           string            `json:"band"`
	RecommendedDay string            `json:"recommended_study"`
	Steps          []string          `json:"steps"`
	Timetable      []TimetableExport `json:"timetable"`
}

// TimetableExport is one block of the daily timetable.
type TimetableExport struct {
	Period string `json:"period"`
	Text   string `json:"text"`
}

// TranscriptExport is the JSON download of a session's chat history.
type TranscriptExport struct {
	SessionID  string     `json:"session_id"`
	ExportedAt time.Time  `json:"exported_at"`
	Score      *float64   `json:"predicted_score,omitempty"`
	Turns      []ChatTurn `json:"turns"`
}
