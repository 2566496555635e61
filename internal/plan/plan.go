// Package plan maps a predicted score to a canned study plan and daily timetable.
package plan

import "slices"

// Band is a score range with its own plan.
type Band string

const (
	BandFoundational Band = "foundational"
	BandBalanced     Band = "balanced"
	BandRefinement   Band = "refinement"
)

// Band cut-points: scores below FoundationalBelow are foundational, scores
// above RefinementAbove are refinement, everything in between is balanced.
const (
	FoundationalBelow = 60.0
	RefinementAbove   = 90.0
)

// Block is one part of the daily timetable.
type Block struct {
	Period string
	Text   string
}

// Plan is the fixed study plan and timetable of a band.
type Plan struct {
	Band             Band
	RecommendedHours string
	Steps            []string
	Timetable        [4]Block
}

// BandFor returns the band for a clamped score.
func BandFor(score float64) Band {
	switch {
	case score < FoundationalBelow:
		return BandFoundational
	case score > RefinementAbove:
		return BandRefinement
	default:
		return BandBalanced
	}
}

// Select returns a copy of the plan for a clamped score.
func Select(score float64) Plan {
	p := plans[BandFor(score)]
	p.Steps = slices.Clone(p.Steps)
	return p
}

var plans = map[Band]Plan{
	BandFoundational: {
		Band:             BandFoundational,
		RecommendedHours: "2-3 hours/day",
		Steps: []string{
			"Study 2-3 hours daily using short, focused sessions to strengthen foundational understanding.",
			"Revise fundamentals and previously covered material.",
			"Use active learning methods like self-testing and summaries.",
			"Improve sleep to 7-8 hours to support focus and memory.",
			"Reduce social media gradually and replace with revision time.",
			"Maintain regular attendance to avoid learning gaps.",
		},
		Timetable: [4]Block{
			{"Morning", "Wake up and begin the day with personal hygiene and breakfast. " +
				"Engage in a focused study session of approximately 1 hour, emphasizing foundational concepts and revision."},
			{"Afternoon", "Attend classes or learning sessions. Take time for lunch, rest, and a short hobby or activity. " +
				"If possible, do a quick 30-minute review of what you studied in the morning."},
			{"Evening", "Second study session or practice questions (about 1 hour). Take a short break if needed to refresh your mind."},
			{"Night", "Relax and unwind, prepare for the next day. Aim for 7-8 hours of sleep to optimize mental clarity and overall well-being."},
		},
	},
	BandBalanced: {
		Band:             BandBalanced,
		RecommendedHours: "3-4 hours/day",
		Steps: []string{
			"Study 3-4 hours daily with a mix of revision and practice.",
			"Focus on consistency rather than increasing pressure.",
			"Identify weak areas from past assessments and revise them.",
			"Keep sleep and mental health stable to avoid burnout.",
			"Balance academics with extracurricular activities.",
		},
		Timetable: [4]Block{
			{"Morning", "Wake up, engage in light stretching or exercise, and have breakfast. " +
				"Begin a focused study session of 1-2 hours, covering review topics or problem-solving exercises."},
			{"Afternoon", "Attend classes or learning sessions. Follow with lunch and free time for hobbies or relaxation. " +
				"Include a short review session (30-45 minutes) to consolidate learning."},
			{"Evening", "Conduct a study/practice/recap session lasting 1-1.5 hours. " +
				"Utilize active learning methods such as note summarization or self-testing."},
			{"Night", "Relax, engage in hobbies or light recreational activities, and prepare for the next day. Maintain 7-8 hours of sleep."},
		},
	},
	BandRefinement: {
		Band:             BandRefinement,
		RecommendedHours: "4-5 hours/day",
		Steps: []string{
			"Study 4-5 hours daily with emphasis on refinement.",
			"Practice advanced questions and timed mock sessions.",
			"Maintain strong routines for sleep, diet, and mental health.",
			"Avoid overstudying; include breaks to sustain performance.",
			"Focus on confidence, accuracy, and consistency.",
		},
		Timetable: [4]Block{
			{"Morning", "Wake up, freshen up, and have breakfast. " +
				"Begin a deep study or practice session (1.5-2 hours), focusing on refinement and problem-solving."},
			{"Afternoon", "Attend classes or learning sessions. Take lunch and allocate time for hobbies, light review, or physical activity. " +
				"Include a brief review session to reinforce morning learning."},
			{"Evening", "Study, recap, or practice for 1.5-2 hours, emphasizing weak areas or timed exercises to enhance performance."},
			{"Night", "Relax and prepare for the next day. Ensure 7-8 hours of sleep to maintain cognitive performance and well-being."},
		},
	},
}
