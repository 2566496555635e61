package console

import (
	"fmt"
	"strings"

	"github.com/pavelanni/studybuddy/internal/advisor"
	"github.com/pavelanni/studybuddy/internal/llm"
)

// RenderAssessment formats a prediction for the terminal.
func RenderAssessment(a advisor.Assessment) string {
	var b strings.Builder

	b.WriteString(styleBold.Render("Predicted Exam Score: "))
	b.WriteString(scoreStyle(a.Score).Render(fmt.Sprintf("%.2f", a.Score)))
	b.WriteString("\n")
	if a.Motivation != "" {
		b.WriteString("\n" + styleBlue.Render("“"+a.Motivation+"”") + "\n")
	}

	b.WriteString("\n" + header("Lifestyle Impact Summary") + "\n")
	for _, msg := range a.Summary.Messages {
		marker := styleYellow.Render("•")
		if a.Summary.Balanced {
			marker = styleGreen.Render("✓")
		}
		fmt.Fprintf(&b, "%s %s\n", marker, msg)
	}
	if a.Summary.Warning != "" {
		b.WriteString(styleRed.Render("! "+a.Summary.Warning) + "\n")
	}

	var plan strings.Builder
	fmt.Fprintf(&plan, "%s %s\n\n", styleBold.Render("Recommended Study:"), a.Plan.RecommendedHours)
	for i, step := range a.Plan.Steps {
		fmt.Fprintf(&plan, "%d. %s\n", i+1, step)
	}
	plan.WriteString("\n" + styleBold.Render("Daily Timetable") + "\n")
	for _, block := range a.Plan.Timetable {
		fmt.Fprintf(&plan, "%s %s\n", styleHeader.Render(block.Period+":"), block.Text)
	}

	b.WriteString("\n")
	b.WriteString(box("Personalized Study Plan", strings.TrimRight(plan.String(), "\n")))
	b.WriteString("\n")
	return b.String()
}

// RenderReply formats a chat reply, dimming degraded outcomes.
func RenderReply(r llm.Reply) string {
	label := styleHeader.Render("Study Buddy:")
	if !r.OK() {
		return label + " " + styleRed.Render(r.Text) + "\n"
	}
	return label + " " + r.Text + "\n"
}
