// Package console renders assessments and chat replies for the terminal and
// collects a student profile interactively.
package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	styleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	styleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	styleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	styleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	styleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	styleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	styleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// header renders a section header with an underline.
func header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len([]rune(upper)))
	return fmt.Sprintf("%s\n%s", styleHeader.Render(upper), styleDim.Render(line))
}

// box wraps content in a rounded border with an optional title.
func box(title, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(styleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// scoreStyle colors a score by plan band: red below 60, green above 90.
func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score < 60:
		return styleRed
	case score > 90:
		return styleGreen
	default:
		return styleYellow
	}
}

func huhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(ColorFg).Background(ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(ColorDim)

	return t
}
