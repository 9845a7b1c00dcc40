// ABOUTME: Terminal rendering for ledger stats, the calorie progress bar, and item lists.
// ABOUTME: The bar and the remaining card turn red once the limit is reached.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/calories/internal/models"
	"github.com/harperreed/calories/internal/tracker"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#403E3C")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#878580")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
	ColorPurple    = lipgloss.Color("#8B7EC8")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	labelStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			Align(lipgloss.Center)

	mealBadge = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorBlue).
			Padding(0, 1)

	workoutBadge = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorPurple).
			Padding(0, 1)
)

const cardWidth = 14

// BarColor returns the progress color: green under the limit, red at or over.
func BarColor(overLimit bool) lipgloss.Color {
	if overLimit {
		return ColorRed
	}
	return ColorGreen
}

// ProgressBar renders the calorie progress bar with its percentage.
func ProgressBar(s tracker.Stats, width int) string {
	if width < 10 {
		width = 10
	}
	color := BarColor(s.OverLimit)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(ColorTextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	return bar.ViewAs(s.Progress) + " " + pctStyle.Render(fmt.Sprintf("%3.0f%%", s.Progress*100))
}

// card renders one labeled number.
func card(label, value string, border lipgloss.Color) string {
	return cardStyle.
		BorderForeground(border).
		Width(cardWidth).
		Render(labelStyle.Render(label) + "\n" + valueStyle.Render(value))
}

// RenderStats renders the limit, total, consumed, burned and remaining cards
// followed by the progress bar.
func RenderStats(s tracker.Stats) string {
	remainingBorder := ColorGreen
	if s.OverLimit {
		remainingBorder = ColorRed
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Daily Limit", models.FormatCalories(s.CalorieLimit), ColorBorder),
		card("Gain/Loss", models.FormatCalories(s.TotalCalories), ColorAccent),
		card("Consumed", models.FormatCalories(s.Consumed), ColorBlue),
		card("Burned", models.FormatCalories(s.Burned), ColorPurple),
		card("Remaining", models.FormatCalories(s.Remaining), remainingBorder),
	)

	width := lipgloss.Width(row) - 5
	return row + "\n" + ProgressBar(s, width)
}

// RenderItem renders one item row: short ID, name, calorie badge.
func RenderItem(kind models.Kind, item models.Item) string {
	badge := mealBadge
	if kind == models.KindWorkout {
		badge = workoutBadge
	}
	return fmt.Sprintf("%s %s %s",
		dimStyle.Render(item.ShortID()),
		padRight(item.Name, 24),
		badge.Render(models.FormatCalories(item.Calories)))
}

// RenderItems renders a titled list of items, or a placeholder when empty.
func RenderItems(kind models.Kind, items []models.Item) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title(kind)))
	b.WriteString("\n")
	if len(items) == 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  No %ss found.", kind)))
		b.WriteString("\n")
		return b.String()
	}
	for _, item := range items {
		b.WriteString("  ")
		b.WriteString(RenderItem(kind, item))
		b.WriteString("\n")
	}
	return b.String()
}

// ListRenderer writes replayed ledger items to w, one line per item,
// skipping items whose name does not contain Filter.
type ListRenderer struct {
	w      io.Writer
	Filter string
	count  int
}

// Compile-time check that ListRenderer implements tracker.Renderer.
var _ tracker.Renderer = (*ListRenderer)(nil)

// NewListRenderer creates a ListRenderer writing to w.
func NewListRenderer(w io.Writer, filter string) *ListRenderer {
	return &ListRenderer{w: w, Filter: filter}
}

// RenderMeal writes a meal row.
func (r *ListRenderer) RenderMeal(item models.Item) {
	r.render(models.KindMeal, item)
}

// RenderWorkout writes a workout row.
func (r *ListRenderer) RenderWorkout(item models.Item) {
	r.render(models.KindWorkout, item)
}

// Count returns how many rows were written.
func (r *ListRenderer) Count() int {
	return r.count
}

func (r *ListRenderer) render(kind models.Kind, item models.Item) {
	if len(tracker.FilterItems([]models.Item{item}, r.Filter)) == 0 {
		return
	}
	r.count++
	fmt.Fprintf(r.w, "%-8s %s\n", kind, RenderItem(kind, item))
}

func title(kind models.Kind) string {
	if kind == models.KindWorkout {
		return "Workouts"
	}
	return "Meals"
}

func padRight(s string, length int) string {
	if lipgloss.Width(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-lipgloss.Width(s))
}
