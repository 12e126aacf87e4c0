package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/surf"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/tide"
)

var (
	colorPrimary = lipgloss.Color("#00BFFF")
	colorMuted   = lipgloss.Color("#6C757D")
	colorBorder  = lipgloss.Color("#4A90E2")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	labelStyle = lipgloss.NewStyle().Foreground(colorMuted).Bold(true).Width(14)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	paneStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	ratingStyles = map[string]lipgloss.Style{
		string(surf.RatingExcellent): lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2ECC71")),
		string(surf.RatingGood):      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6BCF7F")),
		string(surf.RatingFair):      lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD93D")),
		string(surf.RatingPoor):      lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8C42")),
		string(surf.RatingFlat):      lipgloss.NewStyle().Foreground(colorMuted),
	}
)

func rating(r string) string {
	style, ok := ratingStyles[r]
	if !ok {
		return r
	}
	return style.Render(r)
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

func scoreLine(name string, score float64, r string, breaking, wind float64, windDir string) string {
	return fmt.Sprintf("%-20s %4.1f %-18s %.1fm  %2.0f km/h %s", name, score, rating(r), breaking, wind, windDir)
}

func renderAssessment(a surf.Assessment) string {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("%.1f / 10", a.Score.Overall)) + "  " + rating(string(a.Rating)),
		"",
		row("Breaking", fmt.Sprintf("%.1f m (%.0f%% confidence)", a.Breaking.Height, a.Breaking.Confidence)),
		row("Swell", fmt.Sprintf("%s, %s", a.Classification.Type, a.Classification.Quality)),
		row("Energy", fmt.Sprintf("%.0f (%s)", a.Energy, a.EnergyLevel)),
		row("Wave quality", fmt.Sprintf("%.1f", a.Score.WaveQuality)),
		row("Wind quality", fmt.Sprintf("%.1f", a.Score.WindQuality)),
		row("Tide", fmt.Sprintf("%.1f", a.Score.TideOptimal)),
		row("Consistency", fmt.Sprintf("%.1f", a.Score.Consistency)),
	}
	return paneStyle.Render(strings.Join(lines, "\n"))
}

// renderTideDay prints the day's events and curve. current, when set, is the
// height right now.
func renderTideDay(d tide.Day, current string) string {
	title := fmt.Sprintf("%s  %s  (%s)", d.SpotID, d.Date, d.Source)
	if d.Fallback {
		title += " generic pattern"
	}
	lines := []string{titleStyle.Render(title), row("Moon", string(d.Moon))}
	if current != "" {
		lines = append(lines, row("Now", current))
	}
	lines = append(lines, "")
	for _, e := range d.Events {
		lines = append(lines, row(string(e.Type), fmt.Sprintf("%s  %.2f m", e.Time, e.Height)))
	}
	lines = append(lines, "")
	for _, p := range d.Hourly {
		bar := strings.Repeat("~", max(0, int(p.Height*10)))
		lines = append(lines, fmt.Sprintf("%02d:00 %5.2f m %s", p.Hour, p.Height, lipgloss.NewStyle().Foreground(colorPrimary).Render(bar)))
	}
	return paneStyle.Render(strings.Join(lines, "\n"))
}

func renderAmenities(spotName string, amenities []models.Amenity) string {
	lines := []string{titleStyle.Render(spotName), ""}
	for _, a := range amenities {
		name := a.Name
		if name == "" {
			name = "-"
		}
		lines = append(lines, row(a.Kind, fmt.Sprintf("%4.0f m  %s", a.DistanceM, name)))
	}
	return paneStyle.Render(strings.Join(lines, "\n"))
}
