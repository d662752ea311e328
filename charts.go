package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RegistrationsBar creates a horizontal bar for one period's count,
// scaled against the series maximum.
func RegistrationsBar(label string, value, max int64, width int, color lipgloss.Color) string {
	if max <= 0 {
		max = value
	}

	percentage := 0.0
	if max > 0 {
		percentage = float64(value) / float64(max)
	}
	if percentage > 1 {
		percentage = 1
	}

	filledWidth := int(float64(width) * percentage)
	if filledWidth < 0 {
		filledWidth = 0
	}
	if filledWidth > width {
		filledWidth = width
	}

	filled := strings.Repeat("█", filledWidth)
	empty := strings.Repeat("░", width-filledWidth)

	barStyle := lipgloss.NewStyle().Foreground(color)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	return fmt.Sprintf("%s %s%s %s",
		label,
		barStyle.Render(filled),
		emptyStyle.Render(empty),
		groupDigits(value),
	)
}

// GrowthBar creates a signed growth bar, green for expansion and red for
// contraction, with the magnitude capped at scale percent.
func GrowthBar(label string, growth, scale float64, width int) string {
	if scale <= 0 {
		scale = 100
	}

	magnitude := math.Abs(growth) / scale
	if magnitude > 1 {
		magnitude = 1
	}

	filledWidth := int(float64(width) * magnitude)
	if filledWidth > width {
		filledWidth = width
	}
	filled := strings.Repeat("█", filledWidth)
	empty := strings.Repeat("░", width-filledWidth)

	color := lipgloss.Color("82") // Green
	if growth < 0 {
		color = lipgloss.Color("196") // Red
	}

	barStyle := lipgloss.NewStyle().Foreground(color)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	return fmt.Sprintf("%s %s%s %+.2f%%",
		label,
		barStyle.Render(filled),
		emptyStyle.Render(empty),
		growth,
	)
}

// TrendSparkline creates a sparkline from a series of values
func TrendSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	// Sparkline characters from bottom to top
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var result strings.Builder
	for _, v := range values {
		var idx int
		if max == min {
			idx = len(chars) / 2
		} else {
			normalized := (v - min) / (max - min)
			idx = int(normalized * float64(len(chars)-1))
		}
		result.WriteRune(chars[idx])
	}

	return result.String()
}

// InfoBox creates a styled info box with a value
func InfoBox(label string, value string, color lipgloss.Color) string {
	labelStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("240")).
		Width(18).
		Align(lipgloss.Left)

	valueStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Width(14).
		Align(lipgloss.Right)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		labelStyle.Render(label),
		valueStyle.Render(value),
	)

	return boxStyle.Render(content)
}

// MetricCard creates a card showing a headline metric, with a growth bar
// when growth is known.
func MetricCard(title, value, subtitle string, growth *float64) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		MarginBottom(1)

	valueStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("226"))

	subtitleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(34)

	var bar string
	if growth != nil {
		bar = "\n" + GrowthBar("", *growth, 100, 20)
	}

	content := titleStyle.Render(title) + "\n" +
		valueStyle.Render(value) + "\n" +
		subtitleStyle.Render(subtitle) +
		bar

	return cardStyle.Render(content)
}

// groupDigits formats a count with comma separators.
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if negative {
		out = "-" + out
	}
	return out
}
