package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"kuchen/provider"
)

var (
	chartTitleStyle = lipgloss.NewStyle().Bold(true)
	chartBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	chartLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// renderChart draws points as horizontal bars scaled so the largest value fills the available width.
func renderChart(title string, points []provider.ChartPoint, width int) string {
	if len(points) == 0 {
		return ""
	}
	labelWidth, valueWidth := 0, 0
	maxValue := 0.0
	for _, p := range points {
		labelWidth = max(labelWidth, runewidth.StringWidth(p.Name))
		valueWidth = max(valueWidth, len(formatValue(p.Value)))
		maxValue = max(maxValue, p.Value)
	}
	barWidth := max(width-labelWidth-valueWidth-2, 4)

	var sb strings.Builder
	if title != "" {
		sb.WriteString(chartTitleStyle.Render(title))
		sb.WriteByte('\n')
	}
	for i, p := range points {
		n := 0
		if maxValue > 0 && p.Value > 0 {
			n = max(int(p.Value/maxValue*float64(barWidth)+0.5), 1)
		}
		sb.WriteString(chartLabelStyle.Render(padRight(p.Name, labelWidth)))
		sb.WriteByte(' ')
		sb.WriteString(chartBarStyle.Render(strings.Repeat("█", n)))
		sb.WriteByte(' ')
		sb.WriteString(formatValue(p.Value))
		if i < len(points)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// bar renders a fraction in [0, 1] as a fixed-width meter.
func bar(frac float64, width int) string {
	frac = min(max(frac, 0), 1)
	n := int(frac*float64(width) + 0.5)
	return strings.Repeat("▮", n) + strings.Repeat("▯", width-n)
}
