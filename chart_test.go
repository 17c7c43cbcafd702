package main

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"kuchen/provider"
)

func TestRenderChartScalesToLargest(t *testing.T) {
	out := ansi.Strip(renderChart("Kosten", []provider.ChartPoint{
		{Name: "Miete", Value: 400},
		{Name: "Essen", Value: 200},
		{Name: "Bus", Value: 0},
	}, 30))
	lines := strings.Split(out, "\n")
	if len(lines) != 4 || lines[0] != "Kosten" {
		t.Fatalf("chart = %q", out)
	}
	full := strings.Count(lines[1], "█")
	half := strings.Count(lines[2], "█")
	if full != 30-5-3-2 {
		t.Errorf("largest bar = %d cells", full)
	}
	if half != (full+1)/2 {
		t.Errorf("half bar = %d, want %d", half, (full+1)/2)
	}
	if strings.Count(lines[3], "█") != 0 {
		t.Errorf("zero value drew a bar: %q", lines[3])
	}
	if !strings.HasSuffix(lines[1], " 400") {
		t.Errorf("value missing: %q", lines[1])
	}
}

func TestRenderChartEmpty(t *testing.T) {
	if got := renderChart("x", nil, 40); got != "" {
		t.Errorf("renderChart(nil) = %q", got)
	}
}

func TestFormatValue(t *testing.T) {
	for in, want := range map[float64]string{10: "10", 2.5: "2.5", 0: "0"} {
		if got := formatValue(in); got != want {
			t.Errorf("formatValue(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestBar(t *testing.T) {
	for _, tt := range []struct {
		frac float64
		want string
	}{
		{0, "▯▯▯▯"},
		{0.5, "▮▮▯▯"},
		{1, "▮▮▮▮"},
		{2, "▮▮▮▮"},
		{-1, "▯▯▯▯"},
	} {
		if got := bar(tt.frac, 4); got != tt.want {
			t.Errorf("bar(%v) = %q, want %q", tt.frac, got, tt.want)
		}
	}
}
