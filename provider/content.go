package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"kuchen/catalog"
)

type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// GeneratedContent is the task card written for one session. It is generated once and reused on retry.
type GeneratedContent struct {
	Title        string       `json:"germanTitle"`
	TaskText     string       `json:"germanTaskText"`
	Instructions string       `json:"chineseInstructions"`
	OpeningHint  string       `json:"openingLineHint"`
	ChartTitle   string       `json:"chartTitle,omitempty"`
	Chart        []ChartPoint `json:"chartData,omitempty"`
}

func (c *GeneratedContent) HasChart() bool { return len(c.Chart) > 0 }

// Validate checks the fields the task card cannot be shown without.
func (c *GeneratedContent) Validate(task catalog.Task) error {
	for _, f := range []struct{ name, value string }{
		{"title", c.Title},
		{"task text", c.TaskText},
		{"instructions", c.Instructions},
		{"opening hint", c.OpeningHint},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("generated content: empty %s", f.name)
		}
	}
	if task.RequiresChart() && len(c.Chart) == 0 {
		return fmt.Errorf("generated content: task %d needs chart data", task.ID)
	}
	return nil
}

// DecodeContent parses a model's JSON answer. Chart data on a task without a chart is dropped.
func DecodeContent(data []byte, task catalog.Task) (*GeneratedContent, error) {
	var c GeneratedContent
	if err := json.Unmarshal(stripFence(data), &c); err != nil {
		return nil, fmt.Errorf("generated content: %w", err)
	}
	if !task.RequiresChart() {
		c.ChartTitle = ""
		c.Chart = nil
	}
	if err := c.Validate(task); err != nil {
		return nil, err
	}
	return &c, nil
}

// stripFence removes a ```json fence some models wrap around JSON mode output.
func stripFence(data []byte) []byte {
	s := strings.TrimSpace(string(data))
	if !strings.HasPrefix(s, "```") {
		return data
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(s, "```")
	return []byte(strings.TrimSpace(s))
}
