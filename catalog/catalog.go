// Package catalog holds the static list of speaking tasks a session can be started for.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Size is the number of tasks in the exam.
const Size = 7

const (
	RegisterFormal   = "formal"
	RegisterInformal = "informal"
)

var ErrUnknownTask = errors.New("unknown task")

//go:embed tasks.yaml
var builtin string

// Task describes one exam task variant. Values are copied, never mutated.
type Task struct {
	ID           int    `yaml:"id"`
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	PrepSeconds  int    `yaml:"prep_seconds"`
	SpeakSeconds int    `yaml:"speak_seconds"`
	Register     string `yaml:"register"`
	Interlocutor string `yaml:"interlocutor"`
	Chart        bool   `yaml:"chart"`
}

// RequiresChart reports whether generated content for this task must carry chart data.
func (t Task) RequiresChart() bool { return t.Chart }

// AddressForm returns the German form of address matching the register.
func (t Task) AddressForm() string {
	if t.Register == RegisterInformal {
		return "du"
	}
	return "Sie"
}

type Catalog struct {
	tasks []Task
}

type document struct {
	Tasks []Task `yaml:"tasks"`
}

func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding task catalog: %w", err)
	}
	if err := validate(doc.Tasks); err != nil {
		return nil, err
	}
	return &Catalog{tasks: doc.Tasks}, nil
}

func validate(tasks []Task) error {
	if len(tasks) != Size {
		return fmt.Errorf("task catalog: want %d tasks, got %d", Size, len(tasks))
	}
	charts := 0
	for i, t := range tasks {
		if t.ID != i+1 {
			return fmt.Errorf("task catalog: entry %d has id %d, want %d", i, t.ID, i+1)
		}
		if strings.TrimSpace(t.Title) == "" {
			return fmt.Errorf("task %d: empty title", t.ID)
		}
		if t.PrepSeconds < 1 || t.SpeakSeconds < 1 {
			return fmt.Errorf("task %d: durations must be at least one second", t.ID)
		}
		switch t.Register {
		case RegisterFormal, RegisterInformal:
		default:
			return fmt.Errorf("task %d: unknown register %q", t.ID, t.Register)
		}
		if t.Chart {
			charts++
		}
	}
	if charts != 2 {
		return fmt.Errorf("task catalog: want 2 chart tasks, got %d", charts)
	}
	return nil
}

// All returns the tasks in exam order.
func (c *Catalog) All() []Task {
	out := make([]Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

func (c *Catalog) Lookup(id int) (Task, error) {
	if id < 1 || id > len(c.tasks) {
		return Task{}, fmt.Errorf("%w: %d", ErrUnknownTask, id)
	}
	return c.tasks[id-1], nil
}

var defaultCatalog = mustLoad(builtin)

func mustLoad(src string) *Catalog {
	c, err := Load(strings.NewReader(src))
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog { return defaultCatalog }

func All() []Task { return defaultCatalog.All() }

func Lookup(id int) (Task, error) { return defaultCatalog.Lookup(id) }
