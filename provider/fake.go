package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"kuchen/catalog"
	"kuchen/encoder"
	"kuchen/report"
)

// Fake is an offline provider for tests and scripted runs. Errors are wrapped like real failures.
type Fake struct {
	mu            sync.Mutex
	content       *GeneratedContent
	report        string
	generateErr   error
	analyzeErr    error
	delay         time.Duration
	generateCalls int
	analyzeCalls  int
	lastAudio     []byte
}

func NewFake() *Fake { return &Fake{} }

func (f *Fake) Name() string        { return NameFake }
func (f *Fake) AudioFormat() string { return encoder.FormatWAV }

// SetContent fixes the card returned by Generate. Nil restores the built-in card.
func (f *Fake) SetContent(c *GeneratedContent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content = c
}

func (f *Fake) SetReport(r string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.report = r
}

func (f *Fake) SetErrors(generate, analyze error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generateErr = generate
	f.analyzeErr = analyze
}

// SetDelay makes every call wait, so a caller can observe the loading state.
func (f *Fake) SetDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
}

func (f *Fake) Calls() (generate, analyze int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generateCalls, f.analyzeCalls
}

// LastAudio returns the audio passed to the most recent Analyze call.
func (f *Fake) LastAudio() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAudio
}

func (f *Fake) wait(ctx context.Context) error {
	f.mu.Lock()
	d := f.delay
	f.mu.Unlock()
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fake) Generate(ctx context.Context, task catalog.Task) (*GeneratedContent, error) {
	f.mu.Lock()
	f.generateCalls++
	content, err := f.content, f.generateErr
	f.mu.Unlock()

	if werr := f.wait(ctx); werr != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, werr)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: fake: %v", ErrGenerationFailed, err)
	}
	if content == nil {
		content = FakeContent(task)
	}
	return content, nil
}

func (f *Fake) Analyze(ctx context.Context, audio []byte, _ string, task catalog.Task, _ *GeneratedContent) (string, error) {
	f.mu.Lock()
	f.analyzeCalls++
	f.lastAudio = audio
	r, err := f.report, f.analyzeErr
	f.mu.Unlock()

	if werr := f.wait(ctx); werr != nil {
		return "", fmt.Errorf("%w: %v", ErrAnalysisFailed, werr)
	}
	if err != nil {
		return "", fmt.Errorf("%w: fake: %v", ErrAnalysisFailed, err)
	}
	if r == "" {
		r = FakeReport(task)
	}
	return r, nil
}

// FakeContent is a complete card for task; chart tasks get four chart points.
func FakeContent(task catalog.Task) *GeneratedContent {
	c := &GeneratedContent{
		Title:        "Studieren im Ausland",
		TaskText:     fmt.Sprintf("%s Sprechen Sie mit: %s.", task.Description, task.Interlocutor),
		Instructions: "请根据情境完成口语任务。",
		OpeningHint:  "Ich möchte zunächst darauf eingehen, dass ...",
	}
	if task.RequiresChart() {
		c.ChartTitle = "Internationale Studierende in Deutschland (in Tausend)"
		c.Chart = []ChartPoint{
			{Name: "2008", Value: 233},
			{Name: "2013", Value: 282},
			{Name: "2018", Value: 375},
			{Name: "2023", Value: 458},
		}
	}
	return c
}

// FakeReport is a report in the shape a real provider returns, with one score row per dimension.
func FakeReport(task catalog.Task) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Prozesslogik (Aufgabe %d)\n\nEinleitung -> These -> Beispiel -> Schluss\n\n", task.ID)
	sb.WriteString("## Bewertung\n\n")
	sb.WriteString("| Dimension | Score (0-5) | Deep Assessment | Correction/Upgrade |\n")
	sb.WriteString("|---|---|---|---|\n")
	for i, d := range report.Dimensions {
		fmt.Fprintf(&sb, "| %s | %d | 基本达标 | Zum einen ... zum anderen |\n", d, 3+i%2)
	}
	sb.WriteString("\n## Zusammenfassung\n\n- die Studiengebühr\n- der Anstieg\n")
	return sb.String()
}
