package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kuchen/catalog"
	"kuchen/recorder"
	"kuchen/report"
	"kuchen/session"
	"kuchen/timer"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	badgeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160")).Padding(0, 1)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	helpKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	recStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("236")).Padding(0, 1)
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var analysisSteps = []string{
	"Audio wird übertragen …",
	"Argumentation wird geprüft …",
	"Bewertung wird erstellt …",
}

// stageViews renders the body of the session screen, one entry per stage.
var stageViews = map[session.Stage]func(m *shell, width int) []string{
	session.StageCard:        (*shell).viewCard,
	session.StagePreparation: (*shell).viewPreparation,
	session.StageSpeaking:    (*shell).viewSpeaking,
	session.StageAnalysis:    (*shell).viewAnalysis,
	session.StageFeedback:    (*shell).viewFeedback,
}

func help(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpKeyStyle.Render(pairs[i])+helpStyle.Render(" "+pairs[i+1]))
	}
	return strings.Join(parts, helpStyle.Render(" · "))
}

func (m *shell) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	width = min(width, 100)

	var lines []string
	switch m.screen {
	case ScreenWelcome:
		lines = m.viewWelcome(width)
	case ScreenSelection:
		lines = m.viewSelection(width)
	case ScreenSession:
		if m.ctrl == nil {
			return ""
		}
		lines = append(m.viewHeader(), "")
		lines = append(lines, stageViews[m.ctrl.Stage()](m, width)...)
	}
	if m.height > 0 && len(lines) > m.height {
		lines = lines[:m.height]
	}
	return strings.Join(lines, "\n")
}

func (m *shell) viewWelcome(width int) []string {
	lines := []string{
		titleStyle.Render("Kuchendeutsch"),
		dimStyle.Render("TestDaF Mündlicher Ausdruck · Prüfungssimulator"),
		"",
	}
	for _, f := range []struct{ head, body string }{
		{"Echte Aufgaben", "Sieben Aufgabentypen mit KI-generierten Situationen und Grafiken."},
		{"Prüfungsbedingungen", "Vorbereitungs- und Sprechzeit laufen wie in der Prüfung."},
		{"Genaue Bewertung", "Rückmeldung zu Struktur, Grammatik, Wortschatz und Strategie."},
	} {
		lines = append(lines, "■ "+titleStyle.Render(f.head))
		for _, l := range wrapText(f.body, width-2) {
			lines = append(lines, "  "+dimStyle.Render(l))
		}
	}
	lines = append(lines, "", help("enter", "Aufgabe wählen", "q", "beenden"))
	if m.deps.status != "" {
		lines = append(lines, dimStyle.Render(m.deps.status+" · "+version))
	}
	return lines
}

func (m *shell) viewSelection(width int) []string {
	lines := []string{titleStyle.Render("Aufgabe wählen"), ""}
	for i, t := range m.deps.tasks {
		marker := "  "
		name := t.Title
		if i == m.cursor {
			marker = cursorStyle.Render("▸ ")
			name = titleStyle.Render(name)
		}
		meta := fmt.Sprintf("%d s Vorbereitung · %d s Sprechen", t.PrepSeconds, t.SpeakSeconds)
		if t.RequiresChart() {
			meta += " · Grafik"
		}
		lines = append(lines, fmt.Sprintf("%s%d  %s", marker, t.ID, name))
		lines = append(lines, "     "+dimStyle.Render(meta))
		if i == m.cursor {
			for _, l := range wrapText(t.Description, width-5) {
				lines = append(lines, "     "+hintStyle.Render(l))
			}
		}
	}
	return append(lines, "", help("↑/↓", "wählen", "enter", "starten", "1-7", "direkt", "esc", "zurück"))
}

func (m *shell) viewHeader() []string {
	t := m.ctrl.Task()
	head := badgeStyle.Render(fmt.Sprintf("Aufgabe %d", t.ID)) + " " + titleStyle.Render(t.Title)
	lines := []string{head}
	status := fmt.Sprintf("Versuch %d", m.ctrl.Attempts())
	if m.deps.status != "" {
		status += " · " + m.deps.status
	}
	return append(lines, dimStyle.Render(status))
}

func (m *shell) spinner() string {
	return spinnerFrames[m.frame%len(spinnerFrames)]
}

// viewTask renders the generated task text, chart and optional translation.
func (m *shell) viewTask(width int) []string {
	c := m.ctrl.Content()
	lines := []string{titleStyle.Render(c.Title)}
	lines = append(lines, wrapText(c.TaskText, width)...)
	if c.HasChart() {
		lines = append(lines, "", boxStyle.Render(renderChart(c.ChartTitle, c.Chart, width-4)))
	}
	if m.instructions {
		lines = append(lines, "")
		for _, l := range wrapText(c.Instructions, width) {
			lines = append(lines, dimStyle.Render(l))
		}
	}
	return lines
}

func (m *shell) viewCard(width int) []string {
	if m.ctrl.Loading() {
		return []string{m.spinner() + " Aufgabe wird erstellt …"}
	}
	lines := m.viewTask(width)
	return append(lines, "", help("enter", "Vorbereitung starten", "i", "Übersetzung", "esc", "zurück"))
}

func (m *shell) countdownLine(label string, style lipgloss.Style) string {
	return style.Render(fmt.Sprintf("%s %s", label, timer.Format(m.ctrl.Remaining()))) +
		"  " + dimStyle.Render(bar(m.ctrl.Progress(), 30))
}

func (m *shell) viewPreparation(width int) []string {
	lines := []string{m.countdownLine("Vorbereitung", titleStyle), ""}
	lines = append(lines, m.viewTask(width)...)
	lines = append(lines, "", titleStyle.Render("Redemittel-Tipp"))
	for _, l := range wrapText(m.ctrl.Content().OpeningHint, width) {
		lines = append(lines, hintStyle.Render(l))
	}
	return append(lines, "", help("s", "jetzt sprechen", "i", "Übersetzung", "esc", "abbrechen"))
}

func (m *shell) viewSpeaking(width int) []string {
	t := m.ctrl.Task()
	partner := fmt.Sprintf("Gesprächspartner: %s (%s)", t.Interlocutor, addressLabel(t))
	if err := m.ctrl.CaptureErr(); err != nil {
		lines := []string{warnStyle.Render("Mikrofon nicht verfügbar")}
		for _, l := range wrapText(err.Error(), width) {
			lines = append(lines, dimStyle.Render(l))
		}
		return append(lines, "", help("r", "erneut versuchen", "esc", "abbrechen"))
	}
	lines := []string{
		m.countdownLine("● REC", recStyle),
		dimStyle.Render(partner),
		"",
		"Pegel " + bar(m.ctrl.Level()/recorder.SpeechLevel/10, 20),
	}
	if m.ctrl.SilenceWarned() {
		lines = append(lines, warnStyle.Render("⚠ keine Stimme erkannt"))
	}
	lines = append(lines, "", titleStyle.Render(m.ctrl.Content().Title))
	lines = append(lines, wrapText(m.ctrl.Content().TaskText, width)...)
	return append(lines, "", help("enter", "Aufnahme beenden", "esc", "abbrechen"))
}

func addressLabel(t catalog.Task) string {
	if t.Register == catalog.RegisterInformal {
		return "informell, du"
	}
	return "formell, Sie"
}

func (m *shell) viewAnalysis(int) []string {
	lines := []string{m.spinner() + " " + titleStyle.Render("Analyse läuft")}
	shown := min(m.frame/8%(len(analysisSteps)+1)+1, len(analysisSteps))
	for _, s := range analysisSteps[:shown] {
		lines = append(lines, dimStyle.Render("  "+s))
	}
	return append(lines, "", help("esc", "abbrechen"))
}

func (m *shell) viewFeedback(width int) []string {
	text := m.ctrl.Report()
	var lines []string
	if scores := report.Scores(text); len(scores) > 0 {
		lines = append(lines, titleStyle.Render("Bewertung"))
		for _, s := range scores {
			lines = append(lines, fmt.Sprintf("%s %s %.1f/%d",
				padRight(s.Dimension, 22), bar(s.Value/report.MaxScore, 10), s.Value, report.MaxScore))
		}
		lines = append(lines, dimStyle.Render(fmt.Sprintf("Durchschnitt %.1f", report.Average(scores))), "")
	}

	body := wrapText(text, width)
	avail := len(body)
	if m.height > 0 {
		avail = max(m.height-len(lines)-6, 3)
	}
	m.scroll = min(m.scroll, max(len(body)-avail, 0))
	lines = append(lines, body[m.scroll:min(m.scroll+avail, len(body))]...)

	footer := help("r", "noch einmal", "c", "kopieren", "↑/↓", "scrollen", "enter", "zur Auswahl")
	if m.notice != "" {
		footer += "  " + okStyle.Render(m.notice)
	}
	return append(lines, "", footer)
}
