package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"kuchen/catalog"
	"kuchen/log"
	"kuchen/session"
)

type screen int

const (
	ScreenWelcome screen = iota
	ScreenSelection
	ScreenSession
)

const animInterval = 120 * time.Millisecond

type animMsg struct{}

// shellDeps is everything the shell needs to create sessions.
type shellDeps struct {
	tasks            []catalog.Task
	provider         session.Provider
	recorder         session.Recorder
	sessionOpts      session.Options
	showInstructions bool
	status           string
	copy             func(string) error
	// events receives stage changes for the scripted driver. Nil outside script mode.
	events chan<- string
	// animInterval overrides the spinner frame interval.
	animInterval time.Duration
}

// shell switches between the welcome screen, the task list and one running session.
type shell struct {
	deps shellDeps

	screen        screen
	cursor        int
	task          catalog.Task
	ctrl          *session.Controller
	width, height int
	frame         int

	instructions bool
	scroll       int
	notice       string

	lastStage   session.Stage
	lastLoading bool
}

func newShell(deps shellDeps) *shell {
	if deps.animInterval <= 0 {
		deps.animInterval = animInterval
	}
	return &shell{deps: deps}
}

func (m *shell) animate() tea.Cmd {
	return tea.Tick(m.deps.animInterval, func(time.Time) tea.Msg { return animMsg{} })
}

func (m *shell) Init() tea.Cmd {
	return m.animate()
}

func (m *shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case animMsg:
		m.frame++
		return m, m.animate()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.endSession()
			return m, tea.Quit
		}
		return m, m.handleKey(msg.String())
	}
	if m.ctrl == nil {
		return m, nil
	}
	cmd := m.ctrl.Update(msg)
	m.observe()
	return m, cmd
}

func (m *shell) handleKey(key string) tea.Cmd {
	switch m.screen {
	case ScreenWelcome:
		switch key {
		case "enter", " ":
			m.screen = ScreenSelection
		case "q", "esc":
			return tea.Quit
		default:
			return m.selectDigit(key)
		}
	case ScreenSelection:
		switch key {
		case "up", "k":
			m.cursor = (m.cursor + len(m.deps.tasks) - 1) % len(m.deps.tasks)
		case "down", "j":
			m.cursor = (m.cursor + 1) % len(m.deps.tasks)
		case "enter", " ":
			return m.startSession(m.cursor)
		case "esc":
			m.screen = ScreenWelcome
		case "q":
			return tea.Quit
		default:
			return m.selectDigit(key)
		}
	case ScreenSession:
		cmd := m.sessionKey(key)
		m.observe()
		return cmd
	}
	return nil
}

func (m *shell) selectDigit(key string) tea.Cmd {
	if len(key) != 1 || key[0] < '1' || int(key[0]-'0') > len(m.deps.tasks) {
		return nil
	}
	return m.startSession(int(key[0]-'1'))
}

// sessionKey maps a key to the controller action valid in the current stage.
func (m *shell) sessionKey(key string) tea.Cmd {
	c := m.ctrl
	if key == "esc" || key == "q" {
		m.endSession()
		return nil
	}
	switch c.Stage() {
	case session.StageCard:
		switch key {
		case "enter", " ":
			return c.StartPreparation()
		case "i":
			m.instructions = !m.instructions
		}
	case session.StagePreparation:
		switch key {
		case "enter", " ", "s":
			return c.Skip()
		case "i":
			m.instructions = !m.instructions
		}
	case session.StageSpeaking:
		switch key {
		case "enter", " ", "s":
			return c.StopSpeaking()
		case "r":
			return c.RetryCapture()
		}
	case session.StageFeedback:
		switch key {
		case "r":
			return c.Retry()
		case "c":
			m.copyReport()
		case "up", "k":
			m.scroll = max(m.scroll-1, 0)
		case "down", "j":
			m.scroll++
		case "enter":
			m.endSession()
		}
	}
	return nil
}

func (m *shell) startSession(i int) tea.Cmd {
	m.endSession()
	m.cursor = i
	m.task = m.deps.tasks[i]
	m.ctrl = session.New(m.task, m.deps.provider, m.deps.recorder, m.deps.sessionOpts)
	m.screen = ScreenSession
	m.instructions = m.deps.showInstructions
	m.scroll = 0
	m.notice = ""
	cmd := m.ctrl.Init()
	m.lastStage = m.ctrl.Stage()
	m.lastLoading = m.ctrl.Loading()
	m.emit(fmt.Sprintf("session %d", m.task.ID))
	m.emit("stage " + m.lastStage.String())
	return cmd
}

// endSession destroys the running session and returns to the task list.
func (m *shell) endSession() {
	if m.ctrl == nil {
		return
	}
	m.ctrl.Exit()
	m.ctrl = nil
	m.screen = ScreenSelection
	m.emit("exit")
}

// observe reports stage changes to the script driver and resets per-stage view state.
func (m *shell) observe() {
	if m.ctrl == nil {
		return
	}
	if loading := m.ctrl.Loading(); m.lastLoading && !loading {
		m.emit("ready")
	}
	m.lastLoading = m.ctrl.Loading()

	stage := m.ctrl.Stage()
	if stage == m.lastStage {
		return
	}
	m.lastStage = stage
	m.scroll = 0
	m.notice = ""
	m.emit("stage " + stage.String())
	if stage == session.StageFeedback {
		m.emit("report " + m.ctrl.Report())
	}
}

func (m *shell) emit(event string) {
	if m.deps.events != nil {
		m.deps.events <- event
	}
}

func (m *shell) copyReport() {
	if m.deps.copy == nil {
		return
	}
	if err := m.deps.copy(m.ctrl.Report()); err != nil {
		log.Warnf("copy report: %v", err)
		m.notice = "Kopieren fehlgeschlagen"
		return
	}
	m.notice = "✓ kopiert"
}
