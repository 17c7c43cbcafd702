// Package session runs one practice attempt through its stages: task card, preparation, speaking,
// analysis and feedback.
//
// A Controller is driven from a single bubbletea event loop. Provider calls and capture run inside
// tea.Cmds and report back as messages tagged with the session token, so a result that arrives
// after Exit is dropped.
package session

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"kuchen/catalog"
	"kuchen/log"
	"kuchen/provider"
	"kuchen/recorder"
	"kuchen/timer"
)

//go:generate go tool mockgen -destination=mocks_test.go -package=session . Provider,Recorder

// Provider writes task cards and grades recordings.
type Provider interface {
	Name() string
	Generate(ctx context.Context, task catalog.Task) (*provider.GeneratedContent, error)
	Analyze(ctx context.Context, audio []byte, mimeType string, task catalog.Task, content *provider.GeneratedContent) (string, error)
}

// Recorder captures one answer per StartCapture/StopCapture pair.
type Recorder interface {
	StartCapture(onComplete func(recorder.Buffer)) error
	StopCapture()
	Active() bool
	Level() float64
	TakePeak() float64
}

// Cues are the short sounds played around speaking.
type Cues interface {
	Start()
	End()
	Error()
}

type Options struct {
	Cues            Cues
	TickInterval    time.Duration
	CaptureTimeout  time.Duration
	GenerateTimeout time.Duration
	AnalyzeTimeout  time.Duration
}

const (
	defaultCaptureTimeout  = 5 * time.Second
	defaultGenerateTimeout = time.Minute
	defaultAnalyzeTimeout  = 3 * time.Minute
)

var errCaptureLost = errors.New("recorder stopped without a recording")

var lastToken atomic.Uint64

func nextToken() uint64 { return lastToken.Add(1) }

type Controller struct {
	task     catalog.Task
	provider Provider
	rec      Recorder
	opts     Options

	ctx    context.Context
	cancel context.CancelFunc
	token  uint64
	closed bool

	stage     Stage
	countdown timer.Countdown
	tickSeq   uint64

	content    *provider.GeneratedContent
	generating bool

	captureCh  chan recorder.Buffer
	pending    recorder.Buffer
	captureErr error
	stopping   bool
	silence    *recorder.SilenceMonitor

	analyzing bool
	report    string
	attempts  int
}

// New creates a session for task. Call Init to issue the content request.
func New(task catalog.Task, p Provider, rec Recorder, opts Options) *Controller {
	if opts.Cues == nil {
		opts.Cues = noCues{}
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.CaptureTimeout <= 0 {
		opts.CaptureTimeout = defaultCaptureTimeout
	}
	if opts.GenerateTimeout <= 0 {
		opts.GenerateTimeout = defaultGenerateTimeout
	}
	if opts.AnalyzeTimeout <= 0 {
		opts.AnalyzeTimeout = defaultAnalyzeTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		task:     task,
		provider: p,
		rec:      rec,
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
		token:    nextToken(),
		attempts: 1,
	}
}

// Init enters the task card stage.
func (c *Controller) Init() tea.Cmd {
	log.SessionStart(c.task.ID, c.provider.Name())
	return stages[StageCard].enter(c)
}

func (c *Controller) Task() catalog.Task                  { return c.task }
func (c *Controller) Stage() Stage                        { return c.stage }
func (c *Controller) Content() *provider.GeneratedContent { return c.content }
func (c *Controller) Report() string                      { return c.report }
func (c *Controller) CaptureErr() error                   { return c.captureErr }
func (c *Controller) Attempts() int                       { return c.attempts }
func (c *Controller) Closed() bool                        { return c.closed }

// Loading reports whether the task card is still waiting for content.
func (c *Controller) Loading() bool { return c.stage == StageCard && c.content == nil }

// Remaining is the countdown value for the current stage in seconds.
func (c *Controller) Remaining() int { return c.countdown.Remaining() }

// Progress is the remaining share of the current countdown.
func (c *Controller) Progress() float64 { return c.countdown.Progress() }

// Recording reports whether the microphone is capturing.
func (c *Controller) Recording() bool {
	return c.stage == StageSpeaking && c.captureErr == nil && !c.stopping && c.rec.Active()
}

func (c *Controller) Level() float64 {
	if !c.Recording() {
		return 0
	}
	return c.rec.Level()
}

func (c *Controller) SilenceWarned() bool {
	return c.silence != nil && c.Recording() && c.silence.Warned()
}

// Update routes a message to the current stage's handler.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	if c.closed {
		return nil
	}
	h := stages[c.stage]
	switch m := msg.(type) {
	case tickMsg:
		if m.token != c.token || m.seq != c.tickSeq || !c.countdown.Active() || h.tick == nil {
			return nil
		}
		return h.tick(c)
	case generatedMsg:
		if m.token == c.token && h.generated != nil {
			return h.generated(c, m)
		}
	case capturedMsg:
		if m.token == c.token && h.captured != nil {
			return h.captured(c, m)
		}
	case analyzedMsg:
		if m.token == c.token && h.analyzed != nil {
			return h.analyzed(c, m)
		}
	}
	return nil
}

func (c *Controller) transition(to Stage) tea.Cmd {
	log.Stage(c.task.ID, c.stage.String(), to.String())
	c.countdown.Stop()
	c.stage = to
	return stages[to].enter(c)
}

// startCountdown arms the countdown and schedules its first tick. Ticks from earlier countdowns
// carry an older sequence number and are dropped.
func (c *Controller) startCountdown(seconds int) tea.Cmd {
	c.tickSeq++
	c.countdown.Start(seconds, nil)
	return c.scheduleTick()
}

func (c *Controller) scheduleTick() tea.Cmd {
	m := tickMsg{token: c.token, seq: c.tickSeq}
	return tea.Tick(c.opts.TickInterval, func(time.Time) tea.Msg { return m })
}

// StartPreparation leaves the task card once content is available.
func (c *Controller) StartPreparation() tea.Cmd {
	if c.closed || c.stage != StageCard || c.content == nil {
		return nil
	}
	return c.transition(StagePreparation)
}

// Skip ends preparation early.
func (c *Controller) Skip() tea.Cmd {
	if c.closed || c.stage != StagePreparation {
		return nil
	}
	return c.transition(StageSpeaking)
}

// StopSpeaking ends the recording early.
func (c *Controller) StopSpeaking() tea.Cmd {
	if c.closed || c.stage != StageSpeaking || c.captureErr != nil {
		return nil
	}
	return c.stopCapture()
}

// RetryCapture re-enters the speaking stage after the microphone could not be opened.
func (c *Controller) RetryCapture() tea.Cmd {
	if c.closed || c.stage != StageSpeaking || c.captureErr == nil {
		return nil
	}
	return c.transition(StageSpeaking)
}

// Retry starts another attempt at the same task card. Content is not generated again.
func (c *Controller) Retry() tea.Cmd {
	if c.closed || c.stage != StageFeedback {
		return nil
	}
	c.attempts++
	return c.transition(StageCard)
}

// Exit ends the session. Pending results are dropped and the microphone is released.
func (c *Controller) Exit() {
	if c.closed {
		return
	}
	c.closed = true
	c.token = nextToken()
	c.cancel()
	c.countdown.Stop()
	if c.rec.Active() {
		c.rec.StopCapture()
	}
	c.captureCh = nil
	log.SessionEnd(c.task.ID, c.attempts)
}

type noCues struct{}

func (noCues) Start() {}
func (noCues) End()   {}
func (noCues) Error() {}
