package session

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"kuchen/log"
	"kuchen/provider"
	"kuchen/recorder"
)

type tickMsg struct {
	token uint64
	seq   uint64
}

type generatedMsg struct {
	token   uint64
	content *provider.GeneratedContent
	err     error
	elapsed time.Duration
}

type capturedMsg struct {
	token uint64
	buf   recorder.Buffer
	err   error
}

type analyzedMsg struct {
	token   uint64
	report  string
	err     error
	elapsed time.Duration
}

func (c *Controller) enterCard() tea.Cmd {
	c.report = ""
	c.captureErr = nil
	if c.content != nil || c.generating {
		return nil
	}
	c.generating = true
	ctx, p, task, token := c.ctx, c.provider, c.task, c.token
	timeout := c.opts.GenerateTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		start := time.Now()
		content, err := p.Generate(ctx, task)
		switch {
		case err != nil:
		case content == nil:
			err = fmt.Errorf("%w: empty response", provider.ErrGenerationFailed)
		default:
			err = content.Validate(task)
		}
		return generatedMsg{token: token, content: content, err: err, elapsed: time.Since(start)}
	}
}

func (c *Controller) onGenerated(m generatedMsg) tea.Cmd {
	if !c.generating {
		return nil
	}
	c.generating = false
	log.Generation(c.provider.Name(), m.elapsed, m.err)
	if m.err != nil {
		c.content = FallbackContent(c.task)
		return nil
	}
	c.content = m.content
	return nil
}

func (c *Controller) enterPreparation() tea.Cmd {
	return c.startCountdown(c.task.PrepSeconds)
}

func (c *Controller) tickPreparation() tea.Cmd {
	if c.countdown.Tick() {
		return c.transition(StageSpeaking)
	}
	return c.scheduleTick()
}

func (c *Controller) enterSpeaking() tea.Cmd {
	c.captureErr = nil
	c.stopping = false
	c.silence = recorder.NewSilenceMonitor()

	ch := make(chan recorder.Buffer, 1)
	if err := c.rec.StartCapture(func(b recorder.Buffer) {
		select {
		case ch <- b:
		default:
		}
	}); err != nil {
		log.Errorf("task %d: %v", c.task.ID, err)
		c.captureErr = err
		c.captureCh = nil
		cues := c.opts.Cues
		return func() tea.Msg { cues.Error(); return nil }
	}
	c.captureCh = ch
	cues := c.opts.Cues
	return tea.Batch(
		func() tea.Msg { cues.Start(); return nil },
		c.startCountdown(c.task.SpeakSeconds),
	)
}

func (c *Controller) tickSpeaking() tea.Cmd {
	switch c.silence.Tick(c.rec.TakePeak()) {
	case recorder.SilenceWarn:
		log.Warnf("task %d: no voice detected", c.task.ID)
	case recorder.SilenceWarnClear:
		log.Info("voice detected again")
	}
	if c.countdown.Tick() {
		return c.stopCapture()
	}
	return c.scheduleTick()
}

// stopCapture stops the recorder and waits for the buffer it emits. It runs at most once per
// speaking stage, whether the user or the countdown ends it.
func (c *Controller) stopCapture() tea.Cmd {
	if c.stopping || c.captureCh == nil {
		return nil
	}
	c.stopping = true
	c.countdown.Stop()
	c.rec.StopCapture()

	ch, token, timeout := c.captureCh, c.token, c.opts.CaptureTimeout
	c.captureCh = nil
	cues := c.opts.Cues
	return tea.Batch(
		func() tea.Msg { cues.End(); return nil },
		func() tea.Msg {
			select {
			case b := <-ch:
				return capturedMsg{token: token, buf: b}
			case <-time.After(timeout):
				return capturedMsg{token: token, err: errCaptureLost}
			}
		},
	)
}

func (c *Controller) onCaptured(m capturedMsg) tea.Cmd {
	if !c.stopping {
		return nil
	}
	if m.err != nil {
		log.Errorf("task %d: %v", c.task.ID, m.err)
	}
	c.pending = m.buf
	return c.transition(StageAnalysis)
}

func (c *Controller) enterAnalysis() tea.Cmd {
	buf := c.pending
	c.pending = recorder.Buffer{}
	c.analyzing = true
	token := c.token
	if len(buf.Data) == 0 {
		return func() tea.Msg {
			return analyzedMsg{token: token, err: errCaptureLost}
		}
	}
	ctx, p, task, content := c.ctx, c.provider, c.task, c.content
	timeout := c.opts.AnalyzeTimeout
	name := p.Name()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		start := time.Now()
		report, err := p.Analyze(ctx, buf.Data, buf.MIMEType, task, content)
		elapsed := time.Since(start)
		log.Analysis(name, buf.Duration, len(buf.Data), elapsed, err)
		return analyzedMsg{token: token, report: report, err: err, elapsed: elapsed}
	}
}

func (c *Controller) onAnalyzed(m analyzedMsg) tea.Cmd {
	if !c.analyzing {
		return nil
	}
	c.analyzing = false
	if m.err != nil || m.report == "" {
		c.report = AnalysisErrorReport
	} else {
		c.report = m.report
	}
	log.Feedback(c.task.ID, c.report)
	return c.transition(StageFeedback)
}

func (c *Controller) enterFeedback() tea.Cmd {
	return nil
}
