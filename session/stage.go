package session

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

type Stage int

const (
	StageCard Stage = iota
	StagePreparation
	StageSpeaking
	StageAnalysis
	StageFeedback

	stageCount
)

var stageNames = [stageCount]string{
	StageCard:        "card",
	StagePreparation: "preparation",
	StageSpeaking:    "speaking",
	StageAnalysis:    "analysis",
	StageFeedback:    "feedback",
}

func (s Stage) String() string {
	if s < 0 || s >= stageCount {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// handler holds what a stage does on entry and which events it reacts to.
// A nil event handler means the event is ignored in that stage.
type handler struct {
	enter     func(c *Controller) tea.Cmd
	tick      func(c *Controller) tea.Cmd
	generated func(c *Controller, m generatedMsg) tea.Cmd
	captured  func(c *Controller, m capturedMsg) tea.Cmd
	analyzed  func(c *Controller, m analyzedMsg) tea.Cmd
}

var stages [stageCount]handler

func init() {
	stages = [stageCount]handler{
		StageCard: {
			enter:     (*Controller).enterCard,
			generated: (*Controller).onGenerated,
		},
		StagePreparation: {
			enter: (*Controller).enterPreparation,
			tick:  (*Controller).tickPreparation,
		},
		StageSpeaking: {
			enter:    (*Controller).enterSpeaking,
			tick:     (*Controller).tickSpeaking,
			captured: (*Controller).onCaptured,
		},
		StageAnalysis: {
			enter:    (*Controller).enterAnalysis,
			analyzed: (*Controller).onAnalyzed,
		},
		StageFeedback: {
			enter: (*Controller).enterFeedback,
		},
	}
	for s, h := range stages {
		if h.enter == nil {
			panic(fmt.Sprintf("session: stage %v has no entry handler", Stage(s)))
		}
	}
}
