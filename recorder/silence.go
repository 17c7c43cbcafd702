package recorder

// SpeechLevel is the RMS level above which a one-second window counts as speech.
const SpeechLevel = 0.02

const (
	silenceWarnAfter = 8    // seconds without speech before warning
	speechClearRatio = 0.25 // share of the warn window that must be speech to clear it
)

type SilenceEvent int

const (
	SilenceNone SilenceEvent = iota
	SilenceWarn
	SilenceWarnClear
)

// SilenceMonitor watches one-second level samples and flags a speaker who has gone quiet.
type SilenceMonitor struct {
	window []bool
	ticks  int
	warned bool
}

func NewSilenceMonitor() *SilenceMonitor {
	return &SilenceMonitor{window: make([]bool, silenceWarnAfter)}
}

func (m *SilenceMonitor) speechRatio() float64 {
	n := min(m.ticks, len(m.window))
	if n == 0 {
		return 1
	}
	count := 0
	for i := range n {
		if m.window[(m.ticks-1-i+len(m.window))%len(m.window)] {
			count++
		}
	}
	return float64(count) / float64(n)
}

// Tick records one second of audio with the given peak level.
func (m *SilenceMonitor) Tick(peak float64) SilenceEvent {
	m.window[m.ticks%len(m.window)] = peak >= SpeechLevel
	m.ticks++

	r := m.speechRatio()
	if !m.warned && m.ticks >= len(m.window) && r == 0 {
		m.warned = true
		return SilenceWarn
	}
	if m.warned && r >= speechClearRatio {
		m.warned = false
		return SilenceWarnClear
	}
	return SilenceNone
}

func (m *SilenceMonitor) Warned() bool { return m.warned }
