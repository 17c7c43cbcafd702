// Package beep plays the short cues around the speaking countdown.
package beep

import (
	"math"
	"sync"
	"sync/atomic"
)

const sampleRate = 44100

type cue struct {
	freq     float64
	duration float64 // seconds per tone
	volume   float64
	decay    float64
	gap      float64 // seconds of silence before a second tone; 0 plays one tone
}

var (
	// high and short: speak now
	startCue = cue{freq: 1200, duration: 0.12, volume: 0.5, decay: 60}
	// lower and longer: recording finished
	endCue = cue{freq: 900, duration: 0.2, volume: 0.5, decay: 40}
	// low double beep: microphone problem
	errorCue = cue{freq: 350, duration: 0.08, volume: 0.6, decay: 30, gap: 0.05}
)

var (
	disabled atomic.Bool
	prepOnce sync.Once

	startSamples []int16
	endSamples   []int16
	errorSamples []int16
)

// Disable silences all cues for the rest of the process.
func Disable() { disabled.Store(true) }

func prepare() {
	startSamples = startCue.samples()
	endSamples = endCue.samples()
	errorSamples = errorCue.samples()
	initOutput()
}

// samples renders the cue as mono 16-bit PCM at sampleRate.
func (c cue) samples() []int16 {
	one := tone(c.freq, c.duration, c.volume, c.decay)
	if c.gap <= 0 {
		return one
	}
	gap := make([]int16, int(sampleRate*c.gap))
	out := make([]int16, 0, 2*len(one)+len(gap))
	out = append(out, one...)
	out = append(out, gap...)
	return append(out, one...)
}

func tone(freq, duration, volume, decay float64) []int16 {
	n := int(sampleRate * duration)
	out := make([]int16, n)
	for i := range out {
		t := float64(i) / sampleRate
		envelope := math.Exp(-t * decay)
		out[i] = int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * envelope)
	}
	return out
}

func play(samples *[]int16) {
	if disabled.Load() {
		return
	}
	prepOnce.Do(prepare)
	output(*samples)
}

// Cues plays the session cues on the default output device. The zero value is ready to use.
type Cues struct{}

func (Cues) Start() { play(&startSamples) }
func (Cues) End()   { play(&endSamples) }
func (Cues) Error() { play(&errorSamples) }
