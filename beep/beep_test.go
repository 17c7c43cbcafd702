package beep

import "testing"

func TestCueSamples(t *testing.T) {
	start := startCue.samples()
	if want := int(sampleRate * startCue.duration); len(start) != want {
		t.Errorf("start cue = %d samples, want %d", len(start), want)
	}

	one := tone(errorCue.freq, errorCue.duration, errorCue.volume, errorCue.decay)
	double := errorCue.samples()
	if want := 2*len(one) + int(sampleRate*errorCue.gap); len(double) != want {
		t.Errorf("error cue = %d samples, want %d", len(double), want)
	}

	var peak int16
	for _, s := range start {
		peak = max(peak, s, -s)
	}
	if limit := int16(32767 * startCue.volume); peak == 0 || peak > limit {
		t.Errorf("peak = %d, want (0, %d]", peak, limit)
	}
}

func TestDisabledCuesDoNotPrepareOutput(t *testing.T) {
	Disable()
	Cues{}.Start()
	Cues{}.Error()
	if startSamples != nil {
		t.Error("disabled cue rendered samples")
	}
}
