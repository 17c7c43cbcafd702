package recorder

import "testing"

func TestSilenceMonitorWarnsAfterWindow(t *testing.T) {
	m := NewSilenceMonitor()
	for i := range silenceWarnAfter - 1 {
		if ev := m.Tick(0); ev != SilenceNone {
			t.Fatalf("tick %d: got %v before window filled", i, ev)
		}
	}
	if ev := m.Tick(0); ev != SilenceWarn {
		t.Fatalf("got %v, want SilenceWarn", ev)
	}
	if ev := m.Tick(0); ev != SilenceNone {
		t.Errorf("warning repeated: %v", ev)
	}
	if !m.Warned() {
		t.Error("Warned() = false")
	}
}

func TestSilenceMonitorClears(t *testing.T) {
	m := NewSilenceMonitor()
	for range silenceWarnAfter {
		m.Tick(0)
	}
	// one loud second is 1/8 of the window: not enough
	if ev := m.Tick(0.5); ev != SilenceNone {
		t.Fatalf("got %v after one loud tick", ev)
	}
	if ev := m.Tick(0.5); ev != SilenceWarnClear {
		t.Fatalf("got %v, want SilenceWarnClear", ev)
	}
	if m.Warned() {
		t.Error("still warned")
	}
}

func TestSilenceMonitorSpeechNeverWarns(t *testing.T) {
	m := NewSilenceMonitor()
	for i := range 30 {
		level := 0.0
		if i%3 == 0 {
			level = 0.1
		}
		if ev := m.Tick(level); ev == SilenceWarn {
			t.Fatalf("warned at tick %d with regular speech", i)
		}
	}
}
