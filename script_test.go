package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"kuchen/audio"
	"kuchen/catalog"
	"kuchen/encoder"
	"kuchen/provider"
	"kuchen/recorder"
	"kuchen/session"
)

func scriptDeps(fake *provider.Fake, tick time.Duration) shellDeps {
	return shellDeps{
		tasks:       catalog.All(),
		provider:    fake,
		recorder:    recorder.New(audio.NewToneContext(encoder.SampleRate, time.Second), nil, encoder.FormatWAV),
		sessionOpts: session.Options{TickInterval: tick},
	}
}

func runScriptText(t *testing.T, deps shellDeps, script string) []string {
	t.Helper()
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- runScript(deps, strings.NewReader(script), &out) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runScript: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("script did not finish")
	}
	var events []string
	for _, l := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(l, "session ") || strings.HasPrefix(l, "stage ") ||
			l == "ready" || l == "exit" || strings.HasPrefix(l, "report ") {
			events = append(events, l)
		}
	}
	return events
}

func TestScriptManualRun(t *testing.T) {
	fake := provider.NewFake()
	events := runScriptText(t, scriptDeps(fake, time.Hour), `
# card, skip preparation, stop early
SELECT 1
WAIT ready
START
WAIT stage preparation
SKIP
WAIT stage speaking
STOP
WAIT
EXIT
QUIT
`)
	want := []string{
		"session 1", "stage card", "ready", "stage preparation", "stage speaking",
		"stage analysis", "stage feedback", "report ## Prozesslogik (Aufgabe 1)", "exit",
	}
	if strings.Join(events, "|") != strings.Join(want, "|") {
		t.Errorf("events = %q\nwant %q", events, want)
	}
	if _, analyzed := fake.Calls(); analyzed != 1 {
		t.Errorf("Analyze calls = %d", analyzed)
	}
}

func TestScriptCountdownsExpire(t *testing.T) {
	events := runScriptText(t, scriptDeps(provider.NewFake(), time.Millisecond), `
SELECT 1
WAIT ready
START
WAIT
QUIT
`)
	joined := strings.Join(events, "|")
	if !strings.Contains(joined, "stage speaking|stage analysis|stage feedback") {
		t.Errorf("events = %q", events)
	}
}

func TestScriptRetry(t *testing.T) {
	fake := provider.NewFake()
	runScriptText(t, scriptDeps(fake, time.Hour), `
SELECT 2
WAIT ready
START
SKIP
STOP
WAIT
RETRY
WAIT stage card
START
SKIP
STOP
WAIT
QUIT
`)
	gen, analyzed := fake.Calls()
	if gen != 1 || analyzed != 2 {
		t.Errorf("calls = %d/%d, want 1 generation and 2 analyses", gen, analyzed)
	}
}

func TestScriptEndsOnEOF(t *testing.T) {
	events := runScriptText(t, scriptDeps(provider.NewFake(), time.Hour), "BOGUS\nSELECT 4\nWAIT ready\n")
	if len(events) == 0 || events[len(events)-1] != "exit" {
		t.Errorf("events = %q, want the session closed on EOF", events)
	}
}
