package recorder

import (
	"errors"
	"strings"
	"testing"
	"time"

	"kuchen/audio"
	"kuchen/encoder"
)

func TestStopWithoutStartIsNoop(t *testing.T) {
	r := New(audio.NewToneContext(encoder.SampleRate, time.Second), nil, encoder.FormatWAV)
	r.StopCapture()
	if r.Active() {
		t.Error("recorder active after stray stop")
	}
}

func TestStartStopEmitsOnce(t *testing.T) {
	for _, format := range []string{encoder.FormatWAV, encoder.FormatFLAC, encoder.FormatAdaptive} {
		t.Run(format, func(t *testing.T) {
			ctx := audio.NewToneContext(encoder.SampleRate, 2*time.Second)
			r := New(ctx, nil, format)

			var got []Buffer
			if err := r.StartCapture(func(b Buffer) { got = append(got, b) }); err != nil {
				t.Fatalf("StartCapture: %v", err)
			}
			if !r.Active() {
				t.Fatal("not active after start")
			}
			r.StopCapture()
			r.StopCapture()

			if len(got) != 1 {
				t.Fatalf("callbacks = %d, want 1", len(got))
			}
			if len(got[0].Data) == 0 {
				t.Error("empty buffer")
			}
			if got[0].Duration != 2*time.Second {
				t.Errorf("Duration = %v, want 2s", got[0].Duration)
			}
			fc := ctx.Captures()[0]
			if !fc.Closed() {
				t.Error("microphone not released")
			}
			if r.Active() {
				t.Error("still active")
			}
		})
	}
}

func TestSecondStartIsNoop(t *testing.T) {
	ctx := audio.NewToneContext(encoder.SampleRate, time.Second)
	r := New(ctx, nil, encoder.FormatWAV)

	first, second := 0, 0
	if err := r.StartCapture(func(Buffer) { first++ }); err != nil {
		t.Fatal(err)
	}
	if err := r.StartCapture(func(Buffer) { second++ }); err != nil {
		t.Fatal(err)
	}
	if n := len(ctx.Captures()); n != 1 {
		t.Errorf("opened %d captures, want 1", n)
	}
	r.StopCapture()
	if first != 1 || second != 0 {
		t.Errorf("first=%d second=%d", first, second)
	}
}

func TestDeviceUnavailable(t *testing.T) {
	denied := errors.New("permission denied")
	for _, tt := range []struct {
		name  string
		setup func(*audio.FakeContext)
	}{
		{"no device", func(c *audio.FakeContext) { c.NewCaptureErr = audio.ErrNoDevice }},
		{"start fails", func(c *audio.FakeContext) { c.StartErr = denied }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			ctx := audio.NewToneContext(encoder.SampleRate, time.Second)
			tt.setup(ctx)
			r := New(ctx, nil, encoder.FormatWAV)

			called := false
			err := r.StartCapture(func(Buffer) { called = true })
			if !errors.Is(err, ErrDeviceUnavailable) {
				t.Fatalf("err = %v, want ErrDeviceUnavailable", err)
			}
			if r.Active() {
				t.Error("active after failed start")
			}
			for _, c := range ctx.Captures() {
				if !c.Closed() {
					t.Error("device not released after failed start")
				}
			}
			r.StopCapture()
			if called {
				t.Error("callback fired after failed start")
			}
		})
	}
}

func TestRecorderIsReusable(t *testing.T) {
	ctx := audio.NewToneContext(encoder.SampleRate, time.Second)
	r := New(ctx, nil, encoder.FormatWAV)
	count := 0
	for range 2 {
		if err := r.StartCapture(func(Buffer) { count++ }); err != nil {
			t.Fatal(err)
		}
		r.StopCapture()
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestLevelAndPeak(t *testing.T) {
	r := New(audio.NewToneContext(encoder.SampleRate, time.Second), nil, encoder.FormatWAV)
	if err := r.StartCapture(nil); err != nil {
		t.Fatal(err)
	}
	defer r.StopCapture()
	// half-amplitude sine: RMS ≈ 0.354
	if l := r.Level(); l < 0.3 || l > 0.4 {
		t.Errorf("Level = %v", l)
	}
	if p := r.TakePeak(); p < 0.3 {
		t.Errorf("TakePeak = %v", p)
	}
	if p := r.TakePeak(); p != 0 {
		t.Errorf("TakePeak after reset = %v", p)
	}
}

func TestBufferEncodings(t *testing.T) {
	b := Buffer{Data: []byte("abc"), MIMEType: "audio/wav"}
	if b.Base64() != "YWJj" {
		t.Errorf("Base64 = %q", b.Base64())
	}
	if !strings.HasPrefix(b.DataURL(), "data:audio/wav;base64,") {
		t.Errorf("DataURL = %q", b.DataURL())
	}
}
