// Package doctor runs the system checks behind `kuchen doctor`.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"kuchen/audio"
	"kuchen/catalog"
	"kuchen/encoder"
	"kuchen/log"
	"kuchen/provider"
	"kuchen/recorder"
	"kuchen/shutdown"
)

const (
	defaultRecordFor = 3 * time.Second
	generateTimeout  = 30 * time.Second
	clipboardTimeout = 3 * time.Second
)

var errSkip = errors.New("skipped")

type Options struct {
	Out      io.Writer
	LogDir   string
	Provider provider.Provider
	Format   string
	Device   string

	// Audio opens the audio backend. Nil skips the microphone check.
	Audio     func() (audio.Context, error)
	RecordFor time.Duration

	// Copy and Read reach the system clipboard. Nil skips the clipboard check.
	Copy func(string) error
	Read func() (string, error)
}

type check struct {
	name string
	run  func(ctx context.Context, o *Options) error
}

var checks = []check{
	{"Log directory", checkLogDir},
	{"Content provider", checkProvider},
	{"Microphone", checkMicrophone},
	{"Clipboard", checkClipboard},
}

// Run executes every check in order and returns an exit code (0=all pass, 1=any fail).
func Run(opts Options) int {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.RecordFor <= 0 {
		opts.RecordFor = defaultRecordFor
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	interrupts := make(chan os.Signal, 1)
	shutdown.Notify(interrupts)
	defer signal.Stop(interrupts)
	go func() {
		select {
		case <-interrupts:
			cancel()
		case <-ctx.Done():
		}
	}()

	fmt.Fprintln(opts.Out, "kuchen doctor - system diagnostics")
	fmt.Fprintln(opts.Out, "==================================")

	failed := 0
	for i, c := range checks {
		fmt.Fprintln(opts.Out)
		fmt.Fprintf(opts.Out, "[%d/%d] %s\n", i+1, len(checks), c.name)
		err := c.run(ctx, &opts)
		switch {
		case err == nil:
		case errors.Is(err, errSkip):
			fmt.Fprintf(opts.Out, "  SKIP: %v\n", err)
		default:
			fmt.Fprintf(opts.Out, "  FAIL: %v\n", err)
			log.Warnf("doctor: %s: %v", c.name, err)
			failed++
		}
		if ctx.Err() != nil {
			fmt.Fprintln(opts.Out, "Interrupted.")
			return 1
		}
	}

	fmt.Fprintln(opts.Out)
	if failed > 0 {
		fmt.Fprintln(opts.Out, "Some checks failed. See details above.")
		return 1
	}
	fmt.Fprintln(opts.Out, "All checks passed!")
	return 0
}

func pass(o *Options, format string, args ...any) {
	fmt.Fprintf(o.Out, "  PASS: "+format+"\n", args...)
}

func checkLogDir(_ context.Context, o *Options) error {
	if o.LogDir == "" {
		return fmt.Errorf("%w: logging disabled", errSkip)
	}
	if err := os.MkdirAll(o.LogDir, 0755); err != nil {
		return fmt.Errorf("cannot create %s: %w", o.LogDir, err)
	}
	f, err := os.CreateTemp(o.LogDir, ".doctor-*")
	if err != nil {
		return fmt.Errorf("%s is not writable: %w", o.LogDir, err)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	pass(o, "%s is writable", o.LogDir)
	return nil
}

func checkProvider(ctx context.Context, o *Options) error {
	if o.Provider == nil {
		return fmt.Errorf("%w: no provider configured", errSkip)
	}
	task, err := catalog.Lookup(1)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	start := time.Now()
	content, err := o.Provider.Generate(ctx, task)
	if err != nil {
		return fmt.Errorf("%s: %w", o.Provider.Name(), err)
	}
	if err := content.Validate(task); err != nil {
		return fmt.Errorf("%s returned unusable content: %w", o.Provider.Name(), err)
	}
	pass(o, "%s generated %q in %s", o.Provider.Name(), content.Title, time.Since(start).Round(time.Millisecond))
	return nil
}

func checkMicrophone(ctx context.Context, o *Options) error {
	if o.Audio == nil {
		return fmt.Errorf("%w: no audio backend", errSkip)
	}
	actx, err := o.Audio()
	if err != nil {
		return fmt.Errorf("cannot connect to audio: %w", err)
	}
	defer actx.Close()

	devices, err := actx.Devices()
	if err != nil {
		return fmt.Errorf("cannot list devices: %w", err)
	}
	if len(devices) == 0 {
		return errors.New("no capture devices found")
	}
	var dev *audio.DeviceInfo
	if o.Device != "" {
		if dev = audio.FindDevice(actx, o.Device); dev == nil {
			return fmt.Errorf("device %q not found", o.Device)
		}
	}
	name := "system default"
	if dev != nil {
		name = dev.Name
	}

	format := o.Format
	if format == "" {
		format = encoder.FormatWAV
	}
	rec := recorder.New(actx, dev, format)
	done := make(chan recorder.Buffer, 1)
	fmt.Fprintf(o.Out, "  Speak for %s (%s)...\n", o.RecordFor, name)
	if err := rec.StartCapture(func(b recorder.Buffer) { done <- b }); err != nil {
		return err
	}

	var peak float64
	ticker := time.NewTicker(100 * time.Millisecond)
	deadline := time.After(o.RecordFor)
loop:
	for {
		select {
		case <-ticker.C:
			peak = max(peak, rec.TakePeak())
		case <-deadline:
			break loop
		case <-ctx.Done():
			break loop
		}
	}
	ticker.Stop()
	peak = max(peak, rec.TakePeak())
	rec.StopCapture()

	var buf recorder.Buffer
	select {
	case buf = <-done:
	default:
		return errors.New("recording was not finalized")
	}
	if len(buf.Data) == 0 {
		return errors.New("no audio captured")
	}
	if peak < recorder.SpeechLevel {
		return fmt.Errorf("only silence captured (peak %.3f); check the input volume", peak)
	}
	pass(o, "recorded %.1f KB %s, peak level %.2f", float64(len(buf.Data))/1024, buf.MIMEType, peak)
	return nil
}

func checkClipboard(ctx context.Context, o *Options) error {
	if o.Copy == nil || o.Read == nil {
		return fmt.Errorf("%w: no clipboard access", errSkip)
	}
	want := fmt.Sprintf("kuchen-doctor-%d\n", time.Now().UnixNano())

	type result struct {
		got   string
		err   error
		phase string
	}
	ch := make(chan result, 1)
	go func() {
		if err := o.Copy(want); err != nil {
			ch <- result{err: err, phase: "write"}
			return
		}
		got, err := o.Read()
		ch <- result{got: got, err: err, phase: "read"}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return fmt.Errorf("clipboard %s failed: %w", res.phase, res.err)
		}
		if res.got != want {
			return fmt.Errorf("clipboard mismatch: wrote %q, got %q", want, res.got)
		}
		pass(o, "clipboard write/read verified")
		return nil
	case <-time.After(clipboardTimeout):
		return errors.New("clipboard timed out (clipboard tool hung?)")
	case <-ctx.Done():
		return ctx.Err()
	}
}
