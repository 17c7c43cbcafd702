package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"kuchen/audio"
	"kuchen/beep"
	"kuchen/catalog"
	"kuchen/clipboard"
	"kuchen/config"
	"kuchen/log"
	"kuchen/provider"
	"kuchen/recorder"
	"kuchen/session"
	"kuchen/shutdown"
)

// initLogging opens the diagnostics and feedback logs. Failures are reported and otherwise ignored.
func initLogging(cfg config.Config, debugLog bool) {
	dir, err := log.ResolveDir(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to resolve log directory: %v\n", err)
		return
	}
	log.SetDir(dir)
	log.SetDebug(debugLog)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
		return
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	if crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
}

func closeProvider(p provider.Provider) {
	if c, ok := p.(io.Closer); ok {
		c.Close()
	}
}

// resolveDevice picks the microphone: interactively, by name, or nil for the system default.
func resolveDevice(actx audio.Context, name string, setup bool) (*audio.DeviceInfo, error) {
	if setup {
		dev, err := audio.SelectDevice(actx)
		if errors.Is(err, audio.ErrSelectionCancelled) {
			return nil, nil
		}
		return dev, err
	}
	if name == "" {
		return nil, nil
	}
	dev := audio.FindDevice(actx, name)
	if dev == nil {
		log.Warnf("device %q not found, using system default", name)
		fmt.Fprintf(os.Stderr, "Warning: device %q not found, using system default\n", name)
	}
	return dev, nil
}

func statusLine(p provider.Provider, dev *audio.DeviceInfo) string {
	mic := "system default"
	if dev != nil {
		mic = dev.Name
		if audio.IsBluetooth(dev.Name) {
			mic += " (BT!)"
		}
	}
	return p.Name() + " · mic: " + mic
}

func recordingFormat(cfg config.Config, p provider.Provider) string {
	if cfg.Format != "" {
		return cfg.Format
	}
	return p.AudioFormat()
}

func runTUI(ctx context.Context, g *globalFlags, setup bool) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	initLogging(cfg, g.debug)
	defer log.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	p, err := provider.New(ctx, cfg.Provider, cfg.Model)
	if err != nil {
		return err
	}
	defer closeProvider(p)

	actx, err := audio.NewContext()
	if err != nil {
		return fmt.Errorf("%w: %v", recorder.ErrDeviceUnavailable, err)
	}
	defer actx.Close()

	dev, err := resolveDevice(actx, cfg.Device, setup)
	if err != nil {
		return err
	}
	if cfg.Mute {
		beep.Disable()
	}

	m := newShell(shellDeps{
		tasks:            catalog.All(),
		provider:         p,
		recorder:         recorder.New(actx, dev, recordingFormat(cfg, p)),
		sessionOpts:      session.Options{Cues: beep.Cues{}},
		showInstructions: cfg.ShowInstructions(),
		status:           statusLine(p, dev),
		copy:             clipboard.Copy,
	})
	prog := tea.NewProgram(m, tea.WithAltScreen())
	stop := shutdown.Watch(func() { prog.Quit() })
	defer stop()

	_, err = prog.Run()
	m.endSession()
	return err
}
