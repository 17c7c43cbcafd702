package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kuchen/config"
	"kuchen/provider"
)

func TestExitCode(t *testing.T) {
	for _, tt := range []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{errors.New("boom"), exitError},
		{fmt.Errorf("load: %w", config.ErrInvalid), exitConfig},
		{provider.ErrNoProvider, exitConfig},
		{errChecksFailed, exitError},
	} {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("provider: openai\nlang: none\nformat: flac\n"), 0644); err != nil {
		t.Fatal(err)
	}
	g := &globalFlags{configPath: path, provider: "fake"}
	cfg, err := g.load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "fake" {
		t.Errorf("Provider = %q, want flag value", cfg.Provider)
	}
	if cfg.Format != "flac" || cfg.Lang != "none" {
		t.Errorf("file values lost: %+v", cfg)
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	g := &globalFlags{configPath: filepath.Join(t.TempDir(), "missing.yaml")}
	if _, err := g.load(); exitCode(err) != exitConfig {
		t.Errorf("err = %v, want a config error", err)
	}
}

func TestInvalidFlag(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	g := &globalFlags{lang: "fr"}
	if _, err := g.load(); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestTasksCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"tasks"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Aufgabe 1: Informationen einholen", "Grafik beschreiben", "180 s", "informal"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("tasks output misses %q:\n%s", want, out.String())
		}
	}
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"config", "logpath", "debug", "provider", "model", "format", "lang", "mute", "device"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
	if cmd.Flags().Lookup("setup") == nil {
		t.Error("missing --setup")
	}
	for _, sub := range []string{"tasks", "doctor", "script"} {
		if c, _, err := cmd.Find([]string{sub}); err != nil || c.Name() != sub {
			t.Errorf("subcommand %q not registered", sub)
		}
	}
}

func TestScriptCommandWithFakeProvider(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("SELECT 1\nWAIT ready\nSTART\nSKIP\nSTOP\nWAIT\nQUIT\n"))
	cmd.SetArgs([]string{"script", "--logpath", dir, "--tone", "1s", "--tick", "1h"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "stage feedback") {
		t.Errorf("output:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "feedback_log.txt")); err != nil {
		t.Errorf("feedback log not written: %v", err)
	}
}
