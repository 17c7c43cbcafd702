// Package log writes the diagnostics log and the feedback log. Every call is a no-op until Init succeeds.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	diagnosticsFile = "diagnostics_log.txt"
	feedbackFile    = "feedback_log.txt"
	envLogPath      = "KUCHEN_LOG_PATH"
)

var (
	diagLog     zerolog.Logger
	diagFile    *os.File
	feedbackLog *os.File
	logMu       sync.Mutex
	logReady    bool
	pid         int
	dir         string
	level       = zerolog.InfoLevel
)

// HTTPMetrics is the network breakdown of one provider request.
type HTTPMetrics struct {
	DNSMs      float64
	TLSMs      float64
	TTFBMs     float64
	TotalMs    float64
	Status     int
	ConnReused bool
}

func ResolveDir(flagPath string) (string, error) {
	for _, p := range []string{flagPath, os.Getenv(envLogPath)} {
		if p == "" {
			continue
		}
		if filepath.IsAbs(p) {
			return p, nil
		}
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(wd, p), nil
	}
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

// SetDebug lowers the diagnostics level to debug. Call before Init.
func SetDebug(on bool) {
	if on {
		level = zerolog.DebugLevel
	} else {
		level = zerolog.InfoLevel
	}
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error
	diagFile, err = os.OpenFile(filepath.Join(dir, diagnosticsFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	feedbackLog, err = os.OpenFile(filepath.Join(dir, feedbackFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		diagFile = nil
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).Level(level).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if feedbackLog != nil {
		feedbackLog.Close()
		feedbackLog = nil
	}
	logReady = false
}

func ready() bool {
	logMu.Lock()
	defer logMu.Unlock()
	return logReady
}

func Debugf(format string, args ...any) {
	if ready() {
		diagLog.Debug().Msg(fmt.Sprintf(format, args...))
	}
}

func Info(msg string) {
	if ready() {
		diagLog.Info().Msg(msg)
	}
}

func Warn(msg string) {
	if ready() {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if ready() {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if ready() {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if ready() {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func SessionStart(taskID int, provider string) {
	if !ready() {
		return
	}
	diagLog.Info().
		Int("task", taskID).
		Str("provider", provider).
		Msg("session_start")
}

func SessionEnd(taskID, attempts int) {
	if !ready() {
		return
	}
	diagLog.Info().
		Int("task", taskID).
		Int("attempts", attempts).
		Msg("session_end")
}

func Stage(taskID int, from, to string) {
	if !ready() {
		return
	}
	diagLog.Info().
		Int("task", taskID).
		Str("from", from).
		Str("to", to).
		Msg("stage")
}

func Generation(provider string, elapsed time.Duration, err error) {
	if !ready() {
		return
	}
	ev := diagLog.Info()
	if err != nil {
		ev = diagLog.Warn().Err(err)
	}
	ev.Str("provider", provider).
		Float64("ms", float64(elapsed.Milliseconds())).
		Bool("fallback", err != nil).
		Msg("generation")
}

func Analysis(provider string, audio time.Duration, size int, elapsed time.Duration, err error) {
	if !ready() {
		return
	}
	ev := diagLog.Info()
	if err != nil {
		ev = diagLog.Warn().Err(err)
	}
	ev.Str("provider", provider).
		Float64("audio_s", audio.Seconds()).
		Float64("audio_kb", float64(size)/1024).
		Float64("ms", float64(elapsed.Milliseconds())).
		Bool("fallback", err != nil).
		Msg("analysis")
}

func Capture(event, device string, elapsed time.Duration) {
	if !ready() {
		return
	}
	diagLog.Info().
		Str("event", event).
		Str("device", device).
		Float64("ms", float64(elapsed.Milliseconds())).
		Msg("capture")
}

func ProviderHTTP(provider string, m HTTPMetrics) {
	if !ready() {
		return
	}
	connStatus := "new"
	if m.ConnReused {
		connStatus = "reused"
	}
	diagLog.Info().
		Str("provider", provider).
		Str("conn", connStatus).
		Int("status", m.Status).
		Float64("dns_ms", m.DNSMs).
		Float64("tls_ms", m.TLSMs).
		Float64("ttfb_ms", m.TTFBMs).
		Float64("total_ms", m.TotalMs).
		Msg("provider_http")
}

// Feedback appends one analysis report to the feedback log, newlines flattened to keep one entry per line.
func Feedback(taskID int, report string) {
	if !ready() {
		return
	}
	logMu.Lock()
	defer logMu.Unlock()
	flat := strings.ReplaceAll(strings.TrimSpace(report), "\n", `\n`)
	line := fmt.Sprintf("%s\t[%d]\ttask=%d\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, taskID, flat)
	feedbackLog.WriteString(line)
}
