package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"kuchen/log"
)

// scriptDriver feeds stdin commands into a headless shell and prints the shell's events.
//
//	SELECT n    start task n
//	START       leave the task card
//	SKIP        end preparation
//	STOP        end the recording
//	RETRY       another attempt (feedback) or reopen the microphone (speaking)
//	EXIT        leave the session
//	WAIT [ev]   block until an event starting with ev; default "stage feedback"
//	SLEEP ms
//	QUIT
type scriptDriver struct {
	out io.Writer

	mu      sync.Mutex
	cond    *sync.Cond
	history []string
	seen    int // events already consumed by WAIT
}

func newScriptDriver(out io.Writer) *scriptDriver {
	d := &scriptDriver{out: out}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// record prints events and wakes WAIT.
func (d *scriptDriver) record(events <-chan string) {
	for ev := range events {
		d.mu.Lock()
		d.history = append(d.history, ev)
		fmt.Fprintln(d.out, ev)
		d.cond.Broadcast()
		d.mu.Unlock()
	}
	d.mu.Lock()
	d.history = append(d.history, "")
	d.cond.Broadcast()
	d.mu.Unlock()
}

// wait blocks until an unconsumed event has the given prefix. It returns false when the shell
// stopped first.
func (d *scriptDriver) wait(prefix string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for {
		for d.seen < len(d.history) {
			ev := d.history[d.seen]
			d.seen++
			if ev == "" {
				return false
			}
			if strings.HasPrefix(ev, prefix) {
				return true
			}
		}
		d.cond.Wait()
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drive reads commands until QUIT or EOF and sends them to p.
func (d *scriptDriver) drive(in io.Reader, p *tea.Program) {
	defer p.Quit()
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		switch strings.ToUpper(cmd) {
		case "SELECT":
			if n, err := strconv.Atoi(arg); err == nil {
				p.Send(key(strconv.Itoa(n)))
			}
		case "START":
			p.Send(key("enter"))
		case "SKIP":
			p.Send(key("s"))
		case "STOP":
			p.Send(key("enter"))
		case "RETRY":
			p.Send(key("r"))
		case "EXIT":
			p.Send(key("esc"))
		case "WAIT":
			if arg == "" {
				arg = "stage feedback"
			}
			if !d.wait(arg) {
				return
			}
		case "SLEEP":
			if ms, err := strconv.Atoi(arg); err == nil {
				time.Sleep(time.Duration(ms) * time.Millisecond)
			}
		case "QUIT":
			return
		default:
			log.Warnf("script: unknown command %q", line)
		}
	}
}

// runScript runs the shell without a terminal, driven by in, and returns when the script ends.
func runScript(deps shellDeps, in io.Reader, out io.Writer) error {
	events := make(chan string, 64)
	deps.events = events
	m := newShell(deps)
	m.screen = ScreenSelection

	d := newScriptDriver(out)
	recorded := make(chan struct{})
	go func() {
		d.record(events)
		close(recorded)
	}()

	p := tea.NewProgram(m,
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	go d.drive(in, p)

	_, err := p.Run()
	m.endSession()
	close(events)
	<-recorded
	return err
}
