package audio

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

var ErrSelectionCancelled = errors.New("device selection cancelled")

type pickerAction int

const (
	pickerMove pickerAction = iota
	pickerConfirm
	pickerCancel
)

// pickerKey maps one terminal read to a cursor move or a decision.
func pickerKey(buf []byte, cursor, count int) (int, pickerAction) {
	switch {
	case len(buf) == 1:
		switch buf[0] {
		case '\r', '\n':
			return cursor, pickerConfirm
		case 3, 'q': // Ctrl+C
			return cursor, pickerCancel
		case 'j':
			return min(cursor+1, count-1), pickerMove
		case 'k':
			return max(cursor-1, 0), pickerMove
		}
	case len(buf) == 3 && buf[0] == 0x1b && buf[1] == '[':
		switch buf[2] {
		case 'A':
			return max(cursor-1, 0), pickerMove
		case 'B':
			return min(cursor+1, count-1), pickerMove
		}
	}
	return cursor, pickerMove
}

// SelectDevice presents an interactive device picker on the terminal.
// If only one device is available, it returns that device without prompting.
func SelectDevice(ctx Context) (*DeviceInfo, error) {
	devices, err := ctx.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	if len(devices) == 0 {
		return nil, ErrNoDevice
	}
	if len(devices) == 1 {
		return &devices[0], nil
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	cursor := 0
	render := func() {
		fmt.Print("\r\x1b[J")
		fmt.Print("Mikrofon wählen (↑/↓, Enter):\r\n\r\n")
		for i, d := range devices {
			tag := ""
			if IsBluetooth(d.Name) {
				tag = " \x1b[33m[Bluetooth: schlechtere Qualität]\x1b[0m"
			}
			if i == cursor {
				fmt.Printf("  \x1b[1;36m▶ %s%s\x1b[0m\r\n", d.Name, tag)
			} else {
				fmt.Printf("    %s%s\r\n", d.Name, tag)
			}
		}
	}
	render()

	buf := make([]byte, 3)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		var action pickerAction
		cursor, action = pickerKey(buf[:n], cursor, len(devices))
		switch action {
		case pickerConfirm:
			fmt.Print("\r\n")
			return &devices[cursor], nil
		case pickerCancel:
			fmt.Print("\r\n")
			return nil, ErrSelectionCancelled
		}
		fmt.Printf("\x1b[%dA", len(devices)+2)
		render()
	}
}
