package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// isInteractive reports whether stdin is a terminal we can prompt on.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// confirm asks a yes/no question on stdin; anything but y/yes means no.
func confirm(prompt string) bool {
	fmt.Print(prompt + " (y/N): ")
	resp, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	resp = strings.ToLower(strings.TrimSpace(resp))
	return resp == "y" || resp == "yes"
}

// interactiveSelect lets the user move through lines with the arrow keys and press Enter to
// show the property with the matching ID. It expects len(ids)==len(lines).
func interactiveSelect(ids []int64, lines []string, help string, show func(id int64)) {
	if len(ids) == 0 {
		return
	}

	enableVT()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Println("(interactive selection not supported on this terminal)")
		return
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	reader := bufio.NewReader(os.Stdin)
	selected := 0

	redraw := func() {
		// Clear screen (ANSI reset to top + clear screen)
		fmt.Print("\033[H\033[2J")
		for i, l := range lines {
			prefix := "  "
			if i == selected {
				prefix = "> "
			}
			// Raw mode needs explicit carriage returns.
			fmt.Print(prefix + l + "\r\n")
		}
		fmt.Print(help + "\r\n")
	}

	move := func(delta int) {
		next := selected + delta
		if next < 0 || next >= len(ids) {
			return
		}
		selected = next
		redraw()
	}

	open := func() bool {
		_ = term.Restore(fd, oldState) // cooked mode while showing details
		fmt.Println()
		show(ids[selected])

		// Wait for user acknowledgement before returning to list
		fmt.Print("\n(press Enter to return)")
		_, _ = bufio.NewReader(os.Stdin).ReadBytes('\n')

		oldState, err = term.MakeRaw(fd)
		if err != nil {
			return false
		}
		reader = bufio.NewReader(os.Stdin)
		redraw()
		return true
	}

	redraw()

	for {
		b1, err := reader.ReadByte()
		if err != nil {
			return
		}
		// Handle Windows console arrow sequences (0 or 224, then code)
		if b1 == 0 || b1 == 224 {
			b2, _ := reader.ReadByte()
			switch b2 {
			case 72: // up
				move(-1)
			case 80: // down
				move(1)
			case 13: // Enter
				if !open() {
					return
				}
			}
			continue
		}

		switch b1 {
		case 27: // ESC or ANSI sequence
			if reader.Buffered() == 0 {
				fmt.Print("\r\n")
				return
			}
			b2, _ := reader.ReadByte()
			if b2 != '[' || reader.Buffered() == 0 {
				continue
			}
			b3, _ := reader.ReadByte()
			switch b3 {
			case 'A':
				move(-1)
			case 'B':
				move(1)
			}
		case 'k':
			move(-1)
		case 'j':
			move(1)
		case '\r', '\n':
			if !open() {
				return
			}
		case 3, 'q': // Ctrl-C
			fmt.Print("\r\n")
			return
		}
	}
}
