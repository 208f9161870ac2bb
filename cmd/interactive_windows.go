//go:build windows

package main

import (
	"os"

	"golang.org/x/sys/windows"
)

// enableVT turns on virtual terminal input and output so arrow keys arrive as ANSI
// sequences and the list redraw codes are interpreted by the console.
func enableVT() {
	for _, h := range []struct {
		fd   uintptr
		flag uint32
	}{
		{os.Stdin.Fd(), windows.ENABLE_VIRTUAL_TERMINAL_INPUT},
		{os.Stdout.Fd(), windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING},
	} {
		handle := windows.Handle(h.fd)
		var mode uint32
		if windows.GetConsoleMode(handle, &mode) == nil {
			_ = windows.SetConsoleMode(handle, mode|h.flag)
		}
	}
}
