package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the strata banner, one colour per layer.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"   ___ _____ ___    _ _____ _   ", "#818cf8"},
		{"  / __|_   _| _ \\  /_\\_   _/_\\  ", "#a78bfa"},
		{"  \\__ \\ | | |   / / _ \\| |/ _ \\ ", "#c084fc"},
		{"  |___/ |_| |_|_\\/_/ \\_\\_/_/ \\_\\", "#e879f9"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
