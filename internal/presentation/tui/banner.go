package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{" _       _                        ", "#2dd4bf"},
	{"(_)_ __ | | __ _ __ ___   __ _ _ __  ", "#14b8a6"},
	{"| | '_ \\| |/ /| '_ ` _ \\ / _` | '_ \\ ", "#0d9488"},
	{"| | | | |   < | | | | | | (_| | |_) |", "#0f766e"},
	{"|_|_| |_|_|\\_\\|_| |_| |_|\\__,_| .__/ ", "#115e59"},
	{"                              |_|    ", "#134e4a"},
}

// PrintBanner writes the inkmap banner, colored in teal when the terminal supports it.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Fprintln(w)
}
