package main

import (
	"fmt"

	"github.com/muesli/termenv"
)

// printBanner outputs the ASCII art banner.
func printBanner() {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`      _                   _                     _ `, "#818cf8"},
		{`  ___| |_ __ _  __ _  ___| |__   __ _ _ __   __| |`, "#a78bfa"},
		{` / __| __/ _' |/ _' |/ _ \ '_ \ / _' | '_ \ / _' |`, "#c084fc"},
		{` \__ \ || (_| | (_| |  __/ | | | (_| | | | | (_| |`, "#e879f9"},
		{` |___/\__\__,_|\__, |\___|_| |_|\__,_|_| |_|\__,_|`, "#f472b6"},
		{`               |___/                              `, "#fb7185"},
	}

	fmt.Println()
	for _, line := range lines {
		fmt.Println(termenv.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Println()
}
