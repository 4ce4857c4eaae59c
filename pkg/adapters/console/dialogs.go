// Package console renders menus and dialogs on a terminal. Batch
// sessions and the CLI use it in place of a host GUI: menus print as
// markdown trees and dialogs become stdin prompts.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ardenfx/stagehand/pkg/ports"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Dialogs implements ports.Dialogs on a terminal. Questions prompt on
// stdin when it is a TTY; otherwise they answer cancel, which callers
// treat as "do nothing destructive".
type Dialogs struct {
	out         io.Writer
	in          *bufio.Reader
	interactive bool
	profile     termenv.Profile
}

// DialogsOption configures Dialogs.
type DialogsOption func(*Dialogs)

// WithOutput redirects dialog output.
func WithOutput(w io.Writer) DialogsOption {
	return func(d *Dialogs) { d.out = w }
}

// WithInput redirects prompt input and marks the dialogs interactive.
func WithInput(r io.Reader) DialogsOption {
	return func(d *Dialogs) {
		d.in = bufio.NewReader(r)
		d.interactive = true
	}
}

// NewDialogs creates terminal dialogs on stdin/stdout.
func NewDialogs(opts ...DialogsOption) *Dialogs {
	d := &Dialogs{
		out:         os.Stdout,
		in:          bufio.NewReader(os.Stdin),
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
		profile:     termenv.ColorProfile(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Info prints an informational message.
func (d *Dialogs) Info(title, message string) {
	label := termenv.String("[" + title + "]").Foreground(d.profile.Color("#818cf8"))
	fmt.Fprintf(d.out, "%s %s\n", label, message)
}

// Warning prints a warning message.
func (d *Dialogs) Warning(title, message string) {
	label := termenv.String("[" + title + "]").Foreground(d.profile.Color("#fb7185"))
	fmt.Fprintf(d.out, "%s %s\n", label, message)
}

// Question prompts for yes/no/cancel. Unreadable or non-interactive
// input answers cancel.
func (d *Dialogs) Question(title, message string) ports.Answer {
	if !d.interactive {
		return ports.AnswerCancel
	}

	for {
		fmt.Fprintf(d.out, "%s %s [y/n/c]: ", title, message)
		line, err := d.in.ReadString('\n')
		if err != nil {
			return ports.AnswerCancel
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return ports.AnswerYes
		case "n", "no":
			return ports.AnswerNo
		case "c", "cancel":
			return ports.AnswerCancel
		}
		fmt.Fprintln(d.out, "please answer y, n or c")
	}
}
