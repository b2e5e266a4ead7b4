// Package logging builds the structured logger and the coloured status
// printer used by every command.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
)

// New returns a logger writing to w. Verbose enables debug records.
func New(w io.Writer, prefix string, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Status prints the human facing progress lines
type Status struct {
	out     io.Writer
	title   *color.Color
	success *color.Color
	failure *color.Color
	warning *color.Color
	item    *color.Color
}

// NewStatus writes to out. Colour follows fatih/color's terminal detection.
func NewStatus(out io.Writer) *Status {
	return &Status{
		out:     out,
		title:   color.New(color.FgWhite, color.Bold),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		warning: color.New(color.FgHiYellow),
		item:    color.New(color.FgCyan),
	}
}

func (s *Status) Title(format string, args ...any) {
	s.title.Fprintf(s.out, format+"\n", args...)
}

func (s *Status) Success(format string, args ...any) {
	s.success.Fprintf(s.out, format+"\n", args...)
}

func (s *Status) Failure(format string, args ...any) {
	s.failure.Fprintf(s.out, format+"\n", args...)
}

func (s *Status) Warning(format string, args ...any) {
	s.warning.Fprintf(s.out, format+"\n", args...)
}

func (s *Status) Item(format string, args ...any) {
	s.item.Fprintf(s.out, format+"\n", args...)
}
