// Package console renders Composer-style tagged progress lines.
//
// Lines may contain <info>, <comment>, and <error> spans. With color enabled the
// spans are styled; otherwise the tags are stripped and the text is kept.
package console

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/fatih/color"

	"github.com/sspmod/sspmod/internal/terminal"
)

// Color modes accepted by ColorEnabled.
const (
	ModeAuto   = "auto"
	ModeAlways = "always"
	ModeNever  = "never"
)

var tagPattern = regexp.MustCompile(`<(info|comment|error)>(.*?)</(?:info|comment|error)>`)

// Writer writes progress to out and errors to errOut.
type Writer struct {
	out    io.Writer
	errOut io.Writer
	styles map[string]*color.Color
}

// New returns a Writer. When useColor is false tags are stripped.
func New(out io.Writer, errOut io.Writer, useColor bool) *Writer {
	w := &Writer{out: out, errOut: errOut}
	if useColor {
		w.styles = map[string]*color.Color{
			"info":    color.New(color.FgGreen),
			"comment": color.New(color.FgYellow),
			"error":   color.New(color.FgWhite, color.BgRed),
		}
		for _, style := range w.styles {
			style.EnableColor()
		}
	}
	return w
}

// ColorEnabled resolves a color mode for out. Auto colors terminals unless
// NO_COLOR is set; noColor forces color off.
func ColorEnabled(mode string, out io.Writer, noColor bool) bool {
	if noColor {
		return false
	}
	switch mode {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		return terminal.IsTerminalWriter(out)
	}
}

// Write renders msg to the progress stream.
func (w *Writer) Write(msg string) {
	_, _ = fmt.Fprintln(w.out, w.Render(msg))
}

// WriteError renders msg to the error stream.
func (w *Writer) WriteError(msg string) {
	_, _ = fmt.Fprintln(w.errOut, w.Render(msg))
}

// Render replaces tagged spans in msg with styled or plain text.
func (w *Writer) Render(msg string) string {
	return tagPattern.ReplaceAllStringFunc(msg, func(span string) string {
		parts := tagPattern.FindStringSubmatch(span)
		style, ok := w.styles[parts[1]]
		if !ok {
			return parts[2]
		}
		return style.Sprint(parts[2])
	})
}
