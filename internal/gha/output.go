// Package gha emits the stdout contract consumed by the pipeline
// orchestrator: key=value lines and delimited multi-line blocks, in the
// format GITHUB_OUTPUT expects.
package gha

import (
	"fmt"
	"io"
)

const delimiter = "EOF"

// Writer emits output variables to w. Diagnostics never go through it; it
// carries only the machine-readable result of a stage.
type Writer struct {
	w io.Writer
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Set emits a single key=value line.
func (o *Writer) Set(key, value string) {
	fmt.Fprintf(o.w, "%s=%s\n", key, value)
}

// SetMultiline emits a value spanning multiple lines as a delimited block.
func (o *Writer) SetMultiline(key, value string) {
	fmt.Fprintf(o.w, "%s<<%s\n%s\n%s\n", key, delimiter, value, delimiter)
}
