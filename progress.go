package main

import (
	"fmt"
	"io"
	"time"
)

const TIMESTAMP_LAYOUT = "2006-01-02 15:04:05"

// console prints timestamped progress lines and error messages
type console struct {
	out io.Writer
	err io.Writer
	now func() time.Time
}

func newConsole(out, err io.Writer) *console {
	return &console{out: out, err: err, now: time.Now}
}

// timepoint prefixes an event with the current local time
func (c *console) timepoint(event string) string {
	return c.now().Format(TIMESTAMP_LAYOUT) + "\t" + event
}

// Event prints a progress line
func (c *console) Event(format string, a ...any) {
	fmt.Fprintln(c.out, c.timepoint(fmt.Sprintf(format, a...)))
}

// Error prints a recoverable error; processing goes on
func (c *console) Error(format string, a ...any) {
	fmt.Fprintln(c.err, red(fmt.Sprintf(format, a...)))
}
