// Package console renders boxed screens and reads validated input.
//
// Invalid input is never returned to the caller: every Read method re-prompts
// until the line conforms. The only errors are ErrInputClosed when the input
// stream ends and the context error when the caller gives up waiting.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"
)

// ErrInputClosed is returned when the input stream reaches EOF.
var ErrInputClosed = errors.New("console input closed")

// DefaultWidth is the inner width of rendered boxes.
const DefaultWidth = 40

// Box drawing runes.
const (
	cornerTL = "╔"
	cornerTR = "╗"
	cornerBL = "╚"
	cornerBR = "╝"
	edgeH    = "═"
	edgeV    = "║"
)

type line struct {
	text string
	err  error
}

// Console is an interactive terminal surface.
type Console struct {
	out   io.Writer
	in    *bufio.Scanner
	width int

	once  sync.Once
	lines chan line
	done  chan struct{}
}

// New returns a Console reading lines from in and writing to out.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		out:   out,
		in:    bufio.NewScanner(in),
		width: DefaultWidth,
		done:  make(chan struct{}),
	}
}

// Close stops the background reader. Pending input is discarded.
func (c *Console) Close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

// Printf writes formatted text to the output.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Box renders texts centred inside a framed box followed by a blank line.
func (c *Console) Box(texts ...string) {
	var b strings.Builder
	rule := strings.Repeat(edgeH, c.width)

	b.WriteString("  " + cornerTL + rule + cornerTR + "\n")
	for _, t := range texts {
		n := utf8.RuneCountInString(t)
		pad := max((c.width-n)/2, 0)
		rest := max(c.width-n-pad, 0)
		b.WriteString("  " + edgeV)
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(t)
		b.WriteString(strings.Repeat(" ", rest))
		b.WriteString(edgeV + "\n")
	}
	b.WriteString("  " + cornerBL + rule + cornerBR + "\n\n")

	io.WriteString(c.out, b.String())
}

// ReadLine prompts and returns one raw input line without its terminator.
func (c *Console) ReadLine(ctx context.Context, prompt string) (string, error) {
	c.once.Do(c.start)
	fmt.Fprintf(c.out, " %s: ", prompt)

	select {
	case l, ok := <-c.lines:
		if !ok {
			return "", ErrInputClosed
		}
		if l.err != nil {
			return "", fmt.Errorf("read console: %w", l.err)
		}
		return strings.TrimRight(l.text, "\r"), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// start runs the blocking scanner in its own goroutine so reads can be
// abandoned when the context is cancelled.
func (c *Console) start() {
	c.lines = make(chan line)
	go func() {
		defer close(c.lines)
		for c.in.Scan() {
			select {
			case c.lines <- line{text: c.in.Text()}:
			case <-c.done:
				return
			}
		}
		if err := c.in.Err(); err != nil {
			select {
			case c.lines <- line{err: err}:
			case <-c.done:
			}
		}
	}()
}
