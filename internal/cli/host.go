package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/justyntemme/sidetree/internal/ops"
	"github.com/justyntemme/sidetree/internal/tree"
	"github.com/mattn/go-isatty"
)

// terminal is the ops host for a command line session: prompts read from
// stdin, messages and progress go to stderr.
type terminal struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	// interactive is true when stdin is a terminal. Without one, prompts
	// count as dismissed unless assumeYes is set.
	interactive bool
	assumeYes   bool
	// showProgress draws the progress line; off when stderr is redirected.
	showProgress bool

	mu sync.Mutex
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newTerminal(in io.Reader, out, errOut io.Writer, assumeYes bool) *terminal {
	t := &terminal{
		in:        bufio.NewReader(in),
		out:       out,
		errOut:    errOut,
		assumeYes: assumeYes,
	}
	if f, ok := in.(*os.File); ok {
		t.interactive = isTerminal(f)
	}
	if f, ok := errOut.(*os.File); ok {
		t.showProgress = isTerminal(f)
	}
	return t
}

func (t *terminal) readLine() (string, bool) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

// Input implements ops.Prompter. Invalid values are reported and asked
// again on a terminal; a pipe gets one attempt.
func (t *terminal) Input(ctx context.Context, req ops.InputRequest) (string, bool) {
	if !t.interactive {
		return "", false
	}
	for ctx.Err() == nil {
		prompt := req.Title
		if req.Value != "" {
			prompt += fmt.Sprintf(" [%s]", req.Value)
		} else if req.Placeholder != "" {
			prompt += fmt.Sprintf(" (%s)", req.Placeholder)
		}
		fmt.Fprintf(t.errOut, "%s: ", color.New(color.Bold).Sprint(prompt))

		value, ok := t.readLine()
		if !ok {
			return "", false
		}
		if value == "" {
			value = req.Value
		}
		if req.Validate != nil {
			if err := req.Validate(value); err != nil {
				t.Warn(err.Error())
				continue
			}
		}
		return value, true
	}
	return "", false
}

// Confirm implements ops.Prompter. With --yes the first button is chosen
// without asking.
func (t *terminal) Confirm(ctx context.Context, message string, buttons ...string) (string, bool) {
	if len(buttons) == 0 {
		buttons = []string{"OK"}
	}
	if t.assumeYes {
		return buttons[0], true
	}
	if !t.interactive {
		return "", false
	}

	fmt.Fprintln(t.errOut, color.New(color.FgYellow).Sprint(message))
	for i, b := range buttons {
		fmt.Fprintf(t.errOut, "  %d) %s\n", i+1, b)
	}
	for ctx.Err() == nil {
		fmt.Fprint(t.errOut, "Choice (empty to cancel): ")
		line, ok := t.readLine()
		line = strings.TrimSpace(line)
		if !ok || line == "" {
			return "", false
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(buttons) {
			return buttons[n-1], true
		}
		for _, b := range buttons {
			if strings.EqualFold(b, line) {
				return b, true
			}
		}
	}
	return "", false
}

// Info implements ops.Notifier.
func (t *terminal) Info(msg string) {
	fmt.Fprintln(t.errOut, color.New(color.FgGreen).Sprint(msg))
}

// Warn implements ops.Notifier.
func (t *terminal) Warn(msg string) {
	fmt.Fprintln(t.errOut, color.New(color.FgYellow).Sprint(msg))
}

// Error implements ops.Notifier.
func (t *terminal) Error(msg string) {
	fmt.Fprintln(t.errOut, color.New(color.FgRed).Sprint(msg))
}

// Start implements ops.Progress. Cancellation comes from the command's
// context, which is cancelled on interrupt.
func (t *terminal) Start(ctx context.Context, title string) (context.Context, ops.Reporter) {
	return ctx, &progressLine{t: t, title: title}
}

// reveal echoes where a created or renamed entry ended up.
func (t *terminal) reveal(n *tree.Node) {
	fmt.Fprintln(t.out, ops.RelativePath(n))
}

type progressLine struct {
	t       *terminal
	title   string
	percent float64
	drawn   bool
}

func (p *progressLine) Report(increment float64, message string) {
	p.t.mu.Lock()
	defer p.t.mu.Unlock()
	p.percent += increment
	if !p.t.showProgress {
		return
	}
	fmt.Fprintf(p.t.errOut, "\r\033[K%s: %s (%.0f%%)", color.New(color.FgCyan).Sprint(p.title), message, p.percent)
	p.drawn = true
}

func (p *progressLine) Done() {
	p.t.mu.Lock()
	defer p.t.mu.Unlock()
	if p.drawn {
		fmt.Fprintln(p.t.errOut)
	}
}

func disableColor() {
	color.NoColor = true
}
