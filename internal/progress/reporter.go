package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback while keywords are generated.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewReporter returns a TerminalReporter when w is an interactive terminal,
// or a LineReporter when it is not or the CI environment variable is set.
func NewReporter(w io.Writer) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" || !isTerminal(w) {
		return &LineReporter{w: w}
	}
	return &TerminalReporter{w: w}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Generating keywords"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// LineReporter prints line-by-line progress suitable for CI logs and pipes.
type LineReporter struct {
	w       io.Writer
	total   int
	current int
}

// NewLineReporter creates a LineReporter writing to w.
func NewLineReporter(w io.Writer) *LineReporter {
	return &LineReporter{w: w}
}

func (r *LineReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(r.w, "Generating keywords for %d titles\n", total)
}

func (r *LineReporter) Update(current int, message string) {
	r.current = current
	fmt.Fprintf(r.w, "[%d/%d] %s\n", current, r.total, message)
}

func (r *LineReporter) Finish() {
	fmt.Fprintf(r.w, "Finished %d/%d titles\n", r.current, r.total)
}

// Counter reports completions that arrive concurrently, in completion order.
type Counter struct {
	mu   sync.Mutex
	r    Reporter
	done int
}

// NewCounter starts r with total and returns a Counter feeding it.
func NewCounter(r Reporter, total int) *Counter {
	r.Start(total)
	return &Counter{r: r}
}

// Done marks one unit of work as finished.
func (c *Counter) Done(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done++
	c.r.Update(c.done, message)
}

// Finish finishes the underlying reporter.
func (c *Counter) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.r.Finish()
}
