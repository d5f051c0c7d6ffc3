package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/pkghome/internal/preprocess"
)

// CLIProgressReporter reports dataset progress with a progress bar.
// OnProjectDone may be called from several workers.
type CLIProgressReporter struct {
	out       io.Writer
	quiet     bool
	startTime time.Time

	mu     sync.Mutex
	bar    *progressbar.ProgressBar
	total  int
	failed []string
}

// NewCLIProgressReporter creates a new CLI progress reporter writing its
// summary to out.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		out:       out,
		quiet:     quiet,
		startTime: time.Now(),
	}
}

var _ preprocess.ProgressReporter = (*CLIProgressReporter)(nil)

func (c *CLIProgressReporter) OnProjectsStart(total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total = total
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, "Preprocessing %s projects\n", formatNumber(total))
	c.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Processing projects"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("projects/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}

func (c *CLIProgressReporter) OnProjectDone(project string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.failed = append(c.failed, project)
	}
	if c.bar != nil {
		if err != nil {
			c.bar.Describe(fmt.Sprintf("Processing projects (%d failed)", len(c.failed)))
		}
		c.bar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(report *preprocess.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}
	if c.quiet {
		return
	}

	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "✓ Preprocessing complete: %s records in %.1fs\n",
		formatNumber(report.Records()), time.Since(c.startTime).Seconds())
	fmt.Fprintf(c.out, "  Projects:  %s of %s\n", formatNumber(len(report.Succeeded)), formatNumber(c.total))
	if len(report.Failed) > 0 {
		fmt.Fprintf(c.out, "  Failed:    %s\n", formatNumber(len(report.Failed)))
		for _, f := range report.Failed {
			fmt.Fprintf(c.out, "    - %s: %v\n", f.Job.Name(), f.Err)
		}
	}
}

// formatNumber renders n with thousands separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
