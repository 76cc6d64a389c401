package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/ryftlang/restructure/domain"
)

// ProgressReporterImpl implements domain.ProgressReporter with a
// terminal progress bar when the writer is an interactive TTY, and
// does nothing otherwise (batch runs piped to a file or CI log).
type ProgressReporterImpl struct {
	mu          sync.Mutex
	writer      io.Writer
	bar         *progressbar.ProgressBar
	total       int
	interactive bool
}

// NewProgressReporter creates a reporter writing to stderr, detecting
// interactivity via golang.org/x/term the way the teacher's progress
// manager does.
func NewProgressReporter() *ProgressReporterImpl {
	return &ProgressReporterImpl{
		writer:      os.Stderr,
		interactive: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

func (p *ProgressReporterImpl) Initialize(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	if p.interactive {
		p.bar = p.newBar(total)
	}
}

func (p *ProgressReporterImpl) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.interactive && p.bar == nil {
		p.bar = p.newBar(p.total)
	}
}

func (p *ProgressReporterImpl) Update(processed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		return
	}
	if total != p.total {
		p.total = total
		p.bar = p.newBar(total)
	}
	_ = p.bar.Set(processed)
}

func (p *ProgressReporterImpl) Complete(success bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

func (p *ProgressReporterImpl) newBar(max int) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription("restructuring"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(p.writer) }),
	)
}

var _ domain.ProgressReporter = (*ProgressReporterImpl)(nil)
