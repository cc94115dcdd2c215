package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Phase represents a stage of a generation run
type Phase string

const (
	PhaseScanning   Phase = "Scanning"
	PhaseParsing    Phase = "Parsing"
	PhaseCollecting Phase = "Collecting"
	PhaseWriting    Phase = "Writing"
)

// GeneratePhases are the phases of one generate run, in order
var GeneratePhases = []Phase{PhaseScanning, PhaseParsing, PhaseCollecting, PhaseWriting}

// ProgressBar wraps the progressbar library with our custom styling.
// It is safe for use from several goroutines.
type ProgressBar struct {
	mu    sync.Mutex
	bar   *progressbar.ProgressBar
	phase Phase
	total int
}

// NewProgressBarWithOutput creates a progress bar for a phase drawing on output
func NewProgressBarWithOutput(phase Phase, total int, output io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]", phase)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetPredictTime(true),
	)
	return &ProgressBar{bar: bar, phase: phase, total: total}
}

func discardBar(phase Phase, total int) *ProgressBar {
	return &ProgressBar{
		bar:   progressbar.NewOptions(total, progressbar.OptionSetWriter(io.Discard)),
		phase: phase,
		total: total,
	}
}

// Phase returns the phase the bar reports on
func (pb *ProgressBar) Phase() Phase {
	return pb.phase
}

// Increment advances the bar by one
func (pb *ProgressBar) Increment() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.bar.Add(1)
}

// Track adapts the bar to a done/total callback such as the generator's
// progress hook. A changed total resizes the bar.
func (pb *ProgressBar) Track(done, total int) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	if total != pb.total {
		pb.total = total
		pb.bar.ChangeMax(total)
	}
	pb.bar.Set(done)
}

// Describe updates the text shown after the phase name
func (pb *ProgressBar) Describe(description string) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.bar.Describe(fmt.Sprintf("[%s] %s", pb.phase, description))
}

// Finish completes the progress bar
func (pb *ProgressBar) Finish() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.bar.Finish()
}

// Pipeline shows one bar per phase, in order
type Pipeline struct {
	phases   []Phase
	next     int
	bar      *ProgressBar
	disabled bool
	output   io.Writer
}

// NewPipelineWithOutput creates a pipeline drawing on output
func NewPipelineWithOutput(phases []Phase, output io.Writer) *Pipeline {
	return &Pipeline{phases: phases, output: output}
}

// Disable turns every following bar into a silent one
func (p *Pipeline) Disable() {
	p.disabled = true
}

// NextPhase finishes the current bar and starts the next phase. It returns
// nil once every phase has been started.
func (p *Pipeline) NextPhase(total int) *ProgressBar {
	p.Finish()
	if p.next >= len(p.phases) {
		return nil
	}
	phase := p.phases[p.next]
	p.next++

	if p.disabled {
		p.bar = discardBar(phase, total)
	} else {
		p.bar = NewProgressBarWithOutput(phase, total, p.output)
	}
	return p.bar
}

// Current returns the phase of the active bar, or "" before the first phase
func (p *Pipeline) Current() Phase {
	if p.bar == nil {
		return ""
	}
	return p.bar.phase
}

// Finish completes the active bar
func (p *Pipeline) Finish() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}

// PrintSummary prints a line after the bars unless the pipeline is disabled
func (p *Pipeline) PrintSummary(message string) {
	if !p.disabled {
		fmt.Fprintln(p.output, message)
	}
}
