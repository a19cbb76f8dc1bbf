package wizard

import (
	"context"
	"math"
	"time"
)

// AnalysisStep is one stage of the analysis animation. Nothing is actually
// analyzed; the stages only pace the UI.
type AnalysisStep struct {
	ID          string
	Label       string
	Description string
	Duration    time.Duration
	Details     []string
}

var AnalysisSteps = []AnalysisStep{
	{
		ID:          "crawling",
		Label:       "Website Discovery",
		Description: "Scanning website structure and content with AI precision",
		Duration:    2500 * time.Millisecond,
		Details:     []string{"Deep crawling page hierarchy", "Mapping internal link structure", "Analyzing content distribution", "Identifying key components"},
	},
	{
		ID:          "content",
		Label:       "Content Intelligence",
		Description: "Advanced AI processing of textual and visual content",
		Duration:    2000 * time.Millisecond,
		Details:     []string{"AI keyword extraction", "Readability analysis", "Content quality scoring", "Visual element assessment"},
	},
	{
		ID:          "seo",
		Label:       "SEO Optimization",
		Description: "Comprehensive search engine optimization analysis",
		Duration:    2800 * time.Millisecond,
		Details:     []string{"Meta tags optimization", "Core Web Vitals check", "Mobile responsiveness scan", "Schema markup analysis"},
	},
	{
		ID:          "security",
		Label:       "Security Fortress",
		Description: "Security configuration analysis",
		Duration:    1800 * time.Millisecond,
		Details:     []string{"SSL/TLS certificate validation", "Security headers inspection", "Vulnerability assessment", "Threat analysis complete"},
	},
}

const (
	finalDelay     = 600 * time.Millisecond
	detailInterval = time.Second
	progressTicks  = 25
	progressStep   = 0.8
)

// AnalysisEvent is a snapshot of the sequencer. Step == len(steps) once all
// stages are complete.
type AnalysisEvent struct {
	Step      int
	Detail    int
	Progress  float64
	Completed []string
	Done      bool
}

// Sequencer runs the analysis stages on timers owned by the Run context.
type Sequencer struct {
	Steps []AnalysisStep
	Final time.Duration
	// Speed divides every duration; values <= 0 mean 1.
	Speed float64
}

func NewSequencer() *Sequencer {
	return &Sequencer{Steps: AnalysisSteps, Final: finalDelay, Speed: 1}
}

func (s *Sequencer) scale(d time.Duration) time.Duration {
	if s.Speed <= 0 || s.Speed == 1 {
		return d
	}
	scaled := time.Duration(float64(d) / s.Speed)
	if scaled <= 0 {
		return time.Nanosecond
	}
	return scaled
}

// Run emits events until the last stage finishes or ctx is cancelled. All
// timers are stopped before it returns.
func (s *Sequencer) Run(ctx context.Context, emit func(AnalysisEvent)) error {
	total := len(s.Steps)
	ev := AnalysisEvent{}
	snapshot := func() AnalysisEvent {
		out := ev
		out.Completed = append([]string(nil), ev.Completed...)
		return out
	}
	emit(snapshot())

	for i, step := range s.Steps {
		ceiling := float64(i+1) * 100 / float64(total)
		if err := s.runStep(ctx, step, ceiling, &ev, func() { emit(snapshot()) }); err != nil {
			return err
		}
		ev.Completed = append(ev.Completed, step.ID)
		ev.Step = i + 1
		ev.Detail = 0
		emit(snapshot())
	}

	final := time.NewTimer(s.scale(s.Final))
	defer final.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-final.C:
	}
	ev.Progress = 100
	ev.Done = true
	emit(snapshot())
	return nil
}

func (s *Sequencer) runStep(ctx context.Context, step AnalysisStep, ceiling float64, ev *AnalysisEvent, notify func()) error {
	interval := s.scale(step.Duration / progressTicks)
	if interval <= 0 {
		interval = time.Nanosecond
	}
	progressTicker := time.NewTicker(interval)
	defer progressTicker.Stop()
	detailTicker := time.NewTicker(s.scale(detailInterval))
	defer detailTicker.Stop()
	done := time.NewTimer(s.scale(step.Duration))
	defer done.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done.C:
			return nil
		case <-progressTicker.C:
			ev.Progress = math.Min(ev.Progress+progressStep, ceiling)
			notify()
		case <-detailTicker.C:
			if n := len(step.Details); n > 0 {
				ev.Detail = (ev.Detail + 1) % n
			}
			notify()
		}
	}
}
