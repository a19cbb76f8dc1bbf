package wizard

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"postpilot/api"
	"postpilot/generator"
	"postpilot/publisher"
)

type (
	startAnalysisMsg struct{}
	enterWriterMsg   struct{}

	analysisMsg struct {
		event AnalysisEvent
		ok    bool
	}

	trendsMsg struct{ err error }

	pickedMsg struct {
		trend api.TrendData
		err   error
	}

	generatedMsg struct {
		blog api.BlogData
		err  error
	}

	publishedMsg struct {
		resp api.PublishResponse
		err  error
	}

	previewMsg struct {
		path string
		err  error
	}

	noticeExpiredMsg struct{ id int }
)

// runAnalysis starts the sequencer and returns the channel its events are
// delivered on. The channel closes when the sequencer stops.
func runAnalysis(ctx context.Context, seq *Sequencer) <-chan AnalysisEvent {
	ch := make(chan AnalysisEvent, 8)
	go func() {
		defer close(ch)
		_ = seq.Run(ctx, func(ev AnalysisEvent) {
			select {
			case ch <- ev:
			case <-ctx.Done():
			}
		})
	}()
	return ch
}

func waitForAnalysis(ch <-chan AnalysisEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		return analysisMsg{event: ev, ok: ok}
	}
}

func fetchTrends(ctx context.Context, s *generator.Session, region, category string, limit int) tea.Cmd {
	return func() tea.Msg {
		_, err := s.TrendingTopics(ctx, region, category, limit)
		return trendsMsg{err: err}
	}
}

func pickTrend(ctx context.Context, s *generator.Session, region, category string) tea.Cmd {
	return func() tea.Msg {
		trend, err := s.PickTrend(ctx, region, category)
		return pickedMsg{trend: trend, err: err}
	}
}

func generate(ctx context.Context, s *generator.Session, params generator.GenerationParams) tea.Cmd {
	return func() tea.Msg {
		blog, err := s.Generate(ctx, params)
		return generatedMsg{blog: blog, err: err}
	}
}

func publish(ctx context.Context, p *publisher.Publisher, s *generator.Session) tea.Cmd {
	return func() tea.Msg {
		resp, err := p.Publish(ctx, s)
		return publishedMsg{resp: resp, err: err}
	}
}

// preview writes the HTML export to a temp dir and opens it.
func preview(p *publisher.Publisher, blog api.BlogData, open func(string) error) tea.Cmd {
	return func() tea.Msg {
		dir := filepath.Join(os.TempDir(), "postpilot-preview")
		path, err := p.Download(dir, blog, publisher.FormatHTML)
		if err != nil {
			return previewMsg{err: err}
		}
		return previewMsg{path: path, err: open(path)}
	}
}
