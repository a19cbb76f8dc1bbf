package wizard

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the wizard in the alternate screen and blocks until it exits.
// Pending requests and timers are cancelled on exit.
func Run(ctx context.Context, opts Options) (Flow, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return Flow{}, fmt.Errorf("wizard: %w", err)
	}
	if m, ok := final.(Model); ok {
		return m.Flow(), nil
	}
	return Flow{}, nil
}
