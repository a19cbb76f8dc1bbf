package wizard

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Submit    key.Binding
	Writer    key.Binding
	Next      key.Binding
	Prev      key.Binding
	Left      key.Binding
	Right     key.Binding
	PickTrend key.Binding
	Refresh   key.Binding
	Copy      key.Binding
	Download  key.Binding
	Publish   key.Binding
	Open      key.Binding
	Restart   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Writer: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "skip to writer"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "prev field"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "previous option"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next option"),
		),
		PickTrend: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "pick a trend for me"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh trends"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		Publish: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "publish"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "preview in browser"),
		),
		Restart: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new blog"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// stepKeys narrows the help view to the bindings live in one step.
type stepKeys struct {
	k    KeyMap
	step Step
}

func (s stepKeys) ShortHelp() []key.Binding {
	k := s.k
	switch s.step {
	case StepLanding:
		return []key.Binding{k.Submit, k.Writer, k.Quit}
	case StepParameterSelection:
		return []key.Binding{k.Submit, k.Next, k.Left, k.Right, k.PickTrend, k.Quit}
	case StepOutput:
		return []key.Binding{k.Copy, k.Download, k.Publish, k.Open, k.Restart, k.Help, k.Quit}
	default:
		return []key.Binding{k.Quit}
	}
}

func (s stepKeys) FullHelp() [][]key.Binding {
	k := s.k
	switch s.step {
	case StepParameterSelection:
		return [][]key.Binding{
			{k.Submit, k.Next, k.Prev},
			{k.Left, k.Right, k.PickTrend, k.Refresh},
			{k.Quit},
		}
	case StepOutput:
		return [][]key.Binding{
			{k.Copy, k.Download, k.Publish, k.Open},
			{k.Restart, k.Help, k.Quit},
		}
	default:
		return [][]key.Binding{s.ShortHelp()}
	}
}
