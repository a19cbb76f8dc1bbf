// Package wizard drives the interactive generate flow: URL entry, the
// analysis animation, the writer form and the output screen.
package wizard

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"postpilot/generator"
	"postpilot/weburl"
)

type Step int

const (
	StepLanding Step = iota
	StepAnalyzing
	StepParameterSelection
	StepGenerating
	StepOutput
)

func (s Step) String() string {
	switch s {
	case StepLanding:
		return "landing"
	case StepAnalyzing:
		return "analyzing"
	case StepParameterSelection:
		return "parameter-selection"
	case StepGenerating:
		return "generating"
	case StepOutput:
		return "output"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

var (
	ErrGenerationPending = errors.New("a generation is already in progress")
	ErrUnknownRoute      = errors.New("unknown route")
)

// TransitionError reports an event that is not valid in the current step.
type TransitionError struct {
	From  Step
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s from %s", e.Event, e.From)
}

// Flow is the wizard state machine. It holds no UI state.
type Flow struct {
	Step Step
	// URL is the normalized website carried from landing to the writer form.
	URL string
	// LastError is the message of the most recent failed generation.
	LastError string
}

func NewFlow() *Flow {
	return &Flow{Step: StepLanding}
}

// SubmitURL moves Landing to Analyzing. Invalid input leaves the flow where
// it is and returns a *generator.ValidationError.
func (f *Flow) SubmitURL(raw string) error {
	if f.Step != StepLanding {
		return &TransitionError{From: f.Step, Event: "submit url"}
	}
	if strings.TrimSpace(raw) == "" {
		return &generator.ValidationError{Field: "url", Title: "URL Required", Message: "Please enter a website URL."}
	}
	if !weburl.IsValid(raw) {
		return &generator.ValidationError{Field: "url", Title: "Invalid URL", Message: "Please enter a valid website URL."}
	}
	f.URL = weburl.Normalize(raw)
	f.Step = StepAnalyzing
	return nil
}

// OpenWriter jumps from Landing straight to the writer form with no URL.
func (f *Flow) OpenWriter() error {
	if f.Step != StepLanding {
		return &TransitionError{From: f.Step, Event: "open writer"}
	}
	f.URL = ""
	f.Step = StepParameterSelection
	return nil
}

// AnalysisDone moves Analyzing to ParameterSelection and returns the form
// prefill: the website option with the analyzed URL.
func (f *Flow) AnalysisDone() (generator.GenerationParams, error) {
	if f.Step != StepAnalyzing {
		return generator.GenerationParams{}, &TransitionError{From: f.Step, Event: "finish analysis"}
	}
	f.Step = StepParameterSelection
	return f.Prefill(), nil
}

// Prefill is the writer form's initial value for the current URL.
func (f *Flow) Prefill() generator.GenerationParams {
	if f.URL == "" {
		return generator.GenerationParams{}
	}
	return generator.GenerationParams{SelectedOption: generator.SourceWebsite, WebsiteURL: f.URL}
}

// BeginGenerate leaves the writer form. It fails with ErrGenerationPending
// while a generation is already running.
func (f *Flow) BeginGenerate() error {
	switch f.Step {
	case StepGenerating:
		return ErrGenerationPending
	case StepParameterSelection:
		f.Step = StepGenerating
		f.LastError = ""
		return nil
	default:
		return &TransitionError{From: f.Step, Event: "generate"}
	}
}

// GenerateSucceeded moves a running generation to the output screen.
func (f *Flow) GenerateSucceeded() error {
	if f.Step != StepGenerating {
		return &TransitionError{From: f.Step, Event: "complete generation"}
	}
	f.Step = StepOutput
	return nil
}

// GenerateFailed returns to the writer form, keeping the error message.
func (f *Flow) GenerateFailed(msg string) error {
	if f.Step != StepGenerating {
		return &TransitionError{From: f.Step, Event: "fail generation"}
	}
	f.Step = StepParameterSelection
	f.LastError = msg
	return nil
}

// Restart starts a new run from the landing step.
func (f *Flow) Restart() {
	*f = Flow{Step: StepLanding}
}

// Route renders the navigation path for the current step.
func (f *Flow) Route() string {
	switch f.Step {
	case StepAnalyzing:
		return withURL("/analyze", f.URL)
	case StepParameterSelection, StepGenerating:
		return withURL("/blog-writer", f.URL)
	case StepOutput:
		return "/output"
	default:
		return "/"
	}
}

func withURL(path, target string) string {
	if target == "" {
		return path
	}
	return path + "?" + url.Values{"url": {target}}.Encode()
}

// FlowFromRoute restores a flow from a route produced by Route.
func FlowFromRoute(route string) (*Flow, error) {
	route = strings.TrimSpace(route)
	if route == "" {
		return NewFlow(), nil
	}
	u, err := url.Parse(route)
	if err != nil {
		return nil, fmt.Errorf("parse route %q: %w", route, err)
	}
	target := strings.TrimSpace(u.Query().Get("url"))

	f := NewFlow()
	switch "/" + strings.Trim(u.Path, "/") {
	case "/":
	case "/analyze":
		if target == "" || !weburl.IsValid(target) {
			return NewFlow(), nil
		}
		f.Step = StepAnalyzing
		f.URL = weburl.Normalize(target)
	case "/blog-writer":
		f.Step = StepParameterSelection
		if target != "" {
			f.URL = weburl.Normalize(target)
		}
	case "/output":
		f.Step = StepOutput
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, route)
	}
	return f, nil
}
