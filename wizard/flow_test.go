package wizard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postpilot/generator"
)

func TestFlowHappyPath(t *testing.T) {
	f := NewFlow()
	assert.Equal(t, "/", f.Route())

	require.NoError(t, f.SubmitURL("example.com/blog"))
	assert.Equal(t, StepAnalyzing, f.Step)
	assert.Equal(t, "https://example.com/blog", f.URL)
	assert.Equal(t, "/analyze?url=https%3A%2F%2Fexample.com%2Fblog", f.Route())

	prefill, err := f.AnalysisDone()
	require.NoError(t, err)
	assert.Equal(t, generator.GenerationParams{SelectedOption: generator.SourceWebsite, WebsiteURL: "https://example.com/blog"}, prefill)
	assert.Equal(t, StepParameterSelection, f.Step)
	assert.Equal(t, "/blog-writer?url=https%3A%2F%2Fexample.com%2Fblog", f.Route())

	require.NoError(t, f.BeginGenerate())
	assert.Equal(t, StepGenerating, f.Step)
	assert.ErrorIs(t, f.BeginGenerate(), ErrGenerationPending)

	require.NoError(t, f.GenerateSucceeded())
	assert.Equal(t, StepOutput, f.Step)
	assert.Equal(t, "/output", f.Route())
}

func TestFlowInvalidURLStaysOnLanding(t *testing.T) {
	for _, raw := range []string{"", "   ", "not a url", "example"} {
		f := NewFlow()
		err := f.SubmitURL(raw)

		var vErr *generator.ValidationError
		require.True(t, errors.As(err, &vErr), raw)
		assert.Equal(t, "url", vErr.Field)
		assert.Equal(t, StepLanding, f.Step)
		assert.Empty(t, f.URL)
	}
}

func TestFlowGenerateFailedReturnsToForm(t *testing.T) {
	f := &Flow{Step: StepParameterSelection}
	require.NoError(t, f.BeginGenerate())
	require.NoError(t, f.GenerateFailed("upstream down"))

	assert.Equal(t, StepParameterSelection, f.Step)
	assert.Equal(t, "upstream down", f.LastError)

	require.NoError(t, f.BeginGenerate())
	assert.Empty(t, f.LastError)
}

func TestFlowRejectsOutOfOrderEvents(t *testing.T) {
	f := NewFlow()

	_, err := f.AnalysisDone()
	var tErr *TransitionError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, StepLanding, tErr.From)

	assert.Error(t, f.BeginGenerate())
	assert.Error(t, f.GenerateSucceeded())
	assert.Error(t, f.GenerateFailed("x"))

	out := &Flow{Step: StepOutput}
	assert.Error(t, out.SubmitURL("example.com"))
	assert.Error(t, out.BeginGenerate())
}

func TestFlowOpenWriterAndRestart(t *testing.T) {
	f := NewFlow()
	require.NoError(t, f.OpenWriter())
	assert.Equal(t, StepParameterSelection, f.Step)
	assert.Equal(t, "/blog-writer", f.Route())
	assert.Equal(t, generator.GenerationParams{}, f.Prefill())

	f.Restart()
	assert.Equal(t, Flow{Step: StepLanding}, *f)
}

func TestFlowFromRoute(t *testing.T) {
	tests := []struct {
		route string
		step  Step
		url   string
	}{
		{"", StepLanding, ""},
		{"/", StepLanding, ""},
		{"/analyze?url=https%3A%2F%2Fexample.com", StepAnalyzing, "https://example.com"},
		{"/analyze?url=example.com", StepAnalyzing, "https://example.com"},
		{"/analyze", StepLanding, ""},
		{"/analyze?url=not%20a%20url", StepLanding, ""},
		{"/blog-writer?url=www.example.org", StepParameterSelection, "https://www.example.org"},
		{"/blog-writer/", StepParameterSelection, ""},
		{"/output", StepOutput, ""},
	}
	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			f, err := FlowFromRoute(tt.route)
			require.NoError(t, err)
			assert.Equal(t, tt.step, f.Step)
			assert.Equal(t, tt.url, f.URL)
		})
	}

	_, err := FlowFromRoute("/pricing")
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestRouteRoundTrip(t *testing.T) {
	for _, f := range []Flow{
		{Step: StepLanding},
		{Step: StepAnalyzing, URL: "https://example.com/a?b=c"},
		{Step: StepParameterSelection, URL: "https://example.com"},
		{Step: StepParameterSelection},
		{Step: StepOutput},
	} {
		restored, err := FlowFromRoute(f.Route())
		require.NoError(t, err)
		assert.Equal(t, f, *restored, f.Route())
	}
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "parameter-selection", StepParameterSelection.String())
	assert.Equal(t, "step(42)", Step(42).String())
}
