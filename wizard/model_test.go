package wizard

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postpilot/api"
	"postpilot/generator"
	"postpilot/hooks"
	"postpilot/testutil"
)

var blogBody = map[string]any{
	"title":               "Remote Work Future",
	"content":             "<p>Teams are distributed now.</p>",
	"url_slug":            "remote-work-future",
	"promotion_checklist": "- Share on LinkedIn",
}

func newTestModel(t *testing.T, handlers map[string]http.HandlerFunc, opts Options) (Model, *testutil.MockAPI) {
	t.Helper()
	server := testutil.NewMockAPI(handlers)
	t.Cleanup(server.Close)

	h := hooks.New(api.New(api.Options{BaseURL: server.URL}), hooks.QueryOptions{TTL: time.Minute})
	opts.Session = generator.NewSession(h, generator.SessionOptions{})
	if opts.Sequencer == nil {
		opts.Sequencer = fastSequencer()
	}
	opts.OpenFile = func(string) error { return nil }

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, opts), server
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// findMsg runs cmd, expanding batches, and returns the first message of type T.
// Commands that would block on a timer are skipped.
func findMsg[T any](t *testing.T, cmd tea.Cmd) (T, bool) {
	t.Helper()
	var zero T
	if cmd == nil {
		return zero, false
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if found, ok := findMsg[T](t, c); ok {
				return found, true
			}
		}
		return zero, false
	}
	found, ok := msg.(T)
	return found, ok
}

func TestLandingRejectsInvalidURL(t *testing.T) {
	m, _ := newTestModel(t, nil, Options{})
	m.urlInput.SetValue("not a url")

	m, _ = update(t, m, enter())

	assert.Equal(t, StepLanding, m.flow.Step)
	assert.Equal(t, "Please enter a valid website URL.", m.urlError)
	require.Len(t, m.notices, 1)
	assert.True(t, m.notices[0].destructive)
	assert.Contains(t, m.View(), "Please enter a valid website URL.")
}

func TestLandingToWriterThroughAnalysis(t *testing.T) {
	m, server := newTestModel(t, map[string]http.HandlerFunc{
		"/api/trending-topics": testutil.WithJSONResponse(http.StatusOK, map[string]any{"success": true, "topics": []string{"Edge AI"}}),
	}, Options{})
	m.urlInput.SetValue("example.com")

	m, cmd := update(t, m, enter())
	require.Equal(t, StepAnalyzing, m.flow.Step)
	assert.Equal(t, "/analyze?url=https%3A%2F%2Fexample.com", m.flow.Route())

	// Drain the sequencer through the Update loop.
	for i := 0; i < 10000 && m.flow.Step == StepAnalyzing; i++ {
		msg, ok := findMsg[analysisMsg](t, cmd)
		require.True(t, ok)
		m, cmd = update(t, m, msg)
	}
	require.Equal(t, StepParameterSelection, m.flow.Step)
	assert.Equal(t, generator.SourceWebsite, m.form.source)
	assert.Equal(t, "https://example.com", m.form.website.Value())
	assert.Equal(t, "/blog-writer?url=https%3A%2F%2Fexample.com", m.flow.Route())

	msg, ok := findMsg[trendsMsg](t, cmd)
	require.True(t, ok)
	require.NoError(t, msg.err)
	m, _ = update(t, m, msg)
	assert.Equal(t, 1, server.Count("/api/trending-topics"))
	assert.Equal(t, []string{"Edge AI"}, m.trendTopics())
}

func TestFormValidationBlocksNetwork(t *testing.T) {
	m, server := newTestModel(t, nil, Options{Flow: &Flow{Step: StepParameterSelection}})
	m.form.source = generator.SourceWebsite

	m, cmd := update(t, m, enter())

	assert.NotNil(t, cmd)
	assert.Equal(t, StepParameterSelection, m.flow.Step)
	assert.Equal(t, "Please enter a website URL.", m.form.err)
	assert.Empty(t, server.Requests())
}

func TestSubmitGeneratesAndShowsOutput(t *testing.T) {
	m, server := newTestModel(t, map[string]http.HandlerFunc{
		"/api/generate-from-topic": testutil.WithJSONResponse(http.StatusOK, map[string]any{"success": true, "data": blogBody}),
	}, Options{Flow: &Flow{Step: StepParameterSelection}})
	m.form.source = generator.SourceCustom
	m.form.custom.SetValue("T")
	m.form.regionIdx = 2   // North America
	m.form.categoryIdx = 8 // Food & Lifestyle

	m, cmd := update(t, m, enter())
	require.Equal(t, StepGenerating, m.flow.Step)

	// Submitting again while generating does nothing.
	again, againCmd := update(t, m, enter())
	assert.Nil(t, againCmd)
	assert.Equal(t, StepGenerating, again.flow.Step)

	msg, ok := findMsg[generatedMsg](t, cmd)
	require.True(t, ok)
	require.NoError(t, msg.err)
	m, _ = update(t, m, msg)

	assert.Equal(t, StepOutput, m.flow.Step)
	snap := m.session.Store.Snapshot()
	require.NotNil(t, snap.Params)
	assert.Equal(t, "T", snap.Params.CustomTopic)
	require.NotNil(t, snap.Blog)
	assert.Equal(t, "Remote Work Future", snap.Blog.Title)

	var body map[string]any
	require.NoError(t, server.Requests()[0].DecodeBody(&body))
	assert.Equal(t, "us", body["region"])
	assert.Equal(t, "lifestyle", body["field"])

	assert.Contains(t, m.viewport.View(), "Generation Details")
}

func TestGenerationFailureReturnsToForm(t *testing.T) {
	m, _ := newTestModel(t, map[string]http.HandlerFunc{
		"/api/generate-from-topic": testutil.WithJSONResponse(http.StatusBadGateway, map[string]any{"message": "upstream down"}),
	}, Options{Flow: &Flow{Step: StepParameterSelection}})
	m.form.source = generator.SourceCustom
	m.form.custom.SetValue("T")

	m, cmd := update(t, m, enter())
	msg, ok := findMsg[generatedMsg](t, cmd)
	require.True(t, ok)
	require.Error(t, msg.err)

	m, _ = update(t, m, msg)
	assert.Equal(t, StepParameterSelection, m.flow.Step)
	assert.Equal(t, "upstream down", m.form.err)
	assert.Nil(t, m.session.Store.Snapshot().Blog)
	require.NotEmpty(t, m.notices)
	assert.Equal(t, "Generation Failed", m.notices[len(m.notices)-1].title)
}

func TestTrendingKeepsStaleTopicsOnError(t *testing.T) {
	m, _ := newTestModel(t, map[string]http.HandlerFunc{
		"/api/trending-topics": testutil.Sequence(
			testutil.WithJSONResponse(http.StatusOK, map[string]any{"success": true, "topics": []string{"Old topic"}}),
			testutil.WithJSONResponse(http.StatusInternalServerError, map[string]any{"error": "boom"}),
		),
	}, Options{Flow: &Flow{Step: StepParameterSelection}})
	m.form.source = generator.SourceTrending

	assert.Equal(t, TrendingSuggestions, m.trendTopics())

	msg, _ := findMsg[trendsMsg](t, m.refreshTrends())
	m, _ = update(t, m, msg)
	assert.Equal(t, []string{"Old topic"}, m.trendTopics())

	// A new key misses the cache and fails; the old list stays visible.
	m.form.regionIdx = 3
	msg, _ = findMsg[trendsMsg](t, m.refreshTrends())
	require.Error(t, msg.err)
	m, _ = update(t, m, msg)
	assert.Equal(t, []string{"Old topic"}, m.trendTopics())
	assert.Contains(t, m.View(), "Showing previous topics")
}

func TestChosenTrendSurvivesRefreshedList(t *testing.T) {
	m, _ := newTestModel(t, map[string]http.HandlerFunc{
		"/api/trending-topics": testutil.Sequence(
			testutil.WithJSONResponse(http.StatusOK, map[string]any{"success": true, "topics": []string{"A", "B", "C", "D", "E"}}),
			testutil.WithJSONResponse(http.StatusOK, map[string]any{"success": true, "topics": []string{"Z", "B", "A"}}),
		),
	}, Options{Flow: &Flow{Step: StepParameterSelection}})
	m.form.source = generator.SourceTrending
	m.form.focus = fieldSubject

	right := tea.KeyMsg{Type: tea.KeyRight}
	for i := 0; i < 3; i++ {
		m, _ = update(t, m, right)
	}
	require.Equal(t, "Cryptocurrency Updates", m.params().SelectedTrend)

	// The API list replaces the suggestions; the choice stays put.
	msg, ok := findMsg[trendsMsg](t, m.refreshTrends())
	require.True(t, ok)
	m, _ = update(t, m, msg)
	assert.Equal(t, "Cryptocurrency Updates", m.params().SelectedTrend)
	assert.Equal(t, []string{"Cryptocurrency Updates", "A", "B", "C", "D", "E"}, m.trendTopics())

	m, _ = update(t, m, right)
	require.Equal(t, "A", m.params().SelectedTrend)

	// A reordered list keeps pointing at the same topic.
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	msg, ok = findMsg[trendsMsg](t, cmd)
	require.True(t, ok)
	m, _ = update(t, m, msg)
	assert.Equal(t, "A", m.params().SelectedTrend)
	assert.Contains(t, m.View(), "‹ A ›")
}

func TestPickedTrendSelectsTrendingSource(t *testing.T) {
	m, _ := newTestModel(t, nil, Options{Flow: &Flow{Step: StepParameterSelection}})

	m, _ = update(t, m, pickedMsg{trend: api.TrendData{Topic: "Quantum Computing"}})

	assert.Equal(t, generator.SourceTrending, m.form.source)
	assert.Equal(t, "Quantum Computing", m.params().SelectedTrend)
}

func outputModel(t *testing.T, dir string) Model {
	t.Helper()
	m, _ := newTestModel(t, nil, Options{Flow: &Flow{Step: StepOutput}, DownloadDir: dir})
	m.session.Store.SetParams(generator.GenerationParams{SelectedOption: generator.SourceCustom, CustomTopic: "T"})
	m.session.Store.SetBlog(&api.BlogData{Title: "T", Content: "<p>Body</p>", URLSlug: "t-post"})
	m.refreshOutput()
	return m
}

func TestOutputDownload(t *testing.T) {
	dir := t.TempDir()
	m := outputModel(t, dir)

	m, _ = update(t, m, runes("d"))

	data, err := os.ReadFile(filepath.Join(dir, "t-post.txt"))
	require.NoError(t, err)
	assert.Equal(t, "T\n\nBody\n", string(data))
	assert.Equal(t, StepOutput, m.flow.Step)
	assert.Equal(t, "Download Complete", m.notices[len(m.notices)-1].title)
}

func TestOutputRestartClearsStore(t *testing.T) {
	m := outputModel(t, t.TempDir())

	m, _ = update(t, m, runes("n"))

	assert.Equal(t, StepLanding, m.flow.Step)
	assert.Equal(t, generator.State{}, m.session.Store.Snapshot())
}

func TestOutputWithoutBlog(t *testing.T) {
	m, _ := newTestModel(t, nil, Options{Flow: &Flow{Step: StepOutput}})
	assert.Contains(t, m.View(), "No blog generated yet")

	m, _ = update(t, m, runes("d"))
	assert.Equal(t, "Nothing to export", m.notices[len(m.notices)-1].title)
}

func TestNoticeExpires(t *testing.T) {
	m, _ := newTestModel(t, nil, Options{})
	m.notify("Hello", "", false)
	require.Len(t, m.notices, 1)

	m, _ = update(t, m, noticeExpiredMsg{id: m.notices[0].id})
	assert.Empty(t, m.notices)
}

func TestQuitCancelsAnalysis(t *testing.T) {
	m, _ := newTestModel(t, nil, Options{Sequencer: NewSequencer()})
	m.urlInput.SetValue("example.com")
	m, _ = update(t, m, enter())
	require.NotNil(t, m.cancelAnalysis)
	ch := m.analysisCh

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// The sequencer goroutine closes its channel once cancelled.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("analysis channel not closed after quit")
		}
	}
}
