package wizard

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
	"go.uber.org/zap"

	"postpilot/api"
	"postpilot/generator"
	"postpilot/publisher"
)

// TrendingSuggestions fill the trending list until the API answers.
var TrendingSuggestions = []string{
	"AI in Healthcare Revolution",
	"Sustainable Technology Trends",
	"Remote Work Future",
	"Cryptocurrency Updates",
	"Climate Change Solutions",
	"Mental Health Awareness",
	"E-commerce Innovation",
	"Digital Marketing 2024",
	"Cybersecurity Threats",
	"Green Energy Transition",
}

const (
	noticeTTL  = 4 * time.Second
	maxNotices = 3
)

var sources = []generator.Source{generator.SourceWebsite, generator.SourceCustom, generator.SourceTrending}

type formField int

const (
	fieldSource formField = iota
	fieldSubject
	fieldRegion
	fieldCategory
	fieldCount
)

type form struct {
	source      generator.Source
	website     textinput.Model
	custom      textinput.Model
	trend       string   // chosen topic; empty means the first one offered
	picked      []string // topics returned by pick-trending-topic
	regionIdx   int      // 0 means no region
	categoryIdx int      // 0 means no category
	focus       formField
	err         string
}

func (f form) region() string {
	if f.regionIdx <= 0 || f.regionIdx > len(api.Regions) {
		return ""
	}
	return api.Regions[f.regionIdx-1]
}

func (f form) category() string {
	if f.categoryIdx <= 0 || f.categoryIdx > len(api.Categories) {
		return ""
	}
	return api.Categories[f.categoryIdx-1]
}

type notice struct {
	id          int
	title       string
	description string
	destructive bool
}

type Options struct {
	Session   *generator.Session
	Publisher *publisher.Publisher
	// Flow is the starting state; nil starts on the landing step.
	Flow          *Flow
	Sequencer     *Sequencer
	DownloadDir   string
	Format        publisher.Format
	TrendingLimit int
	Logger        *zap.Logger
	// OpenFile opens a local file in the browser. Defaults to browser.OpenFile.
	OpenFile func(string) error
}

// Model is the Bubble Tea model of the wizard.
type Model struct {
	ctx       context.Context
	session   *generator.Session
	publisher *publisher.Publisher
	logger    *zap.Logger
	openFile  func(string) error

	flow Flow
	seq  *Sequencer

	analysis       AnalysisEvent
	analysisCh     <-chan AnalysisEvent
	cancelAnalysis context.CancelFunc

	urlInput textinput.Model
	urlError string
	form     form

	downloadDir   string
	format        publisher.Format
	trendingLimit int

	spinner  spinner.Model
	progress progress.Model
	viewport viewport.Model
	help     help.Model
	keys     KeyMap
	showHelp bool

	notices    []notice
	nextNotice int

	width  int
	height int
}

// New builds the model. ctx bounds every request and timer the wizard
// starts; cancel it to tear them down.
func New(ctx context.Context, opts Options) Model {
	flow := NewFlow()
	if opts.Flow != nil {
		flow = opts.Flow
	}
	seq := opts.Sequencer
	if seq == nil {
		seq = NewSequencer()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pub := opts.Publisher
	if pub == nil {
		pub = publisher.New(logger)
	}
	openFile := opts.OpenFile
	if openFile == nil {
		openFile = browser.OpenFile
	}
	format := opts.Format
	if format == "" {
		format = publisher.FormatText
	}
	limit := opts.TrendingLimit
	if limit <= 0 {
		limit = 10
	}

	urlInput := textinput.New()
	urlInput.Placeholder = "Enter your website URL (e.g. example.com)"
	urlInput.CharLimit = 2048
	urlInput.Width = 60
	urlInput.Focus()

	website := textinput.New()
	website.Placeholder = "https://your-site.com"
	website.Width = 60
	custom := textinput.New()
	custom.Placeholder = "What should the blog be about?"
	custom.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	vp := viewport.New(80, 20)

	m := Model{
		ctx:           ctx,
		session:       opts.Session,
		publisher:     pub,
		logger:        logger,
		openFile:      openFile,
		flow:          *flow,
		seq:           seq,
		urlInput:      urlInput,
		form:          form{source: generator.SourceWebsite, website: website, custom: custom},
		downloadDir:   opts.DownloadDir,
		format:        format,
		trendingLimit: limit,
		spinner:       sp,
		progress:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(60)),
		viewport:      vp,
		help:          help.New(),
		keys:          DefaultKeyMap(),
		width:         80,
		height:        24,
	}
	if m.flow.Step == StepOutput {
		m.refreshOutput()
	}
	return m
}

func (m Model) Flow() Flow { return m.flow }

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	switch m.flow.Step {
	case StepAnalyzing:
		cmds = append(cmds, func() tea.Msg { return startAnalysisMsg{} })
	case StepParameterSelection, StepGenerating:
		// A restored route cannot resume a request; enterWriterMsg returns
		// to the form.
		cmds = append(cmds, func() tea.Msg { return enterWriterMsg{} })
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = clamp(msg.Width-8, 20, 80)
		m.viewport.Width = msg.Width
		m.viewport.Height = clamp(msg.Height-8, 5, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case startAnalysisMsg:
		return m, m.startAnalysis()

	case enterWriterMsg:
		if m.flow.Step == StepGenerating {
			m.flow.Step = StepParameterSelection
		}
		return m, m.enterWriter(m.flow.Prefill())

	case analysisMsg:
		if !msg.ok {
			m.analysisCh = nil
			return m, nil
		}
		m.analysis = msg.event
		if !msg.event.Done {
			return m, waitForAnalysis(m.analysisCh)
		}
		m.stopAnalysis()
		prefill, err := m.flow.AnalysisDone()
		if err != nil {
			return m, nil
		}
		m.logger.Debug("analysis complete", zap.String("route", m.flow.Route()))
		return m, m.enterWriter(prefill)

	case trendsMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.logger.Warn("trending topics fetch failed", zap.Error(msg.err))
		}
		m.keepTrend()
		return m, nil

	case pickedMsg:
		if msg.err != nil {
			return m, m.notify("Could not pick a trend", api.Message(msg.err), true)
		}
		topic := strings.TrimSpace(msg.trend.Topic)
		if topic == "" {
			return m, nil
		}
		m.form.source = generator.SourceTrending
		m.form.picked = prependUnique(m.form.picked, topic)
		m.form.trend = topic
		return m, m.notify("Trending topic picked", topic, false)

	case generatedMsg:
		if msg.err != nil {
			text := api.Message(msg.err)
			_ = m.flow.GenerateFailed(text)
			m.form.err = text
			return m, m.notify("Generation Failed", text, true)
		}
		if err := m.flow.GenerateSucceeded(); err != nil {
			return m, nil
		}
		m.refreshOutput()
		cmds := []tea.Cmd{m.notify("Blog Generated!", "Your AI-powered blog post is ready.", false)}
		if msg.blog.Published != nil && *msg.blog.Published {
			cmds = append(cmds, m.notify("Published", "The post was published automatically.", false))
		}
		return m, tea.Batch(cmds...)

	case publishedMsg:
		if msg.err != nil {
			return m, m.notify("Publish Failed", api.Message(msg.err), true)
		}
		desc := msg.resp.Message
		if desc == "" {
			desc = "Your blog post is being published to your website."
		}
		return m, m.notify("Blog Published", desc, false)

	case previewMsg:
		if msg.err != nil {
			return m, m.notify("Preview Failed", msg.err.Error(), true)
		}
		return m, m.notify("Preview Opened", msg.path, false)

	case noticeExpiredMsg:
		for i, n := range m.notices {
			if n.id == msg.id {
				m.notices = append(m.notices[:i], m.notices[i+1:]...)
				break
			}
		}
		return m, nil

	case spinner.TickMsg:
		if m.flow.Step != StepGenerating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.stopAnalysis()
		return m, tea.Quit
	}

	switch m.flow.Step {
	case StepLanding:
		return m.handleLandingKey(msg)
	case StepParameterSelection:
		return m.handleFormKey(msg)
	case StepOutput:
		return m.handleOutputKey(msg)
	case StepGenerating:
		// Submit stays disabled while the request is in flight.
		return m, nil
	}
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) handleLandingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if err := m.flow.SubmitURL(m.urlInput.Value()); err != nil {
			var vErr *generator.ValidationError
			if errors.As(err, &vErr) {
				m.urlError = vErr.Message
				return m, m.notify(vErr.Title, vErr.Message, true)
			}
			return m, nil
		}
		m.urlError = ""
		m.urlInput.Blur()
		return m, m.startAnalysis()

	case key.Matches(msg, m.keys.Writer):
		if err := m.flow.OpenWriter(); err != nil {
			return m, nil
		}
		m.urlInput.Blur()
		return m, m.enterWriter(generator.GenerationParams{SelectedOption: generator.SourceCustom})
	}

	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	if m.urlError != "" && strings.TrimSpace(m.urlInput.Value()) != "" {
		m.urlError = ""
	}
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()

	case key.Matches(msg, m.keys.Next):
		m.form.focus = (m.form.focus + 1) % fieldCount
		return m, m.syncFocus()

	case key.Matches(msg, m.keys.Prev):
		m.form.focus = (m.form.focus + fieldCount - 1) % fieldCount
		return m, m.syncFocus()

	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		delta := 1
		if key.Matches(msg, m.keys.Left) {
			delta = -1
		}
		if cmd, handled := m.cycle(delta); handled {
			return m, cmd
		}

	case key.Matches(msg, m.keys.PickTrend):
		return m, pickTrend(m.ctx, m.session, m.form.region(), m.form.category())

	case key.Matches(msg, m.keys.Refresh):
		m.session.InvalidateTrending()
		return m, m.refreshTrends()
	}

	if m.form.focus != fieldSubject {
		return m, nil
	}
	var cmd tea.Cmd
	switch m.form.source {
	case generator.SourceWebsite:
		m.form.website, cmd = m.form.website.Update(msg)
	case generator.SourceCustom:
		m.form.custom, cmd = m.form.custom.Update(msg)
	}
	return m, cmd
}

// cycle moves the option of the focused selector. Text fields are left to
// the input so the cursor keys keep working there.
func (m *Model) cycle(delta int) (tea.Cmd, bool) {
	switch m.form.focus {
	case fieldSource:
		i := indexOfSource(m.form.source)
		m.form.source = sources[wrap(i+delta, len(sources))]
		m.form.err = ""
		return m.syncFocus(), true
	case fieldSubject:
		if m.form.source != generator.SourceTrending {
			return nil, false
		}
		if topics := m.trendTopics(); len(topics) > 0 {
			_, i := m.selectedTrend()
			m.form.trend = topics[wrap(i+delta, len(topics))]
		}
		return nil, true
	case fieldRegion:
		m.form.regionIdx = wrap(m.form.regionIdx+delta, len(api.Regions)+1)
		return m.refreshTrends(), true
	case fieldCategory:
		m.form.categoryIdx = wrap(m.form.categoryIdx+delta, len(api.Categories)+1)
		return m.refreshTrends(), true
	}
	return nil, false
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.flow.Step != StepParameterSelection || m.session.Pending() {
		return m, nil
	}
	params := m.params()
	if err := params.Validate(); err != nil {
		var vErr *generator.ValidationError
		if errors.As(err, &vErr) {
			m.form.err = vErr.Message
			return m, m.notify(vErr.Title, vErr.Message, true)
		}
		return m, nil
	}
	if err := m.flow.BeginGenerate(); err != nil {
		return m, nil
	}
	m.form.err = ""
	return m, tea.Batch(m.spinner.Tick, generate(m.ctx, m.session, params))
}

// params is the form as GenerationParams, holding only the chosen source.
func (m Model) params() generator.GenerationParams {
	p := generator.GenerationParams{
		SelectedOption: m.form.source,
		Region:         m.form.region(),
		Category:       m.form.category(),
	}
	switch m.form.source {
	case generator.SourceWebsite:
		p.WebsiteURL = m.form.website.Value()
	case generator.SourceCustom:
		p.CustomTopic = m.form.custom.Value()
	case generator.SourceTrending:
		p.SelectedTrend, _ = m.selectedTrend()
	}
	return p.Snapshot()
}

func (m Model) handleOutputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	blog := m.session.Store.Snapshot().Blog
	switch {
	case key.Matches(msg, m.keys.Restart):
		m.restart()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Copy), key.Matches(msg, m.keys.Download),
		key.Matches(msg, m.keys.Publish), key.Matches(msg, m.keys.Open):
		if blog == nil {
			return m, m.notify("Nothing to export", generator.ErrNoBlog.Error(), true)
		}
	}

	switch {
	case key.Matches(msg, m.keys.Copy):
		if err := m.publisher.Copy(*blog); err != nil {
			return m, m.notify("Copy Failed", err.Error(), true)
		}
		return m, m.notify("Copied to Clipboard", "Blog content has been copied to your clipboard.", false)

	case key.Matches(msg, m.keys.Download):
		path, err := m.publisher.Download(m.downloadDir, *blog, m.format)
		if err != nil {
			return m, m.notify("Download Failed", err.Error(), true)
		}
		return m, m.notify("Download Complete", path, false)

	case key.Matches(msg, m.keys.Publish):
		return m, tea.Batch(
			m.notify("Publishing Blog", "Sending the post to your website.", false),
			publish(m.ctx, m.publisher, m.session),
		)

	case key.Matches(msg, m.keys.Open):
		return m, preview(m.publisher, *blog, m.openFile)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) startAnalysis() tea.Cmd {
	m.stopAnalysis()
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelAnalysis = cancel
	m.analysis = AnalysisEvent{}
	m.analysisCh = runAnalysis(ctx, m.seq)
	return waitForAnalysis(m.analysisCh)
}

func (m *Model) stopAnalysis() {
	if m.cancelAnalysis != nil {
		m.cancelAnalysis()
		m.cancelAnalysis = nil
	}
}

// enterWriter resets the form to prefill and loads trending topics.
func (m *Model) enterWriter(prefill generator.GenerationParams) tea.Cmd {
	if prefill.SelectedOption != generator.SourceNone {
		m.form.source = prefill.SelectedOption
	}
	m.form.website.SetValue(prefill.WebsiteURL)
	m.form.custom.SetValue(prefill.CustomTopic)
	m.form.err = m.flow.LastError
	m.form.focus = fieldSubject
	return tea.Batch(m.syncFocus(), m.refreshTrends())
}

func (m *Model) refreshTrends() tea.Cmd {
	return fetchTrends(m.ctx, m.session, m.form.region(), m.form.category(), m.trendingLimit)
}

func (m *Model) syncFocus() tea.Cmd {
	m.form.website.Blur()
	m.form.custom.Blur()
	if m.form.focus != fieldSubject {
		return nil
	}
	switch m.form.source {
	case generator.SourceWebsite:
		return m.form.website.Focus()
	case generator.SourceCustom:
		return m.form.custom.Focus()
	}
	return nil
}

func (m *Model) restart() {
	m.stopAnalysis()
	m.session.Store.ClearAll()
	m.flow.Restart()
	m.analysis = AnalysisEvent{}
	m.urlInput.SetValue("")
	m.urlInput.Focus()
	m.urlError = ""
	m.form.website.SetValue("")
	m.form.custom.SetValue("")
	m.form.picked = nil
	m.form.trend = ""
	m.form.err = ""
	m.showHelp = false
}

// trendTopics are the topics offered for the trending option: picked ones
// first, then the API list (stale while refreshing), else the suggestions.
func (m Model) trendTopics() []string {
	var base []string
	if st := m.session.TrendingState(); st.HasData && len(st.Data.Topics) > 0 {
		base = st.Data.Topics
	} else {
		base = TrendingSuggestions
	}
	out := append([]string(nil), m.form.picked...)
	for _, t := range base {
		if indexOf(out, t) < 0 {
			out = append(out, t)
		}
	}
	return out
}

// selectedTrend returns the chosen topic and its position in trendTopics,
// or the first topic when nothing was chosen. The index is -1 when no topics
// are offered.
func (m Model) selectedTrend() (string, int) {
	topics := m.trendTopics()
	if i := indexOf(topics, m.form.trend); m.form.trend != "" && i >= 0 {
		return topics[i], i
	}
	if len(topics) == 0 {
		return "", -1
	}
	return topics[0], 0
}

// keepTrend pins a chosen topic that a refreshed list no longer contains,
// so a new list never swaps the user's choice for another topic.
func (m *Model) keepTrend() {
	if m.form.trend != "" && indexOf(m.trendTopics(), m.form.trend) < 0 {
		m.form.picked = prependUnique(m.form.picked, m.form.trend)
	}
}

func (m *Model) notify(title, description string, destructive bool) tea.Cmd {
	m.nextNotice++
	id := m.nextNotice
	m.notices = append(m.notices, notice{id: id, title: title, description: description, destructive: destructive})
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
	if destructive {
		m.logger.Info("notice", zap.String("title", title), zap.String("description", description))
	}
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{id: id} })
}

func indexOfSource(s generator.Source) int {
	for i, src := range sources {
		if src == s {
			return i
		}
	}
	return 0
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func prependUnique(list []string, s string) []string {
	out := []string{s}
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
