package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"postpilot/api"
	"postpilot/generator"
	"postpilot/publisher"
	"postpilot/weburl"
)

var (
	accentStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("135"))
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")).Padding(0, 1)
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	okStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	focusStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	panelStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	noticeStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("10")).Padding(0, 1)
	destructiveStyle = noticeStyle.BorderForeground(lipgloss.Color("9"))
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("PostPilot.AI"))
	b.WriteString(dimStyle.Render(m.flow.Route()))
	b.WriteString("\n\n")

	switch m.flow.Step {
	case StepLanding:
		b.WriteString(m.viewLanding())
	case StepAnalyzing:
		b.WriteString(m.viewAnalysis())
	case StepParameterSelection:
		b.WriteString(m.viewForm())
	case StepGenerating:
		b.WriteString(m.viewGenerating())
	case StepOutput:
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")

	for _, n := range m.notices {
		style := noticeStyle
		if n.destructive {
			style = destructiveStyle
		}
		text := headerStyle.Render(n.title)
		if n.description != "" {
			text += "\n" + n.description
		}
		b.WriteString(style.Render(text))
		b.WriteString("\n")
	}

	m.help.ShowAll = m.showHelp
	b.WriteString(m.help.View(stepKeys{k: m.keys, step: m.flow.Step}))
	return b.String()
}

func (m Model) viewLanding() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Turn any website into a ready-to-publish blog post"))
	b.WriteString("\n\n")
	b.WriteString(m.urlInput.View())
	b.WriteString("\n")
	if m.urlError != "" {
		b.WriteString(errStyle.Render(m.urlError))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewAnalysis() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Analyzing " + displayHost(m.flow.URL)))
	b.WriteString("\n\n")
	b.WriteString(m.progress.ViewAs(m.analysis.Progress / 100))
	b.WriteString(dimStyle.Render(fmt.Sprintf(" %3.0f%%", m.analysis.Progress)))
	b.WriteString("\n\n")

	for i, step := range m.seq.Steps {
		switch {
		case i < m.analysis.Step:
			b.WriteString(okStyle.Render("✓ " + step.Label))
		case i == m.analysis.Step && !m.analysis.Done:
			b.WriteString(focusStyle.Render("● " + step.Label))
			b.WriteString(dimStyle.Render("  " + step.Description))
			if n := len(step.Details); n > 0 {
				b.WriteString("\n    ")
				b.WriteString(accentStyle.Render(step.Details[m.analysis.Detail%n]))
			}
		default:
			b.WriteString(dimStyle.Render("○ " + step.Label))
		}
		b.WriteString("\n")
	}
	if m.analysis.Step >= len(m.seq.Steps) {
		b.WriteString("\n")
		b.WriteString(okStyle.Render("Analysis complete. Opening the blog writer..."))
		b.WriteString("\n")
	}
	return b.String()
}

func displayHost(raw string) string {
	if host := weburl.Hostname(raw); host != "" {
		return host
	}
	return raw
}

func (m Model) viewForm() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("AI Blog Writer"))
	b.WriteString("\n\n")

	row := func(field formField, label, value string) {
		marker := "  "
		style := lipgloss.NewStyle()
		if m.form.focus == field {
			marker = focusStyle.Render("> ")
			style = focusStyle
		}
		b.WriteString(marker)
		b.WriteString(dimStyle.Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(style.Render(value))
		b.WriteString("\n")
	}

	row(fieldSource, "Source", "‹ "+m.form.source.Label()+" ›")
	switch m.form.source {
	case generator.SourceWebsite:
		row(fieldSubject, "Website", m.form.website.View())
	case generator.SourceCustom:
		row(fieldSubject, "Topic", m.form.custom.View())
	case generator.SourceTrending:
		value := dimStyle.Render("no topics yet")
		if topic, i := m.selectedTrend(); i >= 0 {
			value = fmt.Sprintf("‹ %s › (%d/%d)", topic, i+1, len(m.trendTopics()))
		}
		row(fieldSubject, "Trend", value)
	}
	row(fieldRegion, "Region", "‹ "+orAny(m.form.region())+" ›")
	row(fieldCategory, "Category", "‹ "+orAny(m.form.category())+" ›")

	if m.form.source == generator.SourceTrending {
		b.WriteString("\n")
		b.WriteString(m.viewTrendStatus())
	}
	if m.form.err != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(m.form.err))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewTrendStatus() string {
	st := m.session.TrendingState()
	switch {
	case st.IsPending() && st.HasData:
		return dimStyle.Render("Refreshing trending topics...") + "\n"
	case st.IsPending():
		return dimStyle.Render("Loading trending topics, showing suggestions...") + "\n"
	case st.Err != nil && st.HasData:
		return warnStyle.Render("Could not refresh trending topics: "+api.Message(st.Err)+". Showing previous topics.") + "\n"
	case st.Err != nil:
		return warnStyle.Render("Trending topics unavailable: "+api.Message(st.Err)+". Showing suggestions.") + "\n"
	}
	return ""
}

func orAny(s string) string {
	if s == "" {
		return "Any"
	}
	return s
}

func (m Model) viewGenerating() string {
	p := m.params()
	return fmt.Sprintf("%s Generating your blog from %s: %s\n",
		m.spinner.View(), strings.ToLower(p.SelectedOption.Label()), accentStyle.Render(p.Subject()))
}

// refreshOutput renders the stored blog into the viewport.
func (m *Model) refreshOutput() {
	m.viewport.SetContent(renderOutput(m.session.Store.Snapshot(), m.viewport.Width))
	m.viewport.GotoTop()
}

func renderOutput(st generator.State, width int) string {
	if st.Blog == nil {
		return warnStyle.Render("No blog generated yet. Press n to start a new one.")
	}
	blog := st.Blog
	var b strings.Builder

	b.WriteString(headerStyle.Render(blog.Title))
	b.WriteString("\n")
	if blog.MetaDescription != "" {
		b.WriteString(dimStyle.Render(blog.MetaDescription))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if st.Params != nil {
		var details []string
		for _, d := range publisher.Details(*st.Params) {
			details = append(details, dimStyle.Render(d.Label+": ")+d.Value)
		}
		b.WriteString(panelStyle.Render(headerStyle.Render("Generation Details") + "\n" + strings.Join(details, "\n")))
		b.WriteString("\n")
	}

	stats := publisher.ContentStats(blog.Content)
	statLines := []string{
		fmt.Sprintf("%s%d", dimStyle.Render("Words: "), stats.Words),
		fmt.Sprintf("%s%d min", dimStyle.Render("Reading time: "), stats.ReadingMinutes),
	}
	if blog.URLSlug != "" {
		statLines = append(statLines, dimStyle.Render("Slug: ")+blog.URLSlug)
	}
	if blog.Published != nil {
		state := "draft"
		if *blog.Published {
			state = "published"
		}
		statLines = append(statLines, dimStyle.Render("Status: ")+state)
	}
	b.WriteString(panelStyle.Render(headerStyle.Render("Content Stats") + "\n" + strings.Join(statLines, "\n")))
	b.WriteString("\n\n")

	text := publisher.PlainText(blog.Content)
	if width > 4 {
		text = lipgloss.NewStyle().Width(width - 2).Render(text)
	}
	b.WriteString(text)
	b.WriteString("\n")

	if st.TrendTopic != "" || len(st.TrendKeywords) > 0 {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Trend"))
		b.WriteString("\n")
		if st.TrendTopic != "" {
			b.WriteString(st.TrendTopic + "\n")
		}
		if len(st.TrendKeywords) > 0 {
			b.WriteString(dimStyle.Render("Keywords: ") + strings.Join(st.TrendKeywords, ", ") + "\n")
		}
	}
	if checklist := strings.TrimSpace(blog.PromotionChecklist); checklist != "" {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Promotion Checklist"))
		b.WriteString("\n")
		b.WriteString(checklist)
		b.WriteString("\n")
	}
	return b.String()
}
