package publisher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postpilot/api"
	"postpilot/generator"
)

func sampleBlog() api.BlogData {
	return api.BlogData{
		Title:              "Remote Work Future",
		Content:            "<h2>Intro</h2><p>Teams are <b>distributed</b> now.</p><ul><li>Async first</li><li>Fewer meetings</li></ul>",
		MetaDescription:    "How remote work evolves",
		URLSlug:            "remote-work-future",
		PromotionChecklist: "- Share on LinkedIn\n- Email the newsletter",
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "  ", ""},
		{"blocks", "<h2>Intro</h2><p>Hello <b>world</b></p><ul><li>One</li><li>Two</li></ul>", "Intro\n\nHello world\n\n- One\n\n- Two"},
		{"nested paragraph in list", "<ul><li><p>Only once</p></li></ul>", "- Only once"},
		{"not html", "a & b plain text", "a & b plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestContentStats(t *testing.T) {
	assert.Equal(t, Stats{}, ContentStats(""))

	s := ContentStats("<p>" + strings.Repeat("word ", 450) + "</p>")
	assert.Equal(t, 450, s.Words)
	assert.Equal(t, 3, s.ReadingMinutes)

	assert.Equal(t, 1, ContentStats("<p>short</p>").ReadingMinutes)
}

func TestDetails(t *testing.T) {
	d := Details(generator.GenerationParams{
		SelectedOption: generator.SourceCustom,
		CustomTopic:    "T",
		Category:       "Technology",
	})
	assert.Equal(t, []Detail{
		{Label: "Method", Value: "Custom Topic"},
		{Label: "Topic", Value: "T"},
		{Label: "Category", Value: "Technology"},
	}, d)
}

func TestHTMLDocumentSanitizes(t *testing.T) {
	blog := sampleBlog()
	blog.Content += `<script>alert("x")</script>`
	blog.Title = `Tips <&> Tricks`

	doc, err := HTMLDocument(blog)
	require.NoError(t, err)

	assert.NotContains(t, doc, "<script")
	assert.Contains(t, doc, "<title>Tips &lt;&amp;&gt; Tricks</title>")
	assert.Contains(t, doc, `<meta name="description" content="How remote work evolves">`)
	assert.Contains(t, doc, "<li>Share on LinkedIn</li>")
	assert.Contains(t, doc, "<b>distributed</b>")
}

func TestTextDocument(t *testing.T) {
	doc := TextDocument(sampleBlog())
	assert.True(t, strings.HasPrefix(doc, "Remote Work Future\n\nIntro\n\nTeams are distributed now."))
	assert.Contains(t, doc, "Promotion Checklist\n\n- Share on LinkedIn")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "remote-work-future.html", FileName(sampleBlog(), FormatHTML))
	assert.Equal(t, "my-post.txt", FileName(api.BlogData{URLSlug: " My Post! "}, FormatText))
	assert.Equal(t, "ai-generated-blog.txt", FileName(api.BlogData{}, FormatText))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("HTML")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestDownload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	p := New(nil)

	path, err := p.Download(dir, api.BlogData{Title: "T", Content: "<p>Body</p>"}, FormatText)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ai-generated-blog.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "T\n\nBody\n", string(data))

	path, err = p.Download(dir, sampleBlog(), FormatHTML)
	require.NoError(t, err)
	assert.Equal(t, "remote-work-future.html", filepath.Base(path))
}

func TestCopy(t *testing.T) {
	p := New(nil)
	var got string
	p.writeClip = func(s string) error {
		got = s
		return nil
	}
	require.NoError(t, p.Copy(api.BlogData{Title: "T", Content: "<p>Body</p>"}))
	assert.Equal(t, "T\n\nBody\n", got)

	p.writeClip = func(string) error { return errors.New("no clipboard") }
	assert.ErrorContains(t, p.Copy(sampleBlog()), "no clipboard")
}

type fakePoster struct {
	resp api.PublishResponse
	err  error
}

func (f fakePoster) Publish(context.Context) (api.PublishResponse, error) {
	return f.resp, f.err
}

func TestPublish(t *testing.T) {
	p := New(nil)
	ctx := context.Background()

	resp, err := p.Publish(ctx, fakePoster{resp: api.PublishResponse{Success: true, Message: "ok"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Message)

	_, err = p.Publish(ctx, fakePoster{resp: api.PublishResponse{Success: false, Message: "CMS offline"}})
	assert.ErrorIs(t, err, ErrPublishRejected)
	assert.ErrorContains(t, err, "CMS offline")

	_, err = p.Publish(ctx, fakePoster{err: generator.ErrNoBlog})
	assert.ErrorIs(t, err, generator.ErrNoBlog)
}
