package publisher

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"postpilot/api"
	"postpilot/generator"
)

const wordsPerMinute = 200

var (
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
	slugRe       = regexp.MustCompile(`[^a-z0-9]+`)
)

// PlainText flattens generated HTML into readable text, one block per
// paragraph. Content that is not HTML is returned with tags stripped.
func PlainText(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err == nil {
		const blocks = "h1,h2,h3,h4,h5,h6,p,li,blockquote,pre"
		var parts []string
		doc.Find(blocks).Each(func(_ int, s *goquery.Selection) {
			if s.ParentsFiltered("p,li,blockquote").Length() > 0 {
				return
			}
			text := collapse(s.Text())
			if text == "" {
				return
			}
			if goquery.NodeName(s) == "li" {
				text = "- " + text
			}
			parts = append(parts, text)
		})
		if len(parts) > 0 {
			return strings.Join(parts, "\n\n")
		}
	}

	stripped := html.UnescapeString(bluemonday.StrictPolicy().Sanitize(content))
	return strings.TrimSpace(blankLinesRe.ReplaceAllString(stripped, "\n\n"))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Stats summarizes the size of a blog body.
type Stats struct {
	Words          int `json:"words" yaml:"words"`
	ReadingMinutes int `json:"reading_minutes" yaml:"reading_minutes"`
}

func ContentStats(content string) Stats {
	words := len(strings.Fields(PlainText(content)))
	if words == 0 {
		return Stats{}
	}
	return Stats{
		Words:          words,
		ReadingMinutes: int(math.Ceil(float64(words) / wordsPerMinute)),
	}
}

// Detail is one labelled row of the generation details panel.
type Detail struct {
	Label string
	Value string
}

// Details lists what the blog was generated from. Empty fields are skipped.
func Details(params generator.GenerationParams) []Detail {
	out := []Detail{{Label: "Method", Value: params.SelectedOption.Label()}}
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			out = append(out, Detail{Label: label, Value: value})
		}
	}
	add("Source URL", params.WebsiteURL)
	add("Topic", params.CustomTopic)
	add("Trending Topic", params.SelectedTrend)
	add("Category", params.Category)
	add("Region", params.Region)
	return out
}

// MarkdownToHTML renders markdown such as the promotion checklist.
func MarkdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// HTMLDocument renders a standalone, sanitized HTML page for the blog.
func HTMLDocument(blog api.BlogData) (string, error) {
	policy := bluemonday.UGCPolicy()

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(blog.Title))
	if blog.MetaDescription != "" {
		fmt.Fprintf(&b, "<meta name=\"description\" content=\"%s\">\n", html.EscapeString(blog.MetaDescription))
	}
	b.WriteString("</head>\n<body>\n<article>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(blog.Title))
	if blog.ImageURL != "" {
		b.WriteString(policy.Sanitize(fmt.Sprintf(`<img src="%s" alt="%s">`, html.EscapeString(blog.ImageURL), html.EscapeString(blog.Title))))
		b.WriteString("\n")
	}
	b.WriteString(policy.Sanitize(blog.Content))
	b.WriteString("\n</article>\n")

	if strings.TrimSpace(blog.PromotionChecklist) != "" {
		checklist, err := MarkdownToHTML(blog.PromotionChecklist)
		if err != nil {
			return "", fmt.Errorf("render promotion checklist: %w", err)
		}
		b.WriteString("<aside>\n<h2>Promotion Checklist</h2>\n")
		b.WriteString(policy.Sanitize(checklist))
		b.WriteString("</aside>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

// TextDocument is the .txt download body: title, text, then the checklist.
func TextDocument(blog api.BlogData) string {
	var parts []string
	if t := strings.TrimSpace(blog.Title); t != "" {
		parts = append(parts, t)
	}
	if body := PlainText(blog.Content); body != "" {
		parts = append(parts, body)
	}
	if c := strings.TrimSpace(blog.PromotionChecklist); c != "" {
		parts = append(parts, "Promotion Checklist\n\n"+c)
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// FileName picks the download name from the slug.
func FileName(blog api.BlogData, format Format) string {
	base := strings.Trim(slugRe.ReplaceAllString(strings.ToLower(blog.URLSlug), "-"), "-")
	if base == "" {
		base = defaultBaseName
	}
	return base + "." + string(format)
}
