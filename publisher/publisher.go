// Package publisher exports a generated blog: clipboard copy, file
// download and sending it to the publish endpoint.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"postpilot/api"
)

const defaultBaseName = "ai-generated-blog"

// Format is a download file format.
type Format string

const (
	FormatText Format = "txt"
	FormatHTML Format = "html"
)

// ParseFormat reads a format name; empty means txt.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return FormatText, fmt.Errorf("unsupported format %q: must be txt or html", s)
	}
}

// ErrPublishRejected is returned when the API answers success=false.
var ErrPublishRejected = errors.New("publish rejected")

// Poster sends the current blog to the publish endpoint.
type Poster interface {
	Publish(ctx context.Context) (api.PublishResponse, error)
}

// Publisher carries out the output-screen actions.
type Publisher struct {
	logger    *zap.Logger
	writeClip func(string) error
}

// New returns a Publisher that writes to the system clipboard.
func New(logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		logger:    logger,
		writeClip: clipboard.WriteAll,
	}
}

func (p *Publisher) infof(format string, args ...any) {
	p.logger.Sugar().Infof(format, args...)
}

// Copy puts the plain text of the blog on the system clipboard.
func (p *Publisher) Copy(blog api.BlogData) error {
	if err := p.writeClip(TextDocument(blog)); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	p.infof("Copied %q to clipboard", blog.Title)
	return nil
}

// Download writes the blog into dir and returns the file path.
func (p *Publisher) Download(dir string, blog api.BlogData, format Format) (string, error) {
	if dir == "" {
		dir = "."
	}
	var body string
	switch format {
	case FormatHTML:
		doc, err := HTMLDocument(blog)
		if err != nil {
			return "", err
		}
		body = doc
	default:
		format = FormatText
		body = TextDocument(blog)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	path := filepath.Join(dir, FileName(blog, format))
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	p.infof("Downloaded blog to %s", path)
	return path, nil
}

// Publish sends the blog through poster and turns success=false into an error.
func (p *Publisher) Publish(ctx context.Context, poster Poster) (api.PublishResponse, error) {
	resp, err := poster.Publish(ctx)
	if err != nil {
		return resp, err
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "the API did not accept the post"
		}
		return resp, fmt.Errorf("%w: %s", ErrPublishRejected, msg)
	}
	p.infof("Blog published: %s", resp.Message)
	return resp, nil
}
