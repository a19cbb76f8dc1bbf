package generator

import (
	"strings"

	"postpilot/weburl"
)

// Source selects where generated content comes from.
type Source string

const (
	SourceNone     Source = ""
	SourceWebsite  Source = "website"
	SourceCustom   Source = "custom"
	SourceTrending Source = "trending"
)

// Label is the human name used on the output screen.
func (s Source) Label() string {
	switch s {
	case SourceWebsite:
		return "Website Analysis"
	case SourceCustom:
		return "Custom Topic"
	case SourceTrending:
		return "Trending Topic"
	default:
		return "None"
	}
}

// ParseSource accepts the wire names; anything else is SourceNone.
func ParseSource(s string) Source {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceWebsite:
		return SourceWebsite
	case SourceCustom:
		return SourceCustom
	case SourceTrending:
		return SourceTrending
	default:
		return SourceNone
	}
}

// GenerationParams is what the user chose on the writer form.
// Region and Category hold UI labels; they are mapped to API values on dispatch.
type GenerationParams struct {
	SelectedOption Source `json:"selectedOption" yaml:"selected_option"`
	WebsiteURL     string `json:"websiteUrl,omitempty" yaml:"website_url,omitempty"`
	CustomTopic    string `json:"customTopic,omitempty" yaml:"custom_topic,omitempty"`
	SelectedTrend  string `json:"selectedTrend,omitempty" yaml:"selected_trend,omitempty"`
	Region         string `json:"region,omitempty" yaml:"region,omitempty"`
	Category       string `json:"category,omitempty" yaml:"category,omitempty"`
}

// Snapshot keeps only the source field that SelectedOption makes meaningful.
func (p GenerationParams) Snapshot() GenerationParams {
	out := GenerationParams{
		SelectedOption: p.SelectedOption,
		Region:         strings.TrimSpace(p.Region),
		Category:       strings.TrimSpace(p.Category),
	}
	switch p.SelectedOption {
	case SourceWebsite:
		out.WebsiteURL = strings.TrimSpace(p.WebsiteURL)
	case SourceCustom:
		out.CustomTopic = strings.TrimSpace(p.CustomTopic)
	case SourceTrending:
		out.SelectedTrend = strings.TrimSpace(p.SelectedTrend)
	}
	return out
}

// Subject returns the meaningful source value.
func (p GenerationParams) Subject() string {
	switch p.SelectedOption {
	case SourceWebsite:
		return p.WebsiteURL
	case SourceCustom:
		return p.CustomTopic
	case SourceTrending:
		return p.SelectedTrend
	default:
		return ""
	}
}

// ValidationError is a client-side form error raised before any network call.
type ValidationError struct {
	Field   string
	Title   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate checks the form the same way the writer screen does.
func (p GenerationParams) Validate() error {
	switch p.SelectedOption {
	case SourceWebsite:
		url := strings.TrimSpace(p.WebsiteURL)
		if url == "" {
			return &ValidationError{Field: "websiteUrl", Title: "URL Required", Message: "Please enter a website URL."}
		}
		if !weburl.IsValid(url) {
			return &ValidationError{Field: "websiteUrl", Title: "Invalid URL", Message: "Please enter a valid website URL."}
		}
	case SourceCustom:
		if strings.TrimSpace(p.CustomTopic) == "" {
			return &ValidationError{Field: "customTopic", Title: "Topic Required", Message: "Please enter a custom topic."}
		}
	case SourceTrending:
		if strings.TrimSpace(p.SelectedTrend) == "" {
			return &ValidationError{Field: "selectedTrend", Title: "Topic Required", Message: "Please select a trending topic."}
		}
	default:
		return &ValidationError{Field: "selectedOption", Title: "Selection Required", Message: "Please select a blog writing option."}
	}
	return nil
}
