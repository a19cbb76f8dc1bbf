package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type TrendingTopicsResponse struct {
	Success bool     `json:"success"`
	Topics  []string `json:"topics"`
	Region  string   `json:"region,omitempty"`
	Field   string   `json:"field,omitempty"`
}

// TrendData is the topic and keyword list attached to a generation.
type TrendData struct {
	Topic    string   `json:"topic"`
	Keywords []string `json:"keywords"`
}

type PickTrendingTopicResponse struct {
	Success bool      `json:"success"`
	Data    TrendData `json:"data"`
}

// BlogData is the generated post. Content is HTML.
//
// Keys the API sends beyond the typed fields are kept in Extra and written
// back on marshal, so publishing re-sends the post as it was received.
type BlogData struct {
	Title              string `json:"title"`
	Content            string `json:"content"`
	MetaDescription    string `json:"meta_description,omitempty"`
	URLSlug            string `json:"url_slug,omitempty"`
	ImageURL           string `json:"image_url,omitempty"`
	PromotionChecklist string `json:"promotion_checklist,omitempty"`
	Published          *bool  `json:"published,omitempty"`

	Extra map[string]json.RawMessage `json:"-" yaml:"-"`
}

var blogFields = map[string]bool{
	"title": true, "content": true, "meta_description": true, "url_slug": true,
	"image_url": true, "promotion_checklist": true, "published": true,
}

type plainBlog BlogData

func (b BlogData) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(plainBlog(b))
	if err != nil || len(b.Extra) == 0 {
		return known, err
	}
	merged := make(map[string]json.RawMessage, len(b.Extra)+len(blogFields))
	for k, v := range b.Extra {
		merged[k] = v
	}
	// Typed fields win over a stale copy in Extra.
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	return json.Marshal(merged)
}

func (b *BlogData) UnmarshalJSON(data []byte) error {
	var p plainBlog
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	p.Extra = nil
	for k, v := range all {
		// encoding/json matches struct fields case-insensitively.
		if blogFields[strings.ToLower(k)] {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]json.RawMessage)
		}
		p.Extra[k] = v
	}
	*b = BlogData(p)
	return nil
}

type GenerateResponse struct {
	Success   bool       `json:"success"`
	Data      BlogData   `json:"data"`
	TrendData *TrendData `json:"trend_data,omitempty"`
}

type GenerateBlogResponse struct {
	Success bool     `json:"success"`
	Data    BlogData `json:"data"`
}

type PublishResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// TrendingParams doubles as the cache key of the trending topics query.
type TrendingParams struct {
	Region string
	Field  string
	Limit  int
}

type PickTrendingTopicRequest struct {
	Region string `json:"region,omitempty"`
	Field  string `json:"field,omitempty"`
}

type GenerateFromURLRequest struct {
	URL         string `json:"url"`
	Region      string `json:"region,omitempty"`
	Field       string `json:"field,omitempty"`
	AutoPublish bool   `json:"auto_publish,omitempty"`
}

type GenerateFromTopicRequest struct {
	Topic       string `json:"topic"`
	Region      string `json:"region,omitempty"`
	Field       string `json:"field,omitempty"`
	AutoPublish bool   `json:"auto_publish,omitempty"`
}

type GenerateBlogRequest struct {
	Content     string   `json:"content"`
	IsURL       bool     `json:"is_url,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Field       string   `json:"field,omitempty"`
	AutoPublish bool     `json:"auto_publish,omitempty"`
}

func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	return Do[HealthResponse](ctx, c, http.MethodGet, "/health", nil, nil)
}

func (c *Client) TrendingTopics(ctx context.Context, params TrendingParams) (TrendingTopicsResponse, error) {
	query := Query{"region": params.Region, "field": params.Field}
	if params.Limit > 0 {
		query["limit"] = params.Limit
	}
	return Do[TrendingTopicsResponse](ctx, c, http.MethodGet, "/api/trending-topics", nil, query)
}

func (c *Client) PickTrendingTopic(ctx context.Context, req PickTrendingTopicRequest) (PickTrendingTopicResponse, error) {
	return Do[PickTrendingTopicResponse](ctx, c, http.MethodPost, "/api/pick-trending-topic", req, nil)
}

func (c *Client) GenerateFromURL(ctx context.Context, req GenerateFromURLRequest) (GenerateResponse, error) {
	return Do[GenerateResponse](ctx, c, http.MethodPost, "/api/generate-from-url", req, nil)
}

func (c *Client) GenerateFromTopic(ctx context.Context, req GenerateFromTopicRequest) (GenerateResponse, error) {
	return Do[GenerateResponse](ctx, c, http.MethodPost, "/api/generate-from-topic", req, nil)
}

// GenerateBlog calls the generic generation endpoint.
func (c *Client) GenerateBlog(ctx context.Context, req GenerateBlogRequest) (GenerateBlogResponse, error) {
	return Do[GenerateBlogResponse](ctx, c, http.MethodPost, "/api/generate-blog", req, nil)
}

// PublishPost sends blog back to the API exactly as given.
func (c *Client) PublishPost(ctx context.Context, blog BlogData) (PublishResponse, error) {
	return Do[PublishResponse](ctx, c, http.MethodPost, "/api/publish-post", blog, nil)
}
