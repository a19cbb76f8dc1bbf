package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"postpilot/api"
	"postpilot/hooks"
	"postpilot/weburl"
)

// ErrNoBlog is returned when an action needs a generated blog and there is none.
var ErrNoBlog = errors.New("no generated blog yet")

// Session owns the store for one wizard run and dispatches generations.
type Session struct {
	ID          string
	Store       *Store
	hooks       *hooks.Hooks
	autoPublish bool
	logger      *zap.Logger
}

// SessionOptions configures a Session.
type SessionOptions struct {
	AutoPublish bool
	Logger      *zap.Logger
}

// NewSession creates a session with an empty store.
func NewSession(h *hooks.Hooks, opts SessionOptions) *Session {
	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		ID:          id,
		Store:       NewStore(),
		hooks:       h,
		autoPublish: opts.AutoPublish,
		logger:      logger.With(zap.String("session", id)),
	}
	s.Store.Subscribe(s.logState)
	return s
}

func (s *Session) logState(st State) {
	fields := []zap.Field{
		zap.Bool("has_params", st.Params != nil),
		zap.Bool("has_blog", st.Blog != nil),
	}
	if st.Blog != nil {
		fields = append(fields, zap.String("title", st.Blog.Title))
	}
	if st.TrendTopic != "" {
		fields = append(fields, zap.String("trend_topic", st.TrendTopic))
	}
	s.logger.Debug("store updated", fields...)
}

// Pending reports whether a generation request is in flight.
func (s *Session) Pending() bool {
	return s.hooks.GenerateFromURL.State().IsPending() ||
		s.hooks.GenerateFromTopic.State().IsPending() ||
		s.hooks.GenerateBlog.State().IsPending()
}

// Generate validates params, calls the matching generate operation and, only
// on success, commits params, blog and trend data to the store.
func (s *Session) Generate(ctx context.Context, params GenerationParams) (api.BlogData, error) {
	p := params.Snapshot()
	if err := p.Validate(); err != nil {
		return api.BlogData{}, err
	}

	region := api.MapRegion(p.Region)
	field := api.MapCategory(p.Category)
	s.logger.Info("generating blog",
		zap.String("source", string(p.SelectedOption)),
		zap.String("subject", p.Subject()),
		zap.String("region", region),
		zap.String("field", field))

	var (
		resp api.GenerateResponse
		err  error
	)
	switch p.SelectedOption {
	case SourceWebsite:
		resp, err = s.hooks.GenerateFromURL.Mutate(ctx, api.GenerateFromURLRequest{
			URL:         weburl.Normalize(p.WebsiteURL),
			Region:      region,
			Field:       field,
			AutoPublish: s.autoPublish,
		})
	default:
		resp, err = s.hooks.GenerateFromTopic.Mutate(ctx, api.GenerateFromTopicRequest{
			Topic:       p.Subject(),
			Region:      region,
			Field:       field,
			AutoPublish: s.autoPublish,
		})
	}
	if err != nil {
		s.logger.Warn("generation failed", zap.Error(err))
		return api.BlogData{}, fmt.Errorf("generate from %s: %w", p.SelectedOption, err)
	}

	s.Store.SetParams(p)
	s.Store.SetBlog(&resp.Data)
	s.Store.SetTrendData(resp.TrendData)
	s.logger.Info("blog generated", zap.String("title", resp.Data.Title))
	return resp.Data, nil
}

// GenericParams feeds the generic generation endpoint.
type GenericParams struct {
	Content  string
	IsURL    bool
	Keywords []string
	Category string
}

// GenerateGeneric generates from free content or a URL with explicit keywords.
// The store records the equivalent form params and clears trend data.
func (s *Session) GenerateGeneric(ctx context.Context, gp GenericParams) (api.BlogData, error) {
	content := strings.TrimSpace(gp.Content)
	if content == "" {
		return api.BlogData{}, &ValidationError{Field: "content", Title: "Content Required", Message: "Please enter content or a URL."}
	}
	if gp.IsURL {
		if !weburl.IsValid(content) {
			return api.BlogData{}, &ValidationError{Field: "content", Title: "Invalid URL", Message: "Please enter a valid website URL."}
		}
		content = weburl.Normalize(content)
	}

	resp, err := s.hooks.GenerateBlog.Mutate(ctx, api.GenerateBlogRequest{
		Content:     content,
		IsURL:       gp.IsURL,
		Keywords:    gp.Keywords,
		Field:       api.MapCategory(gp.Category),
		AutoPublish: s.autoPublish,
	})
	if err != nil {
		s.logger.Warn("generic generation failed", zap.Error(err))
		return api.BlogData{}, fmt.Errorf("generate blog: %w", err)
	}

	params := GenerationParams{SelectedOption: SourceCustom, CustomTopic: content, Category: gp.Category}
	if gp.IsURL {
		params = GenerationParams{SelectedOption: SourceWebsite, WebsiteURL: content, Category: gp.Category}
	}
	s.Store.SetParams(params)
	s.Store.SetBlog(&resp.Data)
	s.Store.SetTrendData(nil)
	return resp.Data, nil
}

// PickTrend asks the API for one trending topic for the given labels.
func (s *Session) PickTrend(ctx context.Context, region, category string) (api.TrendData, error) {
	resp, err := s.hooks.PickTrendingTopic.Mutate(ctx, api.PickTrendingTopicRequest{
		Region: api.MapRegion(region),
		Field:  api.MapCategory(category),
	})
	if err != nil {
		return api.TrendData{}, fmt.Errorf("pick trending topic: %w", err)
	}
	return resp.Data, nil
}

// TrendingTopics lists topics for the given labels through the cached query.
func (s *Session) TrendingTopics(ctx context.Context, region, category string, limit int) (api.TrendingTopicsResponse, error) {
	return s.hooks.TrendingTopics.Fetch(ctx, api.TrendingParams{
		Region: api.MapRegion(region),
		Field:  api.MapCategory(category),
		Limit:  limit,
	})
}

// TrendingState exposes the trending query state for rendering.
func (s *Session) TrendingState() hooks.State[api.TrendingTopicsResponse] {
	return s.hooks.TrendingTopics.State()
}

// InvalidateTrending drops cached topic lists so the next fetch hits the API.
func (s *Session) InvalidateTrending() {
	s.hooks.TrendingTopics.Invalidate()
}

// Publish sends the stored blog to the publish endpoint.
func (s *Session) Publish(ctx context.Context) (api.PublishResponse, error) {
	snap := s.Store.Snapshot()
	if snap.Blog == nil {
		return api.PublishResponse{}, ErrNoBlog
	}
	resp, err := s.hooks.PublishPost.Mutate(ctx, *snap.Blog)
	if err != nil {
		s.logger.Warn("publish failed", zap.Error(err))
		return api.PublishResponse{}, fmt.Errorf("publish post: %w", err)
	}
	s.logger.Info("blog published", zap.String("title", snap.Blog.Title))
	return resp, nil
}
