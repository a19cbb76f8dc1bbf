package hooks

import (
	"context"
	"time"

	"postpilot/api"
)

const healthFreshness = 60 * time.Second

// Hooks bundles one query or mutation per API operation.
type Hooks struct {
	Health            *Query[struct{}, api.HealthResponse]
	TrendingTopics    *Query[api.TrendingParams, api.TrendingTopicsResponse]
	PickTrendingTopic *Mutation[api.PickTrendingTopicRequest, api.PickTrendingTopicResponse]
	GenerateFromURL   *Mutation[api.GenerateFromURLRequest, api.GenerateResponse]
	GenerateFromTopic *Mutation[api.GenerateFromTopicRequest, api.GenerateResponse]
	GenerateBlog      *Mutation[api.GenerateBlogRequest, api.GenerateBlogResponse]
	PublishPost       *Mutation[api.BlogData, api.PublishResponse]
}

// New wires every operation of c. cache configures the trending topics query.
func New(c *api.Client, cache QueryOptions) *Hooks {
	return &Hooks{
		Health: NewQuery(func(ctx context.Context, _ struct{}) (api.HealthResponse, error) {
			return c.Health(ctx)
		}, QueryOptions{Size: 1, TTL: healthFreshness}),
		TrendingTopics:    NewQuery(c.TrendingTopics, cache),
		PickTrendingTopic: NewMutation(c.PickTrendingTopic),
		GenerateFromURL:   NewMutation(c.GenerateFromURL),
		GenerateFromTopic: NewMutation(c.GenerateFromTopic),
		GenerateBlog:      NewMutation(c.GenerateBlog),
		PublishPost:       NewMutation(c.PublishPost),
	}
}
