package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapRegion(t *testing.T) {
	tests := map[string]string{
		"North America":        "us",
		"europe":               "eu",
		"Asia Pacific":         "apac",
		"Latin America":        "latam",
		"Middle East & Africa": "mea",
		"Africa":               "mea",
		"Global":               "global",
		"Antarctica":           "Antarctica",
		"":                     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, MapRegion(in), in)
	}
}

func TestMapCategory(t *testing.T) {
	tests := map[string]string{
		"Technology":       "tech",
		"Business":         "business",
		"Health & Fitness": "health",
		"Food & Lifestyle": "lifestyle",
		"E-commerce":       "ecommerce",
		"ecommerce tips":   "ecommerce",
		"Marketing":        "marketing",
		"Gardening":        "Gardening",
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, MapCategory(in), in)
	}
}

func TestMappingFirstRuleWins(t *testing.T) {
	// "business travel" matches both business and travel; business comes first.
	assert.Equal(t, "business", MapCategory("Business Travel"))
}

func TestEveryListedLabelMaps(t *testing.T) {
	for _, r := range Regions {
		assert.NotEqual(t, r, MapRegion(r), r)
	}
	for _, c := range Categories {
		assert.NotEqual(t, c, MapCategory(c), c)
	}
}
