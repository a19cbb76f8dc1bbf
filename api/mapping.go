package api

import "strings"

// Regions are the region labels offered by the writer form.
var Regions = []string{
	"Global",
	"North America",
	"Europe",
	"Asia Pacific",
	"Latin America",
	"Middle East & Africa",
}

// Categories are the category labels offered by the writer form.
var Categories = []string{
	"Technology",
	"Business",
	"Health & Fitness",
	"Finance",
	"Education",
	"Entertainment",
	"Travel",
	"Food & Lifestyle",
	"Sports",
	"Politics",
	"E-commerce",
	"Marketing",
}

type mappingRule struct {
	needles []string
	value   string
}

// Order matters: the first rule with a matching needle wins.
var regionRules = []mappingRule{
	{[]string{"north america"}, "us"},
	{[]string{"europe"}, "eu"},
	{[]string{"asia"}, "apac"},
	{[]string{"latin"}, "latam"},
	{[]string{"middle east", "africa"}, "mea"},
	{[]string{"global"}, "global"},
}

var categoryRules = []mappingRule{
	{[]string{"technology"}, "tech"},
	{[]string{"business"}, "business"},
	{[]string{"health"}, "health"},
	{[]string{"finance"}, "finance"},
	{[]string{"education"}, "education"},
	{[]string{"entertainment"}, "entertainment"},
	{[]string{"travel"}, "travel"},
	{[]string{"food", "lifestyle"}, "lifestyle"},
	{[]string{"sports"}, "sports"},
	{[]string{"politics"}, "politics"},
	{[]string{"e-commerce", "ecommerce"}, "ecommerce"},
	{[]string{"marketing"}, "marketing"},
}

// MapRegion converts a region label to the API value. Unknown labels pass
// through unchanged; an empty label stays empty.
func MapRegion(region string) string {
	return mapLabel(region, regionRules)
}

// MapCategory converts a category label to the API "field" value.
func MapCategory(category string) string {
	return mapLabel(category, categoryRules)
}

func mapLabel(label string, rules []mappingRule) string {
	if label == "" {
		return ""
	}
	normalized := strings.ToLower(label)
	for _, rule := range rules {
		for _, needle := range rule.needles {
			if strings.Contains(normalized, needle) {
				return rule.value
			}
		}
	}
	return label
}
