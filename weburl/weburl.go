// Package weburl turns free-text website input into a canonical absolute URL
// and checks it against a permissive domain-shape heuristic.
package weburl

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	schemeRe     = regexp.MustCompile(`(?i)^https?://`)
	wwwRe        = regexp.MustCompile(`(?i)^www\.`)
	domainLikeRe = regexp.MustCompile(`(?i)^[a-z0-9.-]+\.[a-z]{2,}(?:[:/].*)?$`)
	tldRe        = regexp.MustCompile(`(?i)^[a-z]{2,24}$`)
	labelRe      = regexp.MustCompile(`(?i)^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)
)

// Normalize adds an https scheme to input that looks like a domain.
// Input that cannot be turned into a URL is returned trimmed but otherwise
// untouched, so callers still need IsValid before trusting the result.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if schemeRe.MatchString(trimmed) {
		return trimmed
	}
	if wwwRe.MatchString(trimmed) || domainLikeRe.MatchString(trimmed) {
		return "https://" + trimmed
	}

	candidate := "https://" + trimmed
	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		return trimmed
	}
	return candidate
}

// IsValid reports whether raw normalizes to an http(s) URL whose host looks
// like a registrable domain.
func IsValid(raw string) bool {
	u, err := url.Parse(Normalize(raw))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	if !strings.Contains(host, ".") {
		return false
	}
	labels := strings.Split(strings.TrimPrefix(host, "www."), ".")
	if len(labels) < 2 {
		return false
	}
	if !tldRe.MatchString(labels[len(labels)-1]) {
		return false
	}
	for _, label := range labels {
		if !labelRe.MatchString(label) {
			return false
		}
	}
	return true
}

// Hostname returns the host of the normalized URL without a leading "www.".
// Unparseable input comes back as given.
func Hostname(raw string) string {
	normalized := Normalize(raw)
	u, err := url.Parse(normalized)
	if err != nil || u.Hostname() == "" {
		return normalized
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
