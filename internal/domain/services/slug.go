package services

import (
	"regexp"
	"strings"
)

var (
	// reWhitespace matches runs of whitespace.
	reWhitespace = regexp.MustCompile(`\s+`)
	// reNonSlug matches characters that aren't lowercase alphanumeric or hyphen.
	reNonSlug = regexp.MustCompile(`[^a-z0-9-]`)
	// reMultipleHyphens matches consecutive hyphens.
	reMultipleHyphens = regexp.MustCompile(`-+`)
)

// Slug derives a URL slug from an entity name: lowercase, whitespace to hyphen,
// anything outside [a-z0-9-] stripped. With collapse, repeated hyphens are merged.
func Slug(name string, collapse bool) string {
	slug := strings.ToLower(name)
	slug = reWhitespace.ReplaceAllString(slug, "-")
	slug = reNonSlug.ReplaceAllString(slug, "")
	if collapse {
		slug = reMultipleHyphens.ReplaceAllString(slug, "-")
	}
	return slug
}
