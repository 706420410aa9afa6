package common

import (
	"errors"
	"regexp"
	"strings"
)

// MaxSlugLength bounds derived slugs in bytes. Slugs are ASCII once stripped.
const MaxSlugLength = 50

var (
	ErrEmptySlug = errors.New("slug cannot be empty")
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slugify derives a URL-safe identifier from name. The steps run in a fixed
// order: lower-case, spaces to hyphens, strip anything outside [a-z0-9-],
// truncate. "Café 24/7!!" therefore becomes "caf-247".
func Slugify(name string) (string, error) {
	slug := slugify(name)
	if slug == "" {
		return "", ErrEmptySlug
	}
	return slug, nil
}

func slugify(s string) string {
	lower := strings.ToLower(s)
	hyphenated := strings.ReplaceAll(lower, " ", "-")
	slug := nonSlugChars.ReplaceAllString(hyphenated, "")
	if len(slug) > MaxSlugLength {
		slug = slug[:MaxSlugLength]
	}
	return slug
}
