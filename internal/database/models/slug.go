package models

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
)

// CardSlugLength is the length of generated business card slugs.
const CardSlugLength = 10

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a display name: lower-cased, with
// runs of non-alphanumeric characters collapsed to a single dash.
// Collisions are not disambiguated here; the unique index on the slug
// column surfaces them as a conflict to the caller.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = nonAlnum.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

const slugAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomSlug returns a random alphanumeric token of length n.
func RandomSlug(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = slugAlphabet[int(b)%len(slugAlphabet)]
	}
	return string(buf), nil
}
