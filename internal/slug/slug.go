// Package slug derives URL-safe list slugs from human-entered titles.
package slug

import (
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// MaxBaseLength bounds the title-derived portion so the full slug
	// fits the column limit with room for the uniqueness suffix.
	MaxBaseLength = 100

	// suffixLength is short enough to keep slugs readable; the slug
	// column's UNIQUE constraint catches the rare collision and the
	// caller retries with a fresh suffix.
	suffixLength = 8

	suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Derive builds a slug from a list title: lowercased, stripped of
// anything that is not alphanumeric, whitespace, or a hyphen, with
// whitespace runs collapsed to single hyphens, truncated, and finished
// with a random suffix for uniqueness.
func Derive(title string) (string, error) {
	base := normalize(title)

	suffix, err := gonanoid.Generate(suffixAlphabet, suffixLength)
	if err != nil {
		return "", err
	}

	if base == "" {
		return suffix, nil
	}
	return base + "-" + suffix, nil
}

// MustDerive is like Derive but panics on error. Random generation
// only fails when the system entropy source is broken.
func MustDerive(title string) string {
	s, err := Derive(title)
	if err != nil {
		panic(err)
	}
	return s
}

func normalize(title string) string {
	lower := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r':
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	base := strings.Join(fields, "-")
	base = strings.Trim(base, "-")

	if len(base) > MaxBaseLength {
		base = base[:MaxBaseLength]
		base = strings.TrimRight(base, "-")
	}
	return base
}

// Valid reports whether s looks like a slug this package produced:
// non-empty, lowercase alphanumerics and hyphens only.
func Valid(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}
