package core

import (
	"fmt"
	"regexp"
	"strings"
)

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

const (
	slugMaxLen   = 50
	slugFallback = "article"
)

// NormalizeSlug lowercases the input and collapses runs of non-alphanumeric
// characters into single dashes.
func NormalizeSlug(slug string) string {

	slug = strings.ToLower(strings.TrimSpace(slug))
	slug = slugRegex.ReplaceAllString(slug, `-`)

	slug = strings.TrimPrefix(slug, "-")
	for len(slug) > 0 && slug[len(slug)-1] == '-' {
		slug = slug[:len(slug)-1]
	}

	return slug
}

// GenerateSlug derives a slug from the title, unique among the articles of the
// given owner. The slug of the article excludeID does not count as taken, so
// an article can keep its slug on save.
//
// Two owners can end up with the identical slug, uniqueness is per owner.
// The existence check races with concurrent writers; the UNIQUE(userId, slug)
// constraint is the final authority and the losing write fails.
func (c *CoreDB) GenerateSlug(userID int, title string, excludeID int) (string, error) {

	var base = NormalizeSlug(title)
	if len(base) > slugMaxLen {
		base = base[:slugMaxLen] // safe, normalized slugs are ASCII
	}
	if base == "" {
		base = slugFallback
	}

	var slug = base
	for counter := 1; ; counter++ {
		exists, err := c.SlugExists(userID, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
