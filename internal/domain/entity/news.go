// Package entity defines the domain objects stored by the service (news posts and
// newsletter subscribers) together with their validation and derivation rules.
package entity

import (
	"strings"
	"time"
	"unicode/utf8"
)

// NewsPost is an article shown in the site's news section.
type NewsPost struct {
	ID        int64
	Title     string
	Content   string
	ImageURL  string
	Slug      string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	maxTitleRunes = 300
	maxSlugRunes  = 80
)

// slugFold maps the diacritics used by the site's audiences (Bosnian, Croatian, Swedish)
// to ASCII. Anything else outside [a-z0-9] becomes a separator.
var slugFold = map[rune]string{
	'č': "c", 'ć': "c", 'š': "s", 'ž': "z", 'đ': "dj",
	'å': "a", 'ä': "a", 'ö': "o", 'é': "e", 'è': "e", 'ü': "u",
}

// Slugify derives the URL slug of a title.
//
// Example:
//
//	Slugify("Ljeto u Sarajevu: Šta ćemo raditi?") // "ljeto-u-sarajevu-sta-cemo-raditi"
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case slugFold[r] != "":
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteString(slugFold[r])
		default:
			pendingDash = true
		}
	}

	slug := b.String()
	if len(slug) > maxSlugRunes {
		slug = strings.TrimRight(slug[:maxSlugRunes], "-")
	}
	return slug
}

// ValidateNewsTitle checks a title and returns its derived slug.
func ValidateNewsTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &ValidationError{Field: "title", Message: "is required"}
	}
	if utf8.RuneCountInString(title) > maxTitleRunes {
		return "", &ValidationError{Field: "title", Message: "is too long"}
	}
	slug := Slugify(title)
	if slug == "" {
		return "", &ValidationError{Field: "title", Message: "must contain letters or digits"}
	}
	return slug, nil
}

// ValidateImageURL accepts an empty value, an http(s) URL or an inline data:image URI
// as produced by the image generator.
func ValidateImageURL(raw string) error {
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "data:image/") {
		return nil
	}
	if strings.HasPrefix(raw, "https://") || strings.HasPrefix(raw, "http://") {
		if len(raw) > 2048 {
			return &ValidationError{Field: "imageUrl", Message: "is too long"}
		}
		return nil
	}
	return &ValidationError{Field: "imageUrl", Message: "must be an http(s) or data:image URL"}
}
