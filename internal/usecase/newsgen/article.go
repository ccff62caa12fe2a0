package newsgen

import (
	"fmt"
	"regexp"
	"strings"

	"privatelives/internal/upstream"
)

// Source is a reference cited by a generated article.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Article is the result contract shared by every backend.
type Article struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Sources []Source `json:"sources"`
}

var (
	sourcesHeading = regexp.MustCompile(`(?i)^[#*\s]*(?:källor|sources)[*\s]*(?::[*\s]*(.*))?$`)
	markdownLink   = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)\s]+)\)`)
	bareURL        = regexp.MustCompile(`https?://[^\s)\]>"]+`)
	titlePrefix    = regexp.MustCompile(`(?i)^(titel|rubrik|title)\s*:\s*`)
)

// ParseArticle splits raw model output into title, body and, when withSources
// is set, the trailing "Källor:" block.
//
// The first non-empty line is the title with markdown heading, emphasis and
// quote characters stripped. Sources are deduplicated by URL in order of appearance.
func ParseArticle(raw string, withSources bool) (Article, error) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	var sourceLines []string
	if withSources {
		for i, line := range lines {
			m := sourcesHeading.FindStringSubmatch(strings.TrimSpace(line))
			if m == nil {
				continue
			}
			sourceLines = append([]string{m[1]}, lines[i+1:]...)
			lines = lines[:i]
			break
		}
	}

	first := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			first = i
			break
		}
	}
	if first < 0 {
		return Article{}, fmt.Errorf("parse article: %w", upstream.ErrEmpty)
	}

	title := cleanTitle(lines[first])
	content := strings.TrimSpace(strings.Join(lines[first+1:], "\n"))
	if title == "" || content == "" {
		return Article{}, fmt.Errorf("parse article: %w", upstream.ErrEmpty)
	}

	return Article{
		Title:   title,
		Content: content,
		Sources: parseSources(sourceLines),
	}, nil
}

func cleanTitle(line string) string {
	t := strings.TrimSpace(line)
	t = strings.TrimLeft(t, "#* ")
	t = titlePrefix.ReplaceAllString(t, "")
	t = strings.Trim(t, "*\"'“”„«» ")
	return strings.TrimSpace(t)
}

func parseSources(lines []string) []Source {
	sources := make([]Source, 0, len(lines))
	seen := make(map[string]bool)
	add := func(title, url string) {
		url = strings.TrimRight(url, ".,;")
		if seen[url] {
			return
		}
		seen[url] = true
		if title == "" {
			title = url
		}
		sources = append(sources, Source{Title: title, URL: url})
	}

	for _, line := range lines {
		links := markdownLink.FindAllStringSubmatch(line, -1)
		for _, m := range links {
			add(strings.TrimSpace(m[1]), m[2])
		}
		if len(links) > 0 {
			continue
		}
		for _, u := range bareURL.FindAllString(line, -1) {
			label := strings.TrimSpace(strings.Split(line, u)[0])
			label = strings.Trim(label, "-*•0123456789.): \t")
			add(label, u)
		}
	}
	return sources
}
