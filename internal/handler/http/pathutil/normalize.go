// Package pathutil normalizes request paths for metric labels and parses ids
// taken from query strings or bodies.
package pathutil

import "strings"

// Other is the label used for every path that is not a known route.
const Other = "other"

// knownRoutes are the only path labels metrics will carry. Anything else,
// including scanners probing random URLs, collapses into Other.
var knownRoutes = map[string]struct{}{
	"/api/news":                    {},
	"/api/subscribe":               {},
	"/api/news-generate":           {},
	"/api/image-generate":          {},
	"/api/web-search":              {},
	"/api/bosnian-beats-translate": {},
	"/api/bosnian-beats-speak":     {},
	"/api/balkan-beats-speak":      {},
	"/api/balkan-beats-live":       {},
	"/api/comfyui-loras":           {},
	"/health":                      {},
	"/live":                        {},
	"/metrics":                     {},
}

// NormalizePath returns the route label for path.
//
//	NormalizePath("/api/news?id=3")  // "/api/news"
//	NormalizePath("/api/news/")      // "/api/news"
//	NormalizePath("/wp-login.php")   // "other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	if _, ok := knownRoutes[path]; ok {
		return path
	}
	return Other
}

// ExpectedCardinality is the upper bound of distinct path labels.
func ExpectedCardinality() int {
	return len(knownRoutes) + 1
}
