package crawl

import (
	"net/url"
	"path"
	"strings"
)

// assetExtensions mark links to files that are not wiki pages.
var assetExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true, ".webp": true, ".ico": true,
	".css": true, ".js": true, ".mjs": true, ".json": true, ".xml": true,
	".woff": true, ".woff2": true, ".ttf": true,
	".mp4": true, ".webm": true, ".mp3": true,
	".zip": true, ".gz": true, ".tar": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true, ".pptx": true,
}

// assetPaths are path fragments under which wikis serve attachments and
// page exports rather than pages.
var assetPaths = []string{"/download/attachments/", "/download/thumbnails/", "/exportword", "/spaces/flyingpdf/"}

// Scope limits a crawl to one host and one path prefix.
type Scope struct {
	Host   string
	Prefix string
}

// NewScope derives the scope of a crawl from its start URL. The prefix is
// the start page's directory: /wiki/spaces/ENG/overview → /wiki/spaces/ENG/.
func NewScope(start *url.URL) Scope {
	prefix := start.Path
	if !strings.HasSuffix(prefix, "/") {
		prefix = path.Dir(prefix)
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
	}
	return Scope{Host: start.Host, Prefix: prefix}
}

// Contains reports whether rawURL is on the scope's host under its prefix.
func (s Scope) Contains(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if parsed.Host != s.Host {
		return false
	}
	p := parsed.Path
	if p == "" {
		p = "/"
	}
	return strings.HasPrefix(p, s.Prefix) || p+"/" == s.Prefix
}

// IsStaticAsset reports whether a URL points at an attachment or a file
// type that is never a page.
func IsStaticAsset(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	lower := strings.ToLower(parsed.Path)
	for _, p := range assetPaths {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return assetExtensions[path.Ext(lower)]
}

// NormalizeURL drops the fragment and any trailing slash so the same page
// is only queued once.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment, u.RawFragment = "", ""
	if trimmed := strings.TrimRight(u.Path, "/"); trimmed != "" {
		u.Path, u.RawPath = trimmed, ""
	}
	return u.String()
}
