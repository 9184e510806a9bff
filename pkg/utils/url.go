package utils

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidURL indicates the input could not be parsed as an http(s) URL.
var ErrInvalidURL = errors.New("invalid URL")

var (
	// urlPattern matches both bare URLs and markdown-style [label](url) links.
	// Group 1 captures the markdown target, group 2 the bare URL.
	urlPattern = regexp.MustCompile(`\[.*?\]\((https?://[^\s)]+)\)|(https?://[^\s,)\]}]+)`)

	// privateHostPattern matches loopback and RFC 1918 addresses that should
	// never be sent to the classifier.
	privateHostPattern = regexp.MustCompile(
		`^(localhost|127\.0\.0\.1|10\.\d{1,3}\.\d{1,3}\.\d{1,3}|172\.(1[6-9]|2\d|3[0-1])\.\d{1,3}\.\d{1,3}|192\.168\.\d{1,3}\.\d{1,3})$`)

	multiSlashPattern = regexp.MustCompile(`/{2,}`)
)

// NormalizeURL canonicalizes a URL for use as a verdict identity: the scheme
// and host are lowercased, duplicate slashes in the path are collapsed, a
// trailing slash is trimmed, and the fragment is dropped. The query string is
// preserved. Normalizing an already-normalized URL is a no-op.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidURL
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidURL
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = multiSlashPattern.ReplaceAllString(u.Path, "/")

	if len(u.Path) > 1 {
		u.Path = strings.TrimRight(u.Path, "/")
	}

	return u.String(), nil
}

// HostOf returns the host component of a URL, or an empty string if the URL
// cannot be parsed.
func HostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	return u.Host
}

// ExtractURLs returns all URLs found in a message, recognizing both bare URLs
// and markdown-style [label](url) links. The returned URLs are not normalized.
func ExtractURLs(content string) []string {
	matches := urlPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	urls := make([]string, 0, len(matches))

	for _, match := range matches {
		if match[1] != "" {
			urls = append(urls, match[1])
		} else if match[2] != "" {
			urls = append(urls, match[2])
		}
	}

	return urls
}

// IsScannableURL reports whether a URL is acceptable input for the classifier.
// Loopback and private-range hosts are rejected.
func IsScannableURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}

	return !privateHostPattern.MatchString(u.Hostname())
}
