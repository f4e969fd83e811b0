package objstore

import "strings"

// PublicURL joins the public base URL, an optional fixed path prefix and
// the storage key with single slashes.
func PublicURL(base, prefix, key string) string {
	parts := []string{strings.TrimRight(base, "/")}
	if p := strings.Trim(prefix, "/"); p != "" {
		parts = append(parts, p)
	}
	parts = append(parts, strings.TrimLeft(key, "/"))
	return strings.Join(parts, "/")
}

// KeyFromPublicURL is the inverse of PublicURL. It reports false when url
// does not live under base and prefix.
func KeyFromPublicURL(base, prefix, url string) (string, bool) {
	root := PublicURL(base, prefix, "")
	if !strings.HasPrefix(url, root) {
		return "", false
	}
	key := strings.TrimPrefix(url, root)
	if key == "" {
		return "", false
	}
	return key, true
}
