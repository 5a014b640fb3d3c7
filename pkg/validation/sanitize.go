package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Denylist patterns for the injection vectors we strip from free text.
// This is best-effort hardening before storage; rendering layers are still
// expected to escape or sanitize on output.
var (
	scriptBlockRegex  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	iframeBlockRegex  = regexp.MustCompile(`(?is)<iframe[^>]*>.*?</iframe>`)
	jsURIRegex        = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerRegex = regexp.MustCompile(`(?i)on\w+\s*=`)
	htmlTagRegex      = regexp.MustCompile(`<[^>]*>`)
	tagCharsRegex     = regexp.MustCompile(`[^a-zA-Z0-9-_]`)
)

const (
	maxAuthorLength = 100
	maxTagCount     = 10
)

// SanitizeManifestData returns a shallow copy of a raw manifest document
// with its free-text fields neutralized: description stripped of script and
// iframe blocks, javascript: URI prefixes and inline event handlers; a
// string author stripped of HTML tags and truncated; tags reduced to
// alphanumeric/hyphen/underscore tokens and capped. Other fields pass
// through untouched.
func SanitizeManifestData(data map[string]any) map[string]any {
	sanitized := make(map[string]any, len(data))
	for k, v := range data {
		sanitized[k] = v
	}

	if description, ok := sanitized["description"].(string); ok {
		sanitized["description"] = SanitizeDescription(description)
	}

	if author, ok := sanitized["author"].(string); ok {
		sanitized["author"] = SanitizeAuthorName(author)
	}

	if tags, ok := sanitized["tags"].([]any); ok {
		sanitized["tags"] = sanitizeTags(tags)
	}

	return sanitized
}

// SanitizeDescription strips the denylisted injection patterns from a
// description string.
func SanitizeDescription(s string) string {
	s = scriptBlockRegex.ReplaceAllString(s, "")
	s = iframeBlockRegex.ReplaceAllString(s, "")
	s = jsURIRegex.ReplaceAllString(s, "")
	s = eventHandlerRegex.ReplaceAllString(s, "")
	return s
}

// SanitizeAuthorName strips all HTML tags from an author display name and
// truncates it to 100 characters. Truncation counts runes, not bytes, so a
// multi-byte name is never cut mid-rune.
func SanitizeAuthorName(s string) string {
	s = htmlTagRegex.ReplaceAllString(s, "")
	if utf8.RuneCountInString(s) > maxAuthorLength {
		s = string([]rune(s)[:maxAuthorLength])
	}
	return s
}

// SanitizeTag reduces a tag to its allowed character set.
func SanitizeTag(s string) string {
	return tagCharsRegex.ReplaceAllString(s, "")
}

func sanitizeTags(tags []any) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		s, ok := t.(string)
		if !ok {
			continue
		}
		clean := SanitizeTag(strings.TrimSpace(s))
		if clean == "" {
			continue
		}
		out = append(out, clean)
		if len(out) == maxTagCount {
			break
		}
	}
	return out
}
