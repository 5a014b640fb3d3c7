package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var idCharsRegex = regexp.MustCompile(`[^a-z0-9]`)

// GeneratePluginID derives a human-readable identifier from a plugin name
// and author: both are lowercased and reduced to hyphenated tokens, then a
// base-36 millisecond timestamp and a random suffix are appended. The
// random suffix keeps concurrent calls within the same millisecond from
// colliding.
func GeneratePluginID(name, author string) string {
	cleanName := slugify(name)
	cleanAuthor := slugify(author)
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s-%s-%s", cleanAuthor, cleanName, timestamp, suffix)
}

func slugify(s string) string {
	return idCharsRegex.ReplaceAllString(strings.ToLower(s), "-")
}
