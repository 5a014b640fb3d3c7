package validation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"script block", "<script>alert(1)</script>Hello", "Hello"},
		{"script block case-insensitive", "<SCRIPT src='x'>evil()</SCRIPT>safe", "safe"},
		{"iframe block", "before<iframe src='x'>inner</iframe>after", "beforeafter"},
		{"javascript uri", "click javascript:alert(1) here", "click alert(1) here"},
		{"inline event handler", `<img src=x onerror=alert(1)>`, `<img src=x alert(1)>`},
		{"clean text untouched", "A perfectly normal description.", "A perfectly normal description."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeDescription(tt.input))
		})
	}
}

func TestSanitizeAuthorName(t *testing.T) {
	assert.Equal(t, "Jane Doe", SanitizeAuthorName("<b>Jane</b> Doe"))

	long := strings.Repeat("a", 150)
	assert.Len(t, SanitizeAuthorName(long), 100)
}

func TestSanitizeAuthorName_MultiByteTruncation(t *testing.T) {
	long := strings.Repeat("é", 150)

	got := SanitizeAuthorName(long)

	assert.True(t, utf8.ValidString(got), "truncation must not split a rune")
	assert.Equal(t, 100, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("é", 100), got)

	short := "José"
	assert.Equal(t, short, SanitizeAuthorName(short))
}

func TestSanitizeManifestData_Tags(t *testing.T) {
	data := map[string]any{
		"tags": []any{"ok", "bad tag!", "", "xxxxx", 42},
	}

	sanitized := SanitizeManifestData(data)

	assert.Equal(t, []string{"ok", "badtag", "xxxxx"}, sanitized["tags"])
}

func TestSanitizeManifestData_TagCap(t *testing.T) {
	tags := make([]any, 15)
	for i := range tags {
		tags[i] = "tag-" + strings.Repeat("x", i+1)
	}

	sanitized := SanitizeManifestData(map[string]any{"tags": tags})

	assert.Len(t, sanitized["tags"], 10)
}

// TestSanitizeManifestData_ShallowCopy checks the input document is not
// mutated and unrelated fields pass through.
func TestSanitizeManifestData_ShallowCopy(t *testing.T) {
	data := map[string]any{
		"description": "<script>x</script>ok",
		"version":     "1.0.0",
	}

	sanitized := SanitizeManifestData(data)

	assert.Equal(t, "ok", sanitized["description"])
	assert.Equal(t, "1.0.0", sanitized["version"])
	assert.Equal(t, "<script>x</script>ok", data["description"])
}

func TestSanitizeManifestData_NonStringFieldsIgnored(t *testing.T) {
	data := map[string]any{
		"description": 42,
		"author":      map[string]any{"name": "Jane"},
	}

	sanitized := SanitizeManifestData(data)

	assert.Equal(t, 42, sanitized["description"])
	assert.Equal(t, map[string]any{"name": "Jane"}, sanitized["author"])
}
