package validation

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var pluginIDRegex = regexp.MustCompile(`^[a-z0-9-]+-[0-9a-z]+-[0-9a-f]{8}$`)

func TestGeneratePluginID_Format(t *testing.T) {
	id := GeneratePluginID("My Plugin!", "Jane Doe")

	assert.True(t, strings.HasPrefix(id, "jane-doe-my-plugin--"), id)
	assert.True(t, pluginIDRegex.MatchString(id), id)
}

func TestGeneratePluginID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GeneratePluginID("weather", "jane")
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
