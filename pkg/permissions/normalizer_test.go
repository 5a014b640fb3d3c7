package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalizeStrings_KnownTokens verifies every legacy spelling in the
// mapping table resolves to exactly one canonical permission.
func TestNormalizeStrings_KnownTokens(t *testing.T) {
	tests := []struct {
		token string
		want  Permission
	}{
		{"storage.read", StorageRead},
		{"storage.write", StorageWrite},
		{"network.request", NetworkAccess},
		{"notifications.show", Notifications},
		{"clipboard.read", ClipboardRead},
		{"clipboard.write", ClipboardWrite},
		{"geolocation.read", Geolocation},
		{"camera.access", Camera},
		{"microphone.access", Microphone},
		{"storage", StorageRead},
		{"network", NetworkAccess},
		{"filesystem", FilesystemAccess},
		{"notifications", Notifications},
		{"calendar", Calendar},
		{"contacts", Contacts},
		{"location", Geolocation},
		{"camera", Camera},
		{"microphone", Microphone},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			res := NormalizeStrings([]string{tt.token})
			assert.Empty(t, res.Warnings)
			assert.Equal(t, []Permission{tt.want}, res.Permissions)
			assert.True(t, IsCanonical(tt.want))
		})
	}
}

func TestNormalizeStrings_UnknownToken(t *testing.T) {
	res := NormalizeStrings([]string{"launch-missiles"})

	assert.Empty(t, res.Permissions)
	assert.Equal(t, []string{"Unknown permission: launch-missiles"}, res.Warnings)
}

// TestNormalizeStrings_Deduplicates checks that a permission requested
// multiple ways collapses to a single entry.
func TestNormalizeStrings_Deduplicates(t *testing.T) {
	res := NormalizeStrings([]string{"network", "network.request", "network"})

	assert.Empty(t, res.Warnings)
	assert.Equal(t, []Permission{NetworkAccess}, res.Permissions)
}

// TestNormalizeStrings_VocabularyOrder checks output order follows the
// canonical vocabulary, not input order.
func TestNormalizeStrings_VocabularyOrder(t *testing.T) {
	res := NormalizeStrings([]string{"camera.access", "storage.read", "network"})

	assert.Equal(t, []Permission{NetworkAccess, StorageRead, Camera}, res.Permissions)
}

func TestNormalizeObjects(t *testing.T) {
	res := NormalizeObjects([]Object{
		{Type: "storage"},
		{Type: "location"},
		{Type: "telepathy"},
	})

	assert.Equal(t, []Permission{StorageRead, Geolocation}, res.Permissions)
	assert.Equal(t, []string{"Unknown permission type: telepathy"}, res.Warnings)
}

func TestNormalizeValues_MixedShapes(t *testing.T) {
	res := NormalizeValues([]any{
		"storage.read",
		map[string]any{"type": "network"},
		Object{Type: "camera"},
		42,
		map[string]any{"kind": "oops"},
	})

	assert.Equal(t, []Permission{NetworkAccess, StorageRead, Camera}, res.Permissions)
	assert.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], "Unknown permission entry")
}

func TestNormalizeValues_Empty(t *testing.T) {
	res := NormalizeValues(nil)

	assert.Empty(t, res.Permissions)
	assert.Empty(t, res.Warnings)
}

func TestAll_ReturnsCopy(t *testing.T) {
	first := All()
	first[0] = Permission("tampered")

	assert.Equal(t, NetworkAccess, All()[0])
	assert.Len(t, All(), 12)
}

func TestIsCanonical(t *testing.T) {
	assert.True(t, IsCanonical(Contacts))
	assert.False(t, IsCanonical(Permission("storage")))
	assert.False(t, IsCanonical(Permission("")))
}
