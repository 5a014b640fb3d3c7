package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipPayload(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte{0x1f, 0x8b, 0x08})
	return data
}

func TestValidateArchive_Empty(t *testing.T) {
	res := ValidateArchive(nil)

	assert.False(t, res.Valid)
	assert.Equal(t, []string{"Plugin file is empty"}, res.Errors)
}

func TestValidateArchive_WrongMagic(t *testing.T) {
	res := ValidateArchive([]byte("PK\x03\x04 zip archive"))

	assert.False(t, res.Valid)
	assert.Equal(t, []string{"Plugin file must be a valid .tgz (tar.gz) archive"}, res.Errors)
}

func TestValidateArchive_TooShort(t *testing.T) {
	res := ValidateArchive([]byte{0x1f, 0x8b})

	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], ".tgz")
}

// TestValidateArchive_SizeBoundary checks exactly 50MB passes and one byte
// more fails with the size reported in MB to two decimals.
func TestValidateArchive_SizeBoundary(t *testing.T) {
	atLimit := ValidateArchive(gzipPayload(MaxArchiveSize))
	assert.True(t, atLimit.Valid)
	assert.Empty(t, atLimit.Errors)

	overLimit := ValidateArchive(gzipPayload(MaxArchiveSize + 1))
	require.False(t, overLimit.Valid)
	assert.Equal(t, []string{"Plugin file too large: 50.00MB (max: 50MB)"}, overLimit.Errors)
}

func TestValidateArchive_ValidGzip(t *testing.T) {
	res := ValidateArchive(gzipPayload(128))

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}
