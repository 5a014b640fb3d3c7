package validation

import (
	"bytes"
	"fmt"
)

// MaxArchiveSize is the upper bound on accepted plugin package payloads.
// It bounds memory use in the surrounding upload pipeline.
const MaxArchiveSize = 50 * 1024 * 1024

// gzipMagic is the fixed header of a gzip member with deflate compression,
// the framing every .tgz plugin package starts with.
var gzipMagic = []byte{0x1f, 0x8b, 0x08}

// ValidateArchive performs boundary-only checks on uploaded package bytes:
// non-empty, within the size ceiling, and gzip-framed. Archive contents are
// never parsed here.
func ValidateArchive(data []byte) Result {
	if len(data) == 0 {
		return invalidResult([]string{"Plugin file is empty"}, nil)
	}

	if len(data) > MaxArchiveSize {
		mb := float64(len(data)) / 1024 / 1024
		return invalidResult([]string{fmt.Sprintf("Plugin file too large: %.2fMB (max: 50MB)", mb)}, nil)
	}

	if len(data) < len(gzipMagic) || !bytes.Equal(data[:len(gzipMagic)], gzipMagic) {
		return invalidResult([]string{"Plugin file must be a valid .tgz (tar.gz) archive"}, nil)
	}

	return Result{Valid: true, Errors: []string{}, Warnings: []string{}}
}
