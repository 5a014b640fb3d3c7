package marketplace

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Storage stores plugin artifacts: package archives and canonical manifest
// documents. Implementations return stable URLs suitable for download links.
type Storage interface {
	// StoreArchive stores a plugin archive and returns its download URL.
	StoreArchive(ctx context.Context, pluginID, version string, data []byte) (string, error)

	// GetArchive retrieves a plugin archive.
	GetArchive(ctx context.Context, pluginID, version string) ([]byte, error)

	// StoreManifest stores a canonical manifest document and returns its URL.
	StoreManifest(ctx context.Context, pluginID, version string, data []byte) (string, error)

	// GetManifest retrieves a canonical manifest document.
	GetManifest(ctx context.Context, pluginID, version string) ([]byte, error)
}

// Checksum returns the hex-encoded SHA-256 digest of artifact bytes.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FileSystemStorage implements Storage on the local filesystem, laid out as
// <root>/<pluginID>/<version>/{plugin.tgz,manifest.json}.
type FileSystemStorage struct {
	root    string
	baseURL string
}

// NewFileSystemStorage creates a filesystem-backed storage rooted at root.
func NewFileSystemStorage(root, baseURL string) (*FileSystemStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &FileSystemStorage{root: root, baseURL: baseURL}, nil
}

const (
	archiveFile  = "plugin.tgz"
	manifestFile = "manifest.json"
)

func (s *FileSystemStorage) StoreArchive(ctx context.Context, pluginID, version string, data []byte) (string, error) {
	if err := s.write(pluginID, version, archiveFile, data); err != nil {
		return "", err
	}
	return s.url(pluginID, version, archiveFile), nil
}

func (s *FileSystemStorage) GetArchive(ctx context.Context, pluginID, version string) ([]byte, error) {
	return s.read(pluginID, version, archiveFile)
}

func (s *FileSystemStorage) StoreManifest(ctx context.Context, pluginID, version string, data []byte) (string, error) {
	if err := s.write(pluginID, version, manifestFile, data); err != nil {
		return "", err
	}
	return s.url(pluginID, version, manifestFile), nil
}

func (s *FileSystemStorage) GetManifest(ctx context.Context, pluginID, version string) ([]byte, error) {
	return s.read(pluginID, version, manifestFile)
}

func (s *FileSystemStorage) write(pluginID, version, name string, data []byte) error {
	dir := filepath.Join(s.root, pluginID, version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (s *FileSystemStorage) read(pluginID, version, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, pluginID, version, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

func (s *FileSystemStorage) url(pluginID, version, name string) string {
	return fmt.Sprintf("%s/%s/%s/%s", s.baseURL, pluginID, version, name)
}
