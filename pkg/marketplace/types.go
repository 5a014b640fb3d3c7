package marketplace

import (
	"time"

	"github.com/manifoldhq/manifold/pkg/manifest"
)

// Plugin is a marketplace listing row. The full canonical manifest lives in
// artifact storage; the listing carries the fields discovery queries need.
type Plugin struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	Author        string    `json:"author" db:"author"`
	License       string    `json:"license,omitempty" db:"license"`
	LatestVersion string    `json:"latest_version" db:"latest_version"`
	Categories    []string  `json:"categories" db:"categories"`
	Tags          []string  `json:"tags" db:"tags"`
	Downloads     int64     `json:"downloads" db:"downloads"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// PluginVersion records one stored version of a plugin.
type PluginVersion struct {
	ID          int64     `json:"id" db:"id"`
	PluginID    string    `json:"plugin_id" db:"plugin_id"`
	Version     string    `json:"version" db:"version"`
	ManifestURL string    `json:"manifest_url" db:"manifest_url"`
	ArchiveURL  string    `json:"archive_url" db:"archive_url"`
	Checksum    string    `json:"checksum" db:"checksum"`
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// SubmitRequest is a plugin submission: the raw manifest document as
// uploaded plus the package archive bytes (base64 on the wire).
type SubmitRequest struct {
	Manifest map[string]any `json:"manifest"`
	Archive  []byte         `json:"archive"`
}

// SubmitResult reports an accepted submission. Warnings are advisory
// diagnostics the author should see; RequiresApproval flags submissions
// that request permissions and therefore need a security review before
// listing publicly.
type SubmitResult struct {
	PluginID         string             `json:"plugin_id"`
	Version          string             `json:"version"`
	Manifest         *manifest.Manifest `json:"manifest"`
	Warnings         []string           `json:"warnings"`
	RequiresApproval bool               `json:"requires_approval"`
}

// ListRequest filters and pages a marketplace listing.
type ListRequest struct {
	Category  string `json:"category"`
	Tag       string `json:"tag"`
	Search    string `json:"search"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // downloads, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

// ListResponse is a page of marketplace listings.
type ListResponse struct {
	Plugins []Plugin `json:"plugins"`
	Total   int64    `json:"total"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}
