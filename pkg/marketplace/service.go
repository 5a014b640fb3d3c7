package marketplace

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/manifoldhq/manifold/pkg/apperrors"
	"github.com/manifoldhq/manifold/pkg/manifest"
	"github.com/manifoldhq/manifold/pkg/observability"
	"github.com/manifoldhq/manifold/pkg/validation"
)

// manifestCacheSize bounds the in-process canonical manifest cache.
const manifestCacheSize = 512

// Schema is the marketplace database schema.
const Schema = `
CREATE TABLE IF NOT EXISTS plugins (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	description    TEXT NOT NULL,
	author         TEXT NOT NULL,
	license        TEXT NOT NULL DEFAULT '',
	latest_version TEXT NOT NULL,
	categories     TEXT[] NOT NULL DEFAULT '{}',
	tags           TEXT[] NOT NULL DEFAULT '{}',
	downloads      BIGINT NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS plugin_versions (
	id           BIGSERIAL PRIMARY KEY,
	plugin_id    TEXT NOT NULL REFERENCES plugins(id),
	version      TEXT NOT NULL,
	manifest_url TEXT NOT NULL,
	archive_url  TEXT NOT NULL,
	checksum     TEXT NOT NULL,
	size_bytes   BIGINT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (plugin_id, version)
);
`

// Service provides marketplace operations. Every submission passes through
// the validation gate before persistence; every manifest read passes
// through it again before being handed to a loader.
type Service struct {
	db      *sql.DB
	storage Storage
	logger  *logrus.Logger
	metrics *observability.Metrics
	cache   *lru.Cache[string, *manifest.Manifest]
}

// NewService creates a new marketplace service.
func NewService(db *sql.DB, storage Storage, logger *logrus.Logger, metrics *observability.Metrics) (*Service, error) {
	cache, err := lru.New[string, *manifest.Manifest](manifestCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create manifest cache: %w", err)
	}

	return &Service{
		db:      db,
		storage: storage,
		logger:  logger,
		metrics: metrics,
		cache:   cache,
	}, nil
}

// InitSchema creates the marketplace tables if they do not exist.
func (s *Service) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to initialize marketplace schema: %w", err)
	}
	return nil
}

// Submit validates and persists a plugin submission. Blocking problems
// (schema violations, bad archives) come back as plugin.validation errors;
// advisory warnings ride along on the result.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error) {
	if req == nil || req.Manifest == nil {
		return nil, apperrors.NewPluginValidation("submission carries no manifest", nil)
	}
	if err := s.requireDB(); err != nil {
		return nil, err
	}

	sanitized := validation.SanitizeManifestData(req.Manifest)

	if archiveRes := validation.ValidateArchive(req.Archive); !archiveRes.Valid {
		s.observeArchiveRejection(archiveRes)
		s.observeSubmission("archive_rejected")
		return nil, apperrors.NewPluginValidation(strings.Join(archiveRes.Errors, "; "), nil)
	}
	if s.metrics != nil {
		s.metrics.ArchiveSizeBytes.Observe(float64(len(req.Archive)))
	}

	res := validation.ValidateManifest(sanitized)
	if s.metrics != nil {
		s.metrics.ObserveValidation(res.Valid, len(res.Warnings))
	}
	if !res.Valid {
		s.observeSubmission("manifest_rejected")
		return nil, apperrors.NewPluginValidation(strings.Join(res.Errors, "; "), nil)
	}

	m := res.Manifest
	if m.ID == "" {
		m.ID = validation.GeneratePluginID(m.Name, m.Author.Name)
	}

	manifestJSON, err := json.Marshal(m)
	if err != nil {
		return nil, apperrors.NewInternal("failed to encode canonical manifest", err)
	}

	archiveURL, err := s.storage.StoreArchive(ctx, m.ID, m.Version, req.Archive)
	if err != nil {
		return nil, apperrors.NewInternal("failed to store plugin archive", err)
	}
	manifestURL, err := s.storage.StoreManifest(ctx, m.ID, m.Version, manifestJSON)
	if err != nil {
		return nil, apperrors.NewInternal("failed to store plugin manifest", err)
	}

	if err := s.persistSubmission(ctx, m, manifestURL, archiveURL, Checksum(req.Archive), int64(len(req.Archive))); err != nil {
		return nil, err
	}

	s.cache.Add(cacheKey(m.ID, m.Version), m)
	s.observeSubmission("accepted")

	s.logger.WithFields(logrus.Fields{
		"plugin_id": m.ID,
		"version":   m.Version,
		"warnings":  len(res.Warnings),
	}).Info("plugin submission accepted")

	return &SubmitResult{
		PluginID:         m.ID,
		Version:          m.Version,
		Manifest:         m,
		Warnings:         res.Warnings,
		RequiresApproval: len(m.Permissions) > 0,
	}, nil
}

func (s *Service) persistSubmission(ctx context.Context, m *manifest.Manifest, manifestURL, archiveURL, checksum string, sizeBytes int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO plugins (id, name, description, author, license, latest_version, categories, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			author = EXCLUDED.author,
			license = EXCLUDED.license,
			latest_version = EXCLUDED.latest_version,
			categories = EXCLUDED.categories,
			tags = EXCLUDED.tags,
			updated_at = now()
	`, m.ID, m.Name, m.Description, m.Author.Name, m.License, m.Version,
		pq.Array(m.Categories), pq.Array(m.Tags))
	if err != nil {
		return apperrors.NewInternal("failed to upsert plugin", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO plugin_versions (plugin_id, version, manifest_url, archive_url, checksum, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID, m.Version, manifestURL, archiveURL, checksum, sizeBytes)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflict(fmt.Sprintf("version %s of plugin %s already exists", m.Version, m.ID))
		}
		return apperrors.NewInternal("failed to insert plugin version", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternal("failed to commit submission", err)
	}
	return nil
}

// GetPlugin returns a single marketplace listing.
func (s *Service) GetPlugin(ctx context.Context, id string) (*Plugin, error) {
	if err := s.requireDB(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, author, license, latest_version,
		       categories, tags, downloads, created_at, updated_at
		FROM plugins WHERE id = $1
	`, id)

	var p Plugin
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Author, &p.License,
		&p.LatestVersion, pq.Array(&p.Categories), pq.Array(&p.Tags),
		&p.Downloads, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound(fmt.Sprintf("plugin %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternal("failed to query plugin", err)
	}
	return &p, nil
}

// GetManifest returns the canonical manifest of a stored plugin version,
// re-running the validation gate so records written by older service
// generations cannot smuggle a non-canonical manifest into a loader.
func (s *Service) GetManifest(ctx context.Context, pluginID, version string) (*manifest.Manifest, error) {
	key := cacheKey(pluginID, version)
	if m, ok := s.cache.Get(key); ok {
		if s.metrics != nil {
			s.metrics.CacheHitsTotal.Inc()
		}
		return m, nil
	}
	if s.metrics != nil {
		s.metrics.CacheMissesTotal.Inc()
	}

	data, err := s.storage.GetManifest(ctx, pluginID, version)
	if err != nil {
		return nil, apperrors.NewNotFound(fmt.Sprintf("manifest for %s@%s not found", pluginID, version))
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.NewPluginLoad("stored manifest is not valid JSON", err)
	}

	res := validation.ValidateManifest(raw)
	if !res.Valid {
		return nil, apperrors.NewPluginLoad(
			fmt.Sprintf("stored manifest for %s@%s failed validation: %s", pluginID, version, strings.Join(res.Errors, "; ")), nil)
	}

	s.cache.Add(key, res.Manifest)
	return res.Manifest, nil
}

// ListPlugins lists marketplace plugins with optional filters.
func (s *Service) ListPlugins(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	if err := s.requireDB(); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, description, author, license, latest_version,
		       categories, tags, downloads, created_at, updated_at
		FROM plugins WHERE 1=1
	`
	countQuery := `SELECT COUNT(*) FROM plugins WHERE 1=1`

	var conds []string
	var args []any

	if req.Category != "" {
		args = append(args, req.Category)
		conds = append(conds, fmt.Sprintf(" AND $%d = ANY(categories)", len(args)))
	}
	if req.Tag != "" {
		args = append(args, req.Tag)
		conds = append(conds, fmt.Sprintf(" AND $%d = ANY(tags)", len(args)))
	}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		conds = append(conds, fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	for _, c := range conds {
		query += c
		countQuery += c
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, apperrors.NewInternal("failed to count plugins", err)
	}
	if s.metrics != nil && len(conds) == 0 {
		s.metrics.PluginsTotal.Set(float64(total))
	}

	sortBy := "created_at"
	if req.SortBy == "downloads" {
		sortBy = "downloads"
	}
	sortOrder := "DESC"
	if strings.EqualFold(req.SortOrder, "asc") {
		sortOrder = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, sortOrder)

	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	args = append(args, req.Limit, req.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternal("failed to query plugins", err)
	}
	defer rows.Close()

	plugins := []Plugin{}
	for rows.Next() {
		var p Plugin
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Author, &p.License,
			&p.LatestVersion, pq.Array(&p.Categories), pq.Array(&p.Tags),
			&p.Downloads, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, apperrors.NewInternal("failed to scan plugin row", err)
		}
		plugins = append(plugins, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal("failed to iterate plugin rows", err)
	}

	return &ListResponse{
		Plugins: plugins,
		Total:   total,
		Limit:   req.Limit,
		Offset:  req.Offset,
	}, nil
}

// Download returns the archive bytes of a plugin version and records the
// download.
func (s *Service) Download(ctx context.Context, pluginID, version string) ([]byte, error) {
	data, err := s.storage.GetArchive(ctx, pluginID, version)
	if err != nil {
		return nil, apperrors.NewNotFound(fmt.Sprintf("archive for %s@%s not found", pluginID, version))
	}

	if s.db != nil {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE plugins SET downloads = downloads + 1 WHERE id = $1`, pluginID); err != nil {
			// The artifact was already served; losing one counter tick is
			// preferable to failing the download.
			s.logger.WithError(err).WithField("plugin_id", pluginID).Warn("failed to record download")
		}
	}
	if s.metrics != nil {
		s.metrics.PluginDownloadsTotal.Inc()
	}

	return data, nil
}

// ListVersions lists the stored versions of a plugin, newest first.
func (s *Service) ListVersions(ctx context.Context, pluginID string) ([]PluginVersion, error) {
	if err := s.requireDB(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, plugin_id, version, manifest_url, archive_url, checksum, size_bytes, created_at
		FROM plugin_versions WHERE plugin_id = $1 ORDER BY created_at DESC
	`, pluginID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to query plugin versions", err)
	}
	defer rows.Close()

	versions := []PluginVersion{}
	for rows.Next() {
		var v PluginVersion
		if err := rows.Scan(&v.ID, &v.PluginID, &v.Version, &v.ManifestURL,
			&v.ArchiveURL, &v.Checksum, &v.SizeBytes, &v.CreatedAt); err != nil {
			return nil, apperrors.NewInternal("failed to scan version row", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal("failed to iterate version rows", err)
	}
	return versions, nil
}

func (s *Service) observeSubmission(outcome string) {
	if s.metrics != nil {
		s.metrics.PluginSubmissionsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) observeArchiveRejection(res validation.Result) {
	if s.metrics == nil {
		return
	}
	reason := "format"
	if len(res.Errors) > 0 {
		switch {
		case strings.Contains(res.Errors[0], "empty"):
			reason = "empty"
		case strings.Contains(res.Errors[0], "too large"):
			reason = "oversize"
		}
	}
	s.metrics.ArchiveRejectionsTotal.WithLabelValues(reason).Inc()
}

// requireDB rejects persistence operations when the service runs in
// validation-only mode without a marketplace database.
func (s *Service) requireDB() error {
	if s.db == nil {
		return apperrors.NewUnavailable("marketplace database is not configured")
	}
	return nil
}

func cacheKey(pluginID, version string) string {
	return pluginID + "@" + version
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
