package marketplace

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/manifoldhq/manifold/pkg/httputil"
	"github.com/manifoldhq/manifold/pkg/runtime"
	"github.com/manifoldhq/manifold/pkg/validation"
)

// Handlers provides HTTP handlers for the marketplace API
type Handlers struct {
	service *Service
}

// NewHandlers creates new marketplace handlers
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers all marketplace routes
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	// Plugin discovery
	h.handle(r, "GET", "/api/v1/plugins", h.ListPlugins)
	h.handle(r, "GET", "/api/v1/plugins/{id}", h.GetPlugin)
	h.handle(r, "GET", "/api/v1/plugins/{id}/versions", h.ListVersions)
	h.handle(r, "GET", "/api/v1/plugins/{id}/versions/{version}/manifest", h.GetManifest)
	h.handle(r, "GET", "/api/v1/plugins/{id}/versions/{version}/download", h.Download)

	// Plugin submission and dry-run validation
	h.handle(r, "POST", "/api/v1/plugins", h.Submit)
	h.handle(r, "POST", "/api/v1/validate/manifest", h.ValidateManifest)
	h.handle(r, "POST", "/api/v1/validate/permissions", h.ValidatePermissions)

	// Runtime capability reporting
	h.handle(r, "GET", "/api/v1/runtime", h.RuntimeCapabilities)
}

// handle registers a route, instrumented with request metrics under the
// route template so URL parameters do not blow up label cardinality.
func (h *Handlers) handle(r *mux.Router, method, path string, fn http.HandlerFunc) {
	var handler http.Handler = fn
	if m := h.service.metrics; m != nil {
		handler = m.InstrumentHandler(path, handler)
	}
	r.Handle(path, handler).Methods(method)
}

// ListPlugins handles GET /api/v1/plugins
func (h *Handlers) ListPlugins(w http.ResponseWriter, r *http.Request) {
	req := &ListRequest{
		Category:  r.URL.Query().Get("category"),
		Tag:       r.URL.Query().Get("tag"),
		Search:    r.URL.Query().Get("q"),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		req.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		req.Offset = offset
	}

	resp, err := h.service.ListPlugins(r.Context(), req)
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteSuccess(w, resp)
}

// GetPlugin handles GET /api/v1/plugins/{id}
func (h *Handlers) GetPlugin(w http.ResponseWriter, r *http.Request) {
	plugin, err := h.service.GetPlugin(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteSuccess(w, plugin)
}

// ListVersions handles GET /api/v1/plugins/{id}/versions
func (h *Handlers) ListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.service.ListVersions(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteSuccess(w, versions)
}

// GetManifest handles GET /api/v1/plugins/{id}/versions/{version}/manifest
func (h *Handlers) GetManifest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	m, err := h.service.GetManifest(r.Context(), vars["id"], vars["version"])
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteSuccess(w, m)
}

// Download handles GET /api/v1/plugins/{id}/versions/{version}/download
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	data, err := h.service.Download(r.Context(), vars["id"], vars["version"])
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/gzip")
	w.Header().Set("Content-Disposition", `attachment; filename="plugin.tgz"`)
	w.Write(data)
}

// Submit handles POST /api/v1/plugins
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	result, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		httputil.WriteAppError(w, err)
		return
	}
	httputil.WriteCreated(w, result)
}

// ValidateManifest handles POST /api/v1/validate/manifest. It runs the
// validation gate without persisting anything so authors can check a
// manifest before submitting.
func (h *Handlers) ValidateManifest(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if !httputil.ParseJSONOrError(w, r, &raw) {
		return
	}

	res := validation.ValidateManifest(raw)
	// The result itself reports validity; the HTTP exchange succeeded.
	httputil.WriteSuccess(w, res)
}

// ValidatePermissions handles POST /api/v1/validate/permissions.
func (h *Handlers) ValidatePermissions(w http.ResponseWriter, r *http.Request) {
	var values []any
	if !httputil.ParseJSONOrError(w, r, &values) {
		return
	}
	httputil.WriteSuccess(w, validation.ValidatePermissions(values))
}

// RuntimeCapabilities handles GET /api/v1/runtime
func (h *Handlers) RuntimeCapabilities(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, runtime.Current())
}
