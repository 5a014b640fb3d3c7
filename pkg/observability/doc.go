// Package observability provides structured logging, Prometheus metrics,
// and health probes for the Manifold service.
//
// Request-scoped logging flows through context: middleware attaches a
// request ID and logger, handlers retrieve them with FromContext. Metrics
// cover HTTP traffic plus the validation pipeline's business outcomes
// (accepted/rejected manifests, archive rejections).
package observability
