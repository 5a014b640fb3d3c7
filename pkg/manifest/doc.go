// Package manifest defines the canonical plugin manifest and the adapter
// that maps arbitrary legacy manifest documents onto it.
//
// # Overview
//
// Plugin manifests arrive from several format generations and third-party
// authors: different entry-point field names, two permission encodings,
// hooks as either lists or keyed objects, snake_case configuration keys.
// Adapt synthesizes a best-effort canonical candidate from any of these
// shapes without ever failing; ValidateCanonical is the single authoritative
// schema that decides whether the candidate is acceptable.
//
// The split matters: adaptation is best-effort and degrades to warnings,
// validation is authoritative and produces blocking field-level issues.
// Both upload-time and load-time callers go through the same pair, so the
// pipeline must stay pure and idempotent.
//
// # Related Packages
//
//   - pkg/permissions: canonical vocabulary and legacy token normalization
//   - pkg/validation: orchestrates adapter + schema into accept/reject results
package manifest
