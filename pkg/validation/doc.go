// Package validation is the acceptance gate for plugin submissions.
//
// # Overview
//
// The gate orchestrates manifest adaptation and canonical schema validation
// into a single accept/reject decision, layering on advisory discoverability
// warnings, package archive boundary checks (size and gzip framing), and
// free-text sanitization against markup injection.
//
// # Error Taxonomy
//
// Blocking errors come only from the canonical schema and the archive
// checks. Adaptation ambiguity (unmapped permissions, missing entry point)
// and discoverability advisories are warnings and never prevent acceptance.
// Callers must treat Errors as blocking and Warnings as advisory.
//
// Every operation is pure and stateless; concurrent callers need no
// coordination. The same gate runs at upload time and at load time.
//
// # Related Packages
//
//   - pkg/manifest: adapter and canonical schema
//   - pkg/marketplace: runs the gate before persisting submissions
package validation
