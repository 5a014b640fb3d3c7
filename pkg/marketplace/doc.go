// Package marketplace provides plugin submission, discovery and
// distribution backed by Postgres and artifact storage.
//
// # Overview
//
// Every submission passes through the validation gate before anything is
// persisted: free-text fields are sanitized, the package archive is
// boundary-checked, and the manifest is adapted and validated against the
// canonical schema. Only canonical manifests reach storage, so every
// downstream reader can rely on the canonical invariants.
//
// The same gate runs again at load time (GetManifest), guarding against
// records written by older service generations.
//
// # Usage Example
//
// Submit a plugin:
//
//	result, err := service.Submit(ctx, &marketplace.SubmitRequest{
//		Manifest: rawManifest,
//		Archive:  archiveBytes,
//	})
//	// result.Warnings carries advisory diagnostics; blocking problems
//	// surface as an apperrors.Error with code plugin.validation.
//
// # Related Packages
//
//   - pkg/validation: the acceptance gate
//   - pkg/manifest: canonical manifest shape
package marketplace
