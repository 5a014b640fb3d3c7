// Package permissions defines the canonical permission vocabulary for the
// Manifold plugin marketplace and the normalizer that reconciles legacy
// permission encodings onto it.
//
// # Vocabulary
//
// Twelve canonical identifiers cover all access a plugin may request
// (network, storage, filesystem, notifications, clipboard, geolocation,
// camera, microphone, calendar, contacts). No other permission value is ever
// persisted or passed downstream.
//
// # Legacy Encodings
//
// Historical manifest generations encoded permissions two ways:
//
// Dotted strings: "storage.read", "network.request", "camera.access"
// Typed objects:  {"type": "storage"}, {"type": "location"}
//
// The normalizer maps both styles through a fixed lookup table. Unknown
// tokens are never an error: they are reported as warnings and excluded,
// because adaptation is best-effort while validation is authoritative.
//
// # Related Packages
//
//   - pkg/manifest: uses the normalizer during manifest adaptation
//   - pkg/validation: cross-checks normalized output against the vocabulary
package permissions
