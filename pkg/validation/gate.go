package validation

import (
	"fmt"

	"github.com/manifoldhq/manifold/pkg/manifest"
	"github.com/manifoldhq/manifold/pkg/permissions"
)

// Result is the sole artifact the gate hands to downstream collaborators.
// Valid implies Manifest is present and satisfies the canonical schema;
// invalid implies Manifest is nil and Errors is non-empty. Warnings may be
// present either way.
type Result struct {
	Valid    bool               `json:"valid"`
	Errors   []string           `json:"errors"`
	Warnings []string           `json:"warnings"`
	Manifest *manifest.Manifest `json:"manifest,omitempty"`
}

func invalidResult(errs []string, warnings []string) Result {
	return Result{Valid: false, Errors: errs, Warnings: warnings}
}

// ValidateManifest runs the full adapter + schema pipeline over a raw
// manifest document and renders the authoritative decision. Panics anywhere
// in the pipeline are recovered and reported as a generic blocking error;
// the gate never lets a fault escape to its caller.
func ValidateManifest(raw map[string]any) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = invalidResult([]string{fmt.Sprintf("Validation error: %v", r)}, nil)
		}
	}()

	adapted, warnings := manifest.Adapt(raw)

	issues := manifest.ValidateCanonical(adapted)
	if len(issues) > 0 {
		return invalidResult(manifest.IssueStrings(issues), warnings)
	}

	// Advisory only; none of these flip the decision.
	if len(adapted.Categories) == 0 {
		warnings = append(warnings, "No categories provided - recommended for marketplace discovery")
	}
	if len(adapted.Tags) == 0 {
		warnings = append(warnings, "No tags provided - recommended for discoverability")
	}
	if n := len(adapted.Permissions); n > 0 {
		warnings = append(warnings, fmt.Sprintf("Plugin requests %d permissions - ensure users understand what access is needed", n))
	}

	return Result{
		Valid:    true,
		Errors:   []string{},
		Warnings: warnings,
		Manifest: &adapted,
	}
}

// PermissionCheck is the outcome of a standalone permission-list check.
type PermissionCheck struct {
	Valid      bool                     `json:"valid"`
	Errors     []string                 `json:"errors"`
	Normalized []permissions.Permission `json:"normalized"`
}

// ValidatePermissions normalizes a raw permission list and cross-checks the
// result against the canonical vocabulary. The cross-check should be
// unreachable while the normalizer's table is correct; it stays as a
// consistency guard.
func ValidatePermissions(values []any) PermissionCheck {
	if len(values) == 0 {
		return PermissionCheck{Valid: true, Errors: []string{}}
	}

	res := permissions.NormalizeValues(values)
	errs := append([]string{}, res.Warnings...)

	for _, p := range res.Permissions {
		if !permissions.IsCanonical(p) {
			errs = append(errs, fmt.Sprintf("Non-canonical permission: %s", p))
		}
	}

	return PermissionCheck{
		Valid:      len(errs) == 0,
		Errors:     errs,
		Normalized: res.Permissions,
	}
}
