package manifest

import (
	"fmt"
	"regexp"

	"github.com/manifoldhq/manifold/pkg/permissions"
)

// semverRegex is the canonical version pattern: three dot-separated
// non-negative integers, no pre-release or build metadata, no "v" prefix.
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Issue is a single field-level schema violation.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// IssueStrings renders issues as field-qualified message strings.
func IssueStrings(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.String()
	}
	return out
}

// ValidateCanonical checks a manifest candidate against the canonical
// schema and returns every violation found. A nil return means the
// candidate satisfies all canonical invariants. This is the single source
// of truth for manifest validity; the adapter and the validation gate both
// defer to it rather than re-implementing field checks.
func ValidateCanonical(m Manifest) []Issue {
	var issues []Issue

	if m.Name == "" {
		issues = append(issues, Issue{
			Field:   "name",
			Message: "Plugin name is required",
		})
	}

	if !semverRegex.MatchString(m.Version) {
		issues = append(issues, Issue{
			Field:   "version",
			Message: "Version must match MAJOR.MINOR.PATCH (e.g. '1.0.0')",
		})
	}

	if m.Description == "" {
		issues = append(issues, Issue{
			Field:   "description",
			Message: "Description is required",
		})
	}

	switch m.Author.Kind {
	case AuthorNameOnly, AuthorDetailed:
		if m.Author.Name == "" {
			issues = append(issues, Issue{
				Field:   "author",
				Message: "Author name must not be empty",
			})
		}
	default:
		issues = append(issues, Issue{
			Field:   "author",
			Message: "Author must be a name string or a record with a name",
		})
	}

	if m.EntryPoint == "" {
		issues = append(issues, Issue{
			Field:   "entryPoint",
			Message: "Entry point is required",
		})
	}

	for _, p := range m.Permissions {
		if !permissions.IsCanonical(p) {
			issues = append(issues, Issue{
				Field:   "permissions",
				Message: fmt.Sprintf("Unrecognized permission: %s", p),
			})
		}
	}

	return issues
}
