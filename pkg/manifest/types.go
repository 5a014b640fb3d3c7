package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/manifoldhq/manifold/pkg/permissions"
)

// AuthorKind discriminates the two accepted author shapes.
type AuthorKind string

const (
	// AuthorNameOnly is a bare display-name author ("Jane Doe").
	AuthorNameOnly AuthorKind = "name-only"
	// AuthorDetailed is a structured author record with optional contact info.
	AuthorDetailed AuthorKind = "detailed"
)

// Author is a tagged variant over the two author shapes legacy manifests
// carry. On the wire a name-only author is a JSON string and a detailed
// author is a JSON object, matching what third-party manifests publish.
type Author struct {
	Kind    AuthorKind `json:"-"`
	Name    string     `json:"name"`
	Email   string     `json:"email,omitempty"`
	Website string     `json:"website,omitempty"`
}

// NameOnlyAuthor builds a bare display-name author.
func NameOnlyAuthor(name string) Author {
	return Author{Kind: AuthorNameOnly, Name: name}
}

// DetailedAuthor builds a structured author record.
func DetailedAuthor(name, email, website string) Author {
	return Author{Kind: AuthorDetailed, Name: name, Email: email, Website: website}
}

// MarshalJSON emits a string for name-only authors and an object for
// detailed authors.
func (a Author) MarshalJSON() ([]byte, error) {
	if a.Kind == AuthorNameOnly {
		return json.Marshal(a.Name)
	}
	type detailed Author
	return json.Marshal(detailed(a))
}

// UnmarshalJSON accepts either a string or an object and tags the result.
func (a *Author) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*a = NameOnlyAuthor(name)
		return nil
	}

	type detailed Author
	var d detailed
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("author must be a string or an object: %w", err)
	}
	d.Kind = AuthorDetailed
	*a = Author(d)
	return nil
}

// Manifest is the canonical plugin manifest every downstream consumer
// (storage, security review, runtime loading, marketplace listing) works
// with. Once ValidateCanonical accepts a value, all invariants hold:
// required text fields are non-empty, the version is a strict
// MAJOR.MINOR.PATCH semantic version, and permissions contains only
// canonical vocabulary members.
type Manifest struct {
	ID           string                   `json:"id,omitempty"`
	Name         string                   `json:"name"`
	Version      string                   `json:"version"`
	Description  string                   `json:"description"`
	Author       Author                   `json:"author"`
	License      string                   `json:"license,omitempty"`
	EntryPoint   string                   `json:"entryPoint"`
	Dependencies map[string]string        `json:"dependencies,omitempty"`
	Hooks        []string                 `json:"hooks"`
	Permissions  []permissions.Permission `json:"permissions"`
	ConfigSchema any                      `json:"configSchema,omitempty"`
	Categories   []string                 `json:"categories"`
	Tags         []string                 `json:"tags"`
}
