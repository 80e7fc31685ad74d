// Package lang holds the per-language helper layer: the Profile contract every
// target language implements, the casing and comment helpers they share, and
// the registry the renderer looks profiles up in.
package lang

import (
	"io/fs"

	"github.com/mark3labs/apimeta/internal/definition"
	"github.com/mark3labs/apimeta/internal/examples"
)

// Capability names an optional helper surface a profile may implement.
type Capability string

const (
	// CapComment marks profiles implementing Commenter.
	CapComment Capability = "comment"
	// CapDocs marks profiles implementing DocHelper.
	CapDocs Capability = "docs"
	// CapPartials marks profiles implementing PartialProvider.
	CapPartials Capability = "partials"
)

// Casing is the string transform set shared by every profile.
type Casing interface {
	Plural(s string) string
	Singular(s string) string
	Camel(s string) string
	Capitalize(s string) string
	Decapitalize(s string) string
	Snake(s string) string
	Dash(s string) string
	Param(s string) string
	Human(s string) string
	Title(s string) string
	Classify(s string) string
}

// Profile is one target language.
type Profile interface {
	Casing
	ID() string
	Extension() string
	// TypeName translates an abstract type tag. Unmapped tags are returned
	// unchanged.
	TypeName(abstract string) string
	Capabilities() []Capability
	Descriptor() Descriptor
}

// Commenter wraps free text in the language's comment syntax.
type Commenter interface {
	Comment(text string, indent int) string
}

// DocHelper is implemented by documentation profiles.
type DocHelper interface {
	RemoveLineBreaks(s string) string
	StripWhitespace(s string) string
	// CurlBaseURL is the URL prefixed to example endpoints when the run does
	// not configure one.
	CurlBaseURL() string
}

// PartialProvider is implemented by profiles whose templates include
// partials.
type PartialProvider interface {
	// PartialExtension is appended to a partial's joined path segments.
	PartialExtension() string
}

// Descriptor is a language's template index.
type Descriptor struct {
	// FS holds the built-in templates.
	FS fs.FS
	// Template is the path of the resource template inside FS.
	Template string
	// Filename computes the output file name for a resource.
	Filename func(r *definition.Resource, p Profile) string
}

// Env carries per-run collaborators into the template FuncMap.
type Env struct {
	Examples *examples.Collection
	BaseURL  string
}

// Has reports whether p declares capability c.
func Has(p Profile, c Capability) bool {
	for _, have := range p.Capabilities() {
		if have == c {
			return true
		}
	}
	return false
}
