package lang

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Base implements the language-independent part of Profile. Concrete profiles
// embed it and add their Descriptor and optional capabilities.
type Base struct {
	id    string
	ext   string
	types map[string]string
	caps  []Capability
}

// NewBase returns a Base for language id writing files with extension ext.
// types maps abstract type tags to the language's spelling.
func NewBase(id, ext string, types map[string]string, caps ...Capability) Base {
	t := make(map[string]string, len(types))
	for k, v := range types {
		t[k] = v
	}
	c := slices.Clone(caps)
	slices.Sort(c)
	return Base{id: id, ext: ext, types: t, caps: slices.Compact(c)}
}

func (b Base) ID() string        { return b.id }
func (b Base) Extension() string { return b.ext }

func (b Base) TypeName(abstract string) string {
	if v, ok := b.types[abstract]; ok {
		return v
	}
	return abstract
}

func (b Base) Capabilities() []Capability { return slices.Clone(b.caps) }

func (Base) Plural(s string) string   { return inflect.Pluralize(s) }
func (Base) Singular(s string) string { return inflect.Singularize(s) }

// Camel converts snake or dashed words to UpperCamelCase.
func (Base) Camel(s string) string      { return inflect.Camelize(s) }
func (Base) Capitalize(s string) string { return inflect.Capitalize(s) }

func (Base) Decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func (Base) Snake(s string) string { return inflect.Underscore(s) }
func (Base) Dash(s string) string  { return inflect.Dasherize(s) }
func (Base) Param(s string) string { return inflect.Parameterize(s) }
func (Base) Human(s string) string { return inflect.Humanize(s) }

// Title humanizes s and upper-cases the first letter of every word.
func (Base) Title(s string) string {
	// cases.Caser keeps state and is not safe for concurrent use.
	return cases.Title(language.English).String(inflect.Humanize(s))
}

// Classify is Title(Plural(s)) with the spaces removed: "user_task" becomes
// "UserTasks".
func (b Base) Classify(s string) string {
	return strings.ReplaceAll(b.Title(b.Plural(s)), " ", "")
}
