package goemitter

import (
	"embed"

	"github.com/mark3labs/apimeta/internal/definition"
	"github.com/mark3labs/apimeta/internal/lang"
)

// ID is the language id the Go profile registers under.
const ID = "go"

//go:embed templates/*.tmpl
var templates embed.FS

var types = map[string]string{
	"":         "any",
	"Id":       "string",
	"Enum":     "string",
	"String":   "string",
	"Boolean":  "bool",
	"Integer":  "int",
	"Number":   "float64",
	"Date":     "string",
	"DateTime": "string",
	"Object":   "map[string]any",
	"Array":    "[]any",
}

// Profile renders one <resource>_gen.go service file per resource.
type Profile struct {
	lang.Base
	lang.LineComment
}

func New() *Profile {
	return &Profile{
		Base:        lang.NewBase(ID, ".go", types, lang.CapComment),
		LineComment: lang.LineComment{Prefix: "// "},
	}
}

func (p *Profile) Descriptor() lang.Descriptor {
	return lang.Descriptor{
		FS:       templates,
		Template: "templates/resource.go.tmpl",
		Filename: Filename,
	}
}

// Filename returns snake(name) + "_gen.go".
func Filename(r *definition.Resource, p lang.Profile) string {
	return p.Snake(r.Name) + "_gen" + p.Extension()
}
