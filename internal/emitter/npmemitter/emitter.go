package npmemitter

import (
	"embed"

	"github.com/mark3labs/apimeta/internal/definition"
	"github.com/mark3labs/apimeta/internal/lang"
)

const ID = "js"

//go:embed templates/*.tmpl
var templates embed.FS

// JavaScript has one numeric type, so ids are Numbers.
var types = map[string]string{
	"":         "Object",
	"Id":       "Number",
	"Enum":     "String",
	"String":   "String",
	"Boolean":  "Boolean",
	"Integer":  "Number",
	"Number":   "Number",
	"Date":     "String",
	"DateTime": "String",
	"Array":    "Array",
}

// Profile renders one CommonJS resource base class per resource.
type Profile struct {
	lang.Base
	lang.BlockComment
}

func New() *Profile {
	return &Profile{Base: lang.NewBase(ID, ".js", types, lang.CapComment)}
}

func (p *Profile) Descriptor() lang.Descriptor {
	return lang.Descriptor{
		FS:       templates,
		Template: "templates/resource.js.tmpl",
		Filename: Filename,
	}
}

// Filename returns classify(name) + "Base.js".
func Filename(r *definition.Resource, p lang.Profile) string {
	return p.Classify(r.Name) + "Base" + p.Extension()
}
