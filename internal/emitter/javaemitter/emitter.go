package javaemitter

import (
	"embed"

	"github.com/mark3labs/apimeta/internal/definition"
	"github.com/mark3labs/apimeta/internal/lang"
)

const ID = "java"

//go:embed templates/*.tmpl
var templates embed.FS

var types = map[string]string{
	"":         "Object",
	"Id":       "String",
	"Enum":     "String",
	"String":   "String",
	"Boolean":  "Boolean",
	"Integer":  "Integer",
	"Number":   "Double",
	"Date":     "String",
	"DateTime": "String",
	"Array":    "List<Object>",
}

type Profile struct {
	lang.Base
	lang.BlockComment
}

func New() *Profile {
	return &Profile{Base: lang.NewBase(ID, ".java", types, lang.CapComment)}
}

func (p *Profile) Descriptor() lang.Descriptor {
	return lang.Descriptor{
		FS:       templates,
		Template: "templates/resource.java.tmpl",
		Filename: Filename,
	}
}

// Filename returns plural(classify(name)) + "Base.java".
func Filename(r *definition.Resource, p lang.Profile) string {
	return p.Plural(p.Classify(r.Name)) + "Base" + p.Extension()
}
