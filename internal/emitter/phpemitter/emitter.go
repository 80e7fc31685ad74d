package phpemitter

import (
	"embed"

	"github.com/mark3labs/apimeta/internal/definition"
	"github.com/mark3labs/apimeta/internal/lang"
)

const ID = "php"

//go:embed templates/*.tmpl
var templates embed.FS

var types = map[string]string{
	"":         "mixed",
	"Id":       "string",
	"Enum":     "string",
	"String":   "string",
	"Boolean":  "bool",
	"Integer":  "int",
	"Number":   "float",
	"Date":     "string",
	"DateTime": "string",
	"Array":    "array",
}

type Profile struct {
	lang.Base
	lang.BlockComment
}

func New() *Profile {
	return &Profile{Base: lang.NewBase(ID, ".php", types, lang.CapComment)}
}

func (p *Profile) Descriptor() lang.Descriptor {
	return lang.Descriptor{
		FS:       templates,
		Template: "templates/resource.php.tmpl",
		Filename: Filename,
	}
}

// Filename returns classify(name) + "Base.php".
func Filename(r *definition.Resource, p lang.Profile) string {
	return p.Classify(r.Name) + "Base" + p.Extension()
}
