package pyemitter

import (
	"embed"

	"github.com/mark3labs/apimeta/internal/definition"
	"github.com/mark3labs/apimeta/internal/lang"
)

const ID = "python"

//go:embed templates/*.tmpl
var templates embed.FS

var types = map[string]string{
	"":         "object",
	"Id":       "str",
	"Enum":     "str",
	"String":   "str",
	"Boolean":  "bool",
	"Integer":  "int",
	"Number":   "float",
	"Date":     "str",
	"DateTime": "str",
	"Array":    "list",
}

// Profile renders one _<Resources> class per resource, consumed by the
// hand-written subclasses of the client package.
type Profile struct {
	lang.Base
	lang.LineComment
}

func New() *Profile {
	return &Profile{
		Base:        lang.NewBase(ID, ".py", types, lang.CapComment),
		LineComment: lang.LineComment{Prefix: "# "},
	}
}

func (p *Profile) Descriptor() lang.Descriptor {
	return lang.Descriptor{
		FS:       templates,
		Template: "templates/resource.py.tmpl",
		Filename: Filename,
	}
}

// Filename returns snake(plural(name)) + "_base.py".
func Filename(r *definition.Resource, p lang.Profile) string {
	return p.Snake(p.Plural(r.Name)) + "_base" + p.Extension()
}
