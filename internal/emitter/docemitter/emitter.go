package docemitter

import (
	"embed"

	"github.com/mark3labs/apimeta/internal/definition"
	"github.com/mark3labs/apimeta/internal/examples"
	"github.com/mark3labs/apimeta/internal/lang"
)

const ID = "docs"

// PartialExtension is appended to partial paths.
const PartialExtension = ".md.tmpl"

//go:embed templates/*.tmpl
var templates embed.FS

// Profile renders Markdown reference pages with curl examples. It has no
// Commenter: pages are prose, not source.
type Profile struct {
	lang.Base
	lang.DocText
}

func New() *Profile {
	return &Profile{
		Base:    lang.NewBase(ID, ".md", nil, lang.CapDocs, lang.CapPartials),
		DocText: lang.DocText{BaseURL: examples.DefaultBaseURL},
	}
}

func (p *Profile) Descriptor() lang.Descriptor {
	return lang.Descriptor{
		FS:       templates,
		Template: "templates/resource.md.tmpl",
		Filename: Filename,
	}
}

func (p *Profile) PartialExtension() string { return PartialExtension }

// Filename returns dash(name) + ".md".
func Filename(r *definition.Resource, p lang.Profile) string {
	return p.Dash(r.Name) + p.Extension()
}
