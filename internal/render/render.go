// Package render turns resolved resource definitions into per-language files
// using each language profile's template and helper set.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sync"
	"text/template"

	"github.com/mark3labs/apimeta/internal/definition"
	"github.com/mark3labs/apimeta/internal/examples"
	"github.com/mark3labs/apimeta/internal/lang"
	"github.com/mark3labs/apimeta/internal/partial"
)

// Context is the data every resource template executes against.
type Context struct {
	Resource *definition.Resource
	Language string
	BaseURL  string
}

// Output is one rendered file, not yet written.
type Output struct {
	Resource string
	Language string
	// RelPath is <language>/<filename>, slash-separated.
	RelPath string
	Content []byte
}

// Settings configures a Renderer.
type Settings struct {
	Examples  *examples.Collection
	Partials  fs.FS
	Templates fs.FS
	BaseURL   string
	Logger    *slog.Logger
}

// Option mutates Settings.
type Option func(*Settings)

// WithExamples sets the shared example collection.
func WithExamples(c *examples.Collection) Option { return func(s *Settings) { s.Examples = c } }

// WithPartials sets the partials root used by profiles that support partials.
func WithPartials(fsys fs.FS) Option { return func(s *Settings) { s.Partials = fsys } }

// WithTemplates sets a root whose <language>/<template> files replace the
// built-in templates.
func WithTemplates(fsys fs.FS) Option { return func(s *Settings) { s.Templates = fsys } }

func WithBaseURL(u string) Option { return func(s *Settings) { s.BaseURL = u } }

func WithLogger(l *slog.Logger) Option { return func(s *Settings) { s.Logger = l } }

// Renderer renders resources from one Store with the profiles of one
// Registry. It is safe for concurrent use.
type Renderer struct {
	store    *definition.Store
	registry *lang.Registry
	settings Settings

	mu   sync.Mutex
	libs map[string]*partial.Library
}

// New returns a Renderer over store and registry.
func New(store *definition.Store, registry *lang.Registry, opts ...Option) (*Renderer, error) {
	if store == nil {
		return nil, errors.New("render: nil definition store")
	}
	if registry == nil {
		return nil, errors.New("render: nil language registry")
	}
	var s Settings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.Logger == nil {
		s.Logger = slog.New(slog.DiscardHandler)
	}
	return &Renderer{store: store, registry: registry, settings: s, libs: map[string]*partial.Library{}}, nil
}

// Render loads resource and renders it for language. Nothing is written.
func (r *Renderer) Render(ctx context.Context, resource, language string) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := r.registry.ForLanguage(language)
	if err != nil {
		return nil, err
	}
	res, err := r.store.Load(resource)
	if err != nil {
		return nil, err
	}
	return r.renderResource(res, p)
}

func (r *Renderer) renderResource(res *definition.Resource, p lang.Profile) (*Output, error) {
	d := p.Descriptor()
	src, tmplPath, err := r.templateSource(p, d)
	if err != nil {
		return nil, &RenderError{Resource: res.Name, Language: p.ID(), Template: tmplPath, Err: err}
	}

	env := lang.Env{Examples: r.settings.Examples, BaseURL: r.settings.BaseURL}
	funcs := lang.FuncMap(p, env)
	if _, ok := p.(lang.PartialProvider); ok && lang.Has(p, lang.CapPartials) {
		resolver := r.library(p, funcs).Resolver()
		for name, fn := range resolver.Funcs() {
			funcs[name] = fn
		}
	}

	t, err := template.New(path.Base(tmplPath)).Funcs(funcs).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return nil, &RenderError{Resource: res.Name, Language: p.ID(), Template: tmplPath, Err: err}
	}
	var buf bytes.Buffer
	data := Context{Resource: res, Language: p.ID(), BaseURL: r.baseURL(p)}
	if err := t.Execute(&buf, data); err != nil {
		return nil, &RenderError{Resource: res.Name, Language: p.ID(), Template: tmplPath, Err: err}
	}

	name := d.Filename(res, p)
	return &Output{
		Resource: res.Name,
		Language: p.ID(),
		RelPath:  path.Join(p.ID(), name),
		Content:  buf.Bytes(),
	}, nil
}

// templateSource returns the template text for p, preferring an override
// at <templates>/<language>/<base name>.
func (r *Renderer) templateSource(p lang.Profile, d lang.Descriptor) ([]byte, string, error) {
	if r.settings.Templates != nil {
		override := path.Join(p.ID(), path.Base(d.Template))
		src, err := fs.ReadFile(r.settings.Templates, override)
		if err == nil {
			return src, override, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, override, err
		}
	}
	src, err := fs.ReadFile(d.FS, d.Template)
	if err != nil {
		return nil, d.Template, fmt.Errorf("read template: %w", err)
	}
	return src, d.Template, nil
}

func (r *Renderer) library(p lang.Profile, funcs template.FuncMap) *partial.Library {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lib, ok := r.libs[p.ID()]; ok {
		return lib
	}
	ext := p.(lang.PartialProvider).PartialExtension()
	lib := partial.NewLibrary(r.settings.Partials, ext, funcs)
	r.libs[p.ID()] = lib
	return lib
}

func (r *Renderer) baseURL(p lang.Profile) string {
	if r.settings.BaseURL != "" {
		return r.settings.BaseURL
	}
	if d, ok := p.(lang.DocHelper); ok {
		return d.CurlBaseURL()
	}
	return ""
}
