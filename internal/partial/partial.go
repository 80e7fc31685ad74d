// Package partial resolves the named sub-templates documentation templates
// compose pages from. A partial is addressed by path segments, e.g.
// partial "resources" "task" "intro" reads resources/task/intro.md.tmpl.
package partial

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"text/template"
)

// MaxDepth bounds partial nesting.
const MaxDepth = 32

// ErrTooDeep is returned when partials nest deeper than MaxDepth.
var ErrTooDeep = errors.New("partials nested too deeply")

// Library is the parsed-partial cache for one partials root. It is safe for
// concurrent use; hand each render its own Resolver.
type Library struct {
	fsys  fs.FS
	ext   string
	funcs template.FuncMap

	mu    sync.Mutex
	cache map[string]*template.Template
}

// NewLibrary returns a Library reading files with extension ext from fsys.
// funcs are available to every partial in addition to partial and
// partialExists. A nil fsys has no partials.
func NewLibrary(fsys fs.FS, ext string, funcs template.FuncMap) *Library {
	fm := template.FuncMap{}
	for k, v := range funcs {
		fm[k] = v
	}
	// Placeholders so partials parse; each Resolver rebinds them.
	fm["partial"] = func(...any) (string, error) { return "", nil }
	fm["partialExists"] = func(...any) bool { return false }
	return &Library{fsys: fsys, ext: ext, funcs: fm, cache: map[string]*template.Template{}}
}

// Resolver returns a fresh resolver with its own nesting counter.
func (l *Library) Resolver() *Resolver {
	return &Resolver{lib: l}
}

func (l *Library) lookup(rel string) (*template.Template, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t, ok := l.cache[rel]; ok {
		return t, nil
	}
	data, err := fs.ReadFile(l.fsys, rel)
	if err != nil {
		return nil, fmt.Errorf("read partial %s: %w", rel, err)
	}
	t, err := template.New(rel).Funcs(l.funcs).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse partial %s: %w", rel, err)
	}
	l.cache[rel] = t
	return t, nil
}

// Resolver renders partials for one template execution. It is not safe for
// concurrent use.
type Resolver struct {
	lib   *Library
	depth int
}

// Funcs returns the partial and partialExists template helpers bound to r.
func (r *Resolver) Funcs() template.FuncMap {
	return template.FuncMap{
		"partial":       r.Render,
		"partialExists": r.Exists,
	}
}

// Exists reports whether the partial named by segments exists. Segments are
// strings or string slices, flattened in order.
func (r *Resolver) Exists(segments ...any) bool {
	rel, ok := r.path(segments)
	if !ok || r.lib.fsys == nil {
		return false
	}
	st, err := fs.Stat(r.lib.fsys, rel)
	return err == nil && !st.IsDir()
}

// Render executes the partial named by args. A trailing map[string]any is the
// partial's data. A missing partial renders as "".
func (r *Resolver) Render(args ...any) (string, error) {
	var data map[string]any
	if n := len(args); n > 0 {
		if m, ok := args[n-1].(map[string]any); ok {
			data = m
			args = args[:n-1]
		}
	}
	if !r.Exists(args...) {
		return "", nil
	}
	rel, _ := r.path(args)

	if r.depth >= MaxDepth {
		return "", fmt.Errorf("partial %s: %w (limit %d)", rel, ErrTooDeep, MaxDepth)
	}
	r.depth++
	defer func() { r.depth-- }()

	t, err := r.lib.lookup(rel)
	if err != nil {
		return "", err
	}
	t, err = t.Clone()
	if err != nil {
		return "", fmt.Errorf("clone partial %s: %w", rel, err)
	}
	var buf bytes.Buffer
	if err := t.Funcs(r.Funcs()).Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// path flattens segments into a slash-separated path inside the root.
func (r *Resolver) path(segments []any) (string, bool) {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		switch v := s.(type) {
		case string:
			parts = append(parts, v)
		case []string:
			parts = append(parts, v...)
		case []any:
			for _, e := range v {
				parts = append(parts, fmt.Sprint(e))
			}
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	rel := path.Join(parts...) + r.lib.ext
	if !fs.ValidPath(rel) {
		return "", false
	}
	return rel, true
}
