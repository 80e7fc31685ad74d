package definition

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrorCode categorizes loader errors for clearer handling and messaging.
type ErrorCode string

const (
	InputError      ErrorCode = "InputError"
	IncludeError    ErrorCode = "IncludeError"
	ParseError      ErrorCode = "ParseError"
	ValidationError ErrorCode = "ValidationError"
)

// LoadError reports why a resource definition could not be loaded. Reference
// names the offending file or include target when one is known.
type LoadError struct {
	Code      ErrorCode
	Resource  string
	Reference string
	Message   string
	Cause     error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("definition %q: %s", e.Resource, e.Message)
	if e.Reference != "" {
		msg = fmt.Sprintf("%s (reference %s)", msg, e.Reference)
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Settings configures loader behavior.
type Settings struct {
	// Extension of definition files, including the dot.
	Extension string
	// Validate checks every composed definition against the resource schema.
	Validate bool
	// MaxIncludeDepth bounds nested include expansion.
	MaxIncludeDepth int
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{
		Extension:       ".yaml",
		Validate:        true,
		MaxIncludeDepth: 16,
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithExtension(ext string) Option { return func(s *Settings) { s.Extension = ext } }
func WithValidation(on bool) Option { return func(s *Settings) { s.Validate = on } }
func WithMaxIncludeDepth(n int) Option { return func(s *Settings) { s.MaxIncludeDepth = n } }

// Store reads resource definitions from a single storage root. It holds no
// mutable state after construction and is safe for concurrent use.
type Store struct {
	fsys     fs.FS
	settings Settings
	schema   *jsonschema.Schema
}

// NewStore returns a Store reading definitions from fsys.
func NewStore(fsys fs.FS, opts ...Option) (*Store, error) {
	if fsys == nil {
		return nil, errors.New("definition: nil filesystem")
	}
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	if !strings.HasPrefix(settings.Extension, ".") {
		settings.Extension = "." + settings.Extension
	}
	if settings.MaxIncludeDepth <= 0 {
		settings.MaxIncludeDepth = DefaultSettings().MaxIncludeDepth
	}

	s := &Store{fsys: fsys, settings: settings}
	if settings.Validate {
		schema, err := compileResourceSchema()
		if err != nil {
			return nil, fmt.Errorf("definition: compile resource schema: %w", err)
		}
		s.schema = schema
	}
	return s, nil
}

// OpenDir returns a Store rooted at a filesystem directory.
func OpenDir(dir string, opts ...Option) (*Store, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("definition: open %s: %w", dir, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("definition: %s is not a directory", dir)
	}
	return NewStore(os.DirFS(dir), opts...)
}

// Names lists the resources in the store, sorted lexically. Only files at the
// top level of the root count; include fragments live in subdirectories.
func (s *Store) Names() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("definition: list resources: %w", err)
	}
	ext := s.settings.Extension
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if len(name) > len(ext) && strings.HasSuffix(name, ext) {
			names = append(names, strings.TrimSuffix(name, ext))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load expands, validates and decodes one resource definition.
func (s *Store) Load(name string) (*Resource, error) {
	text, err := s.Expand(name)
	if err != nil {
		return nil, err
	}
	return s.decode(name, text)
}

// Expand returns the definition text of name with every include directive
// replaced by the referenced content.
func (s *Store) Expand(name string) ([]byte, error) {
	file := name + s.settings.Extension
	if strings.TrimSpace(name) == "" || strings.Contains(name, "/") || !fs.ValidPath(file) {
		return nil, &LoadError{Code: InputError, Resource: name, Message: "invalid resource name"}
	}
	raw, err := fs.ReadFile(s.fsys, file)
	if err != nil {
		return nil, &LoadError{Code: InputError, Resource: name, Reference: file, Message: fmt.Sprintf("read definition: %v", err), Cause: err}
	}
	return s.expand(name, file, raw, []string{file})
}
