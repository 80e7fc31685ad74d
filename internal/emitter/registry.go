// Package emitter wires the built-in language profiles into a registry.
package emitter

import (
	"github.com/mark3labs/apimeta/internal/emitter/docemitter"
	"github.com/mark3labs/apimeta/internal/emitter/goemitter"
	"github.com/mark3labs/apimeta/internal/emitter/javaemitter"
	"github.com/mark3labs/apimeta/internal/emitter/npmemitter"
	"github.com/mark3labs/apimeta/internal/emitter/phpemitter"
	"github.com/mark3labs/apimeta/internal/emitter/pyemitter"
	"github.com/mark3labs/apimeta/internal/lang"
)

// Options tunes the built-in profiles.
type Options struct {
	// DocsBaseURL overrides the URL prefixed to curl examples in the
	// documentation profile.
	DocsBaseURL string
}

// NewRegistry returns a registry holding every built-in profile.
func NewRegistry(opts Options) (*lang.Registry, error) {
	docs := docemitter.New()
	if opts.DocsBaseURL != "" {
		docs.DocText.BaseURL = opts.DocsBaseURL
	}
	reg := lang.NewRegistry()
	for _, p := range []lang.Profile{
		goemitter.New(),
		npmemitter.New(),
		pyemitter.New(),
		javaemitter.New(),
		phpemitter.New(),
		docs,
	} {
		if err := reg.Register(p); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Languages lists the built-in language ids, sorted.
func Languages() []string {
	return []string{docemitter.ID, goemitter.ID, javaemitter.ID, npmemitter.ID, phpemitter.ID, pyemitter.ID}
}
