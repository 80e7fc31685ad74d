package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mark3labs/apimeta/internal/definition"
	"github.com/mark3labs/apimeta/internal/lang"
)

// Options controls a RenderAll run.
type Options struct {
	// Resources to render; empty means every definition in the store.
	Resources []string
	// Languages to render; required.
	Languages []string
	// OutDir receives <language>/<filename>; required unless DryRun.
	OutDir string
	// DryRun renders and plans without writing.
	DryRun bool
	// Concurrency bounds parallel work; zero means runtime.NumCPU().
	Concurrency int
}

// PlannedFile describes a file the run rendered.
type PlannedFile struct {
	RelPath  string
	Resource string
	Language string
	Size     int
	Mode     os.FileMode
}

// Result returns the planned files and the path placeholder shortfalls found
// while loading.
type Result struct {
	Planned   []PlannedFile
	Shortfall []definition.Shortfall
}

// RenderAll renders the resource x language product. Every independent pair
// is attempted; failures are aggregated into a *BatchError returned together
// with the Result for the pairs that succeeded.
func (r *Renderer) RenderAll(ctx context.Context, opts Options) (*Result, error) {
	if len(opts.Languages) == 0 {
		return nil, errors.New("render: at least one language is required")
	}
	if !opts.DryRun && strings.TrimSpace(opts.OutDir) == "" {
		return nil, errors.New("render: OutDir is required")
	}
	names := opts.Resources
	if len(names) == 0 {
		all, err := r.store.Names()
		if err != nil {
			return nil, err
		}
		names = all
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	var profiles []lang.Profile
	for _, id := range dedupe(opts.Languages) {
		p, err := r.registry.ForLanguage(id)
		if err != nil {
			fail(err)
			continue
		}
		profiles = append(profiles, p)
	}

	resources, err := r.loadAll(ctx, dedupe(names), limit, fail)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, rs := range resources {
		for _, s := range definition.CheckPathParams(rs) {
			r.settings.Logger.Warn("path placeholders without a required param",
				"resource", s.Resource, "action", s.Action, "path", s.Path,
				"placeholders", s.Placeholders, "bound", s.Bound)
			res.Shortfall = append(res.Shortfall, s)
		}
	}

	var outputs []*Output
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, rs := range resources {
		for _, p := range profiles {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				out, err := r.renderResource(rs, p)
				if err != nil {
					fail(err)
					return nil
				}
				r.settings.Logger.Debug("rendered", "resource", out.Resource, "language", out.Language,
					"path", out.RelPath, "bytes", len(out.Content))
				mu.Lock()
				outputs = append(outputs, out)
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(outputs, func(i, j int) bool { return outputs[i].RelPath < outputs[j].RelPath })
	outputs = dropCollisions(outputs, fail)

	for _, out := range outputs {
		if !opts.DryRun {
			if err := writeFileAtomic(opts.OutDir, out.RelPath, out.Content, 0o644); err != nil {
				fail(fmt.Errorf("write %s: %w", out.RelPath, err))
				continue
			}
		}
		res.Planned = append(res.Planned, PlannedFile{
			RelPath:  out.RelPath,
			Resource: out.Resource,
			Language: out.Language,
			Size:     len(out.Content),
			Mode:     0o644,
		})
	}
	return res, newBatchError(errs)
}

// loadAll loads each resource once, in parallel. The returned slice keeps the
// order of names and omits resources that failed to load.
func (r *Renderer) loadAll(ctx context.Context, names []string, limit int, fail func(error)) ([]*definition.Resource, error) {
	loaded := make([]*definition.Resource, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, name := range names {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rs, err := r.store.Load(name)
			if err != nil {
				fail(err)
				return nil
			}
			loaded[i] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := loaded[:0]
	for _, rs := range loaded {
		if rs != nil {
			out = append(out, rs)
		}
	}
	return out, nil
}

// dropCollisions removes outputs whose path another resource also rendered
// to. outputs must be sorted by RelPath.
func dropCollisions(outputs []*Output, fail func(error)) []*Output {
	kept := outputs[:0]
	for i := 0; i < len(outputs); {
		j := i + 1
		for j < len(outputs) && outputs[j].RelPath == outputs[i].RelPath {
			j++
		}
		if j-i == 1 {
			kept = append(kept, outputs[i])
		} else {
			for _, out := range outputs[i:j] {
				fail(&RenderError{
					Resource: out.Resource,
					Language: out.Language,
					Template: out.RelPath,
					Err:      fmt.Errorf("output path collides with %d other resource(s)", j-i-1),
				})
			}
		}
		i = j
	}
	return kept
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
