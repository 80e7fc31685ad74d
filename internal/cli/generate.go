package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mark3labs/apimeta/internal/definition"
	"github.com/mark3labs/apimeta/internal/emitter"
	"github.com/mark3labs/apimeta/internal/examples"
	"github.com/mark3labs/apimeta/internal/render"
)

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render every resource for the selected languages",
		Long: "Render every resource definition for the selected languages into <out>/<language>/. " +
			"Options can be provided via flags, environment variables, config files, or defaults.",
		Example: strings.TrimSpace(`  apimeta generate --definitions src/resources --examples src/examples.yaml --out dist
  apimeta --config apimeta.yaml generate -l go,python --dry-run`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	addSourceFlags(flags)
	flags.String("examples", "", "YAML file of request/response examples keyed by resource")
	flags.String("partials", "", "Directory of documentation partials (<section>/<name>.md.tmpl)")
	flags.String("templates", "", "Directory whose <language>/<template> files replace the built-in templates")
	flags.String("out", "", "Output directory; files land in <out>/<language>/ (default build)")
	flags.StringSliceP("languages", "l", nil, fmt.Sprintf("Languages to render (%s); defaults to all", strings.Join(emitter.Languages(), ", ")))
	flags.String("base-url", "", "API base URL used in documentation curl examples")
	flags.Int("concurrency", 0, "Parallel render limit; 0 uses the number of CPUs")
	flags.Bool("dry-run", false, "Preview planned outputs without writing files")

	return cmd
}

// addSourceFlags registers the flags that select resource definitions.
func addSourceFlags(flags *pflag.FlagSet) {
	flags.String("definitions", "", "Directory of resource definitions (<resource>.yaml)")
	flags.StringSlice("resources", nil, "Only process these resources (default all)")
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	logger := newLogger(os.Stderr, cfg.Verbose)

	renderer, err := newRenderer(cfg, logger)
	if err != nil {
		return err
	}

	absOut := cfg.Out
	if ap, err := filepath.Abs(cfg.Out); err == nil && cfg.Out != "" {
		absOut = ap
	}

	res, err := renderer.RenderAll(ctx, render.Options{
		Resources:   cfg.Resources,
		Languages:   cfg.Languages,
		OutDir:      cfg.Out,
		DryRun:      cfg.DryRun,
		Concurrency: cfg.Concurrency,
	})
	if res == nil {
		return describeLoadError(err)
	}

	if cfg.DryRun {
		printPlan(absOut, res.Planned)
	} else {
		logger.Info("generated", "files", len(res.Planned), "out", absOut)
	}
	return err
}

func newRenderer(cfg *GenerateConfig, logger *slog.Logger) (*render.Renderer, error) {
	store, err := openStore(cfg.Definitions)
	if err != nil {
		return nil, err
	}
	registry, err := emitter.NewRegistry(emitter.Options{DocsBaseURL: cfg.BaseURL})
	if err != nil {
		return nil, err
	}

	opts := []render.Option{render.WithLogger(logger), render.WithBaseURL(cfg.BaseURL)}
	if cfg.Examples != "" {
		if _, err := os.Stat(cfg.Examples); err != nil {
			return nil, newUsageError(fmt.Sprintf("examples: %v", err))
		}
		opts = append(opts, render.WithExamples(examples.NewCollection(cfg.Examples)))
	}
	if cfg.Partials != "" {
		if err := requireDir("partials", cfg.Partials); err != nil {
			return nil, err
		}
		opts = append(opts, render.WithPartials(os.DirFS(cfg.Partials)))
	}
	if cfg.Templates != "" {
		if err := requireDir("templates", cfg.Templates); err != nil {
			return nil, err
		}
		opts = append(opts, render.WithTemplates(os.DirFS(cfg.Templates)))
	}
	return render.New(store, registry, opts...)
}

func openStore(dir string) (*definition.Store, error) {
	store, err := definition.OpenDir(dir)
	if err != nil {
		return nil, newUsageError(fmt.Sprintf("definitions: %v\nHint: point --definitions at the directory holding <resource>.yaml files.", err))
	}
	return store, nil
}

func requireDir(what, dir string) error {
	st, err := os.Stat(dir)
	if err != nil {
		return newUsageError(fmt.Sprintf("%s: %v", what, err))
	}
	if !st.IsDir() {
		return newUsageError(fmt.Sprintf("%s: %s is not a directory", what, dir))
	}
	return nil
}

func printPlan(outDir string, planned []render.PlannedFile) {
	fmt.Fprintf(os.Stdout, "Planned writes to %s (%d files):\n", outDir, len(planned))
	for _, p := range planned {
		fmt.Fprintf(os.Stdout, "- %s (%d bytes)\n", p.RelPath, p.Size)
	}
}
