package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/apimeta/internal/definition"
	"github.com/mark3labs/apimeta/internal/examples"
	"github.com/mark3labs/apimeta/internal/openapi"
)

// ExportConfig captures the options for the export-openapi command.
type ExportConfig struct {
	Definitions string   `validate:"required"`
	Resources   []string `validate:"dive,required"`
	Format      string   `validate:"oneof=json yaml"`
	Output      string
	Title       string
	Version     string
	ServerURL   string `validate:"omitempty,url"`
	Verbose     bool
}

var exportRunner = runExport

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-openapi",
		Short: "Export the resource definitions as an OpenAPI 3 document",
		Example: strings.TrimSpace(`  apimeta export-openapi --definitions src/resources -o openapi.yaml
  apimeta export-openapi --definitions src/resources --format json --title "Tasks API"`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			cfg := &ExportConfig{
				Definitions: base.Definitions,
				Resources:   base.Resources,
				ServerURL:   base.BaseURL,
				Verbose:     base.Verbose,
			}
			for name, dst := range map[string]*string{
				"format":      &cfg.Format,
				"output":      &cfg.Output,
				"title":       &cfg.Title,
				"api-version": &cfg.Version,
			} {
				v, err := flags.GetString(name)
				if err != nil {
					return err
				}
				*dst = strings.TrimSpace(v)
			}
			cfg.normalize()
			if err := configValidator.Struct(cfg); err != nil {
				return newUsageError(fmt.Sprintf("export-openapi: %v", err))
			}
			return exportRunner(cmd.Context(), cfg)
		},
	}
	flags := cmd.Flags()
	addSourceFlags(flags)
	flags.String("base-url", "", "Server URL recorded in the document (default "+examples.DefaultBaseURL+")")
	flags.String("format", "", "Output format (json|yaml); inferred from --output when omitted")
	flags.StringP("output", "o", "-", "File to write, or - for stdout")
	flags.String("title", "", "Document title")
	flags.String("api-version", "", "Document version (default 1.0.0)")
	return cmd
}

func (c *ExportConfig) normalize() {
	c.Format = strings.ToLower(c.Format)
	if c.Format == "" {
		switch strings.ToLower(filepath.Ext(c.Output)) {
		case ".yaml", ".yml":
			c.Format = "yaml"
		default:
			c.Format = "json"
		}
	}
	if c.ServerURL == "" {
		c.ServerURL = examples.DefaultBaseURL
	}
}

func runExport(ctx context.Context, cfg *ExportConfig) error {
	store, err := openStore(cfg.Definitions)
	if err != nil {
		return err
	}
	names := cfg.Resources
	if len(names) == 0 {
		if names, err = store.Names(); err != nil {
			return err
		}
	}
	resources := make([]*definition.Resource, 0, len(names))
	for _, name := range names {
		res, err := store.Load(name)
		if err != nil {
			return describeLoadError(err)
		}
		resources = append(resources, res)
	}

	doc, err := openapi.Build(ctx, resources, openapi.Info{
		Title:     cfg.Title,
		Version:   cfg.Version,
		ServerURL: cfg.ServerURL,
	})
	if err != nil {
		return err
	}

	var data []byte
	if cfg.Format == "yaml" {
		data, err = openapi.MarshalYAML(doc)
	} else {
		data, err = openapi.MarshalJSON(doc)
	}
	if err != nil {
		return fmt.Errorf("export-openapi: encode %s: %w", cfg.Format, err)
	}

	if cfg.Output == "" || cfg.Output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := writeFileAtomic(cfg.Output, data, 0o644); err != nil {
		return newUsageError(fmt.Sprintf("export-openapi: %v\nHint: choose a different --output or check directory permissions.", err))
	}
	newLogger(os.Stderr, cfg.Verbose).Info("exported", "paths", len(doc.Paths), "output", cfg.Output)
	return nil
}
