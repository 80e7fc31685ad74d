package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mark3labs/apimeta/internal/definition"
)

// ValidateConfig captures the options for the validate command.
type ValidateConfig struct {
	Definitions  string
	Resources    []string
	ShowExpanded bool
	Verbose      bool
}

var validateRunner = runValidate

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [resource...]",
		Short: "Load and check resource definitions without rendering",
		Long: "Resolve includes, check every definition against the resource schema and " +
			"warn about path placeholders that no required param binds.",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			show, err := cmd.Flags().GetBool("show-expanded")
			if err != nil {
				return err
			}
			cfg := &ValidateConfig{
				Definitions:  base.Definitions,
				Resources:    base.Resources,
				ShowExpanded: show,
				Verbose:      base.Verbose,
			}
			if len(args) > 0 {
				cfg.Resources = sanitizeList(args)
			}
			return validateRunner(cmd.Context(), cfg)
		},
	}
	addSourceFlags(cmd.Flags())
	cmd.Flags().Bool("show-expanded", false, "Print each definition with its includes resolved")
	return cmd
}

func runValidate(ctx context.Context, cfg *ValidateConfig) error {
	logger := newLogger(os.Stderr, cfg.Verbose)
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

	var errs []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cfg.ShowExpanded {
			text, err := store.Expand(name)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			fmt.Fprintf(os.Stdout, "# %s\n%s\n", name, text)
		}
		res, err := store.Load(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, s := range definition.CheckPathParams(res) {
			logger.Warn("path placeholders without a required param",
				"resource", s.Resource, "action", s.Action, "path", s.Path,
				"placeholders", s.Placeholders, "bound", s.Bound)
		}
		logger.Debug("valid", "resource", res.Name, "actions", len(res.Actions), "properties", len(res.Properties))
	}

	switch len(errs) {
	case 0:
		fmt.Fprintf(os.Stdout, "%d resource(s) valid\n", len(names))
		return nil
	case 1:
		return describeLoadError(errs[0])
	default:
		return errors.Join(errs...)
	}
}
