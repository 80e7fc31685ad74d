package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var resourcesRunner = runResources

func newResourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "List the resources found in the definitions directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return resourcesRunner(cmd.Context(), cfg)
		},
	}
	cmd.Flags().String("definitions", "", "Directory of resource definitions (<resource>.yaml)")
	return cmd
}

func runResources(ctx context.Context, cfg *GenerateConfig) error {
	store, err := openStore(cfg.Definitions)
	if err != nil {
		return err
	}
	names, err := store.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(os.Stdout, name)
	}
	return nil
}
