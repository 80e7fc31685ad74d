package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const defaultConfigName = "apimeta.yaml"

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath string
	Force      bool
	Verbose    bool
}

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a sample apimeta configuration file",
		Long:  "Scaffold a commented apimeta configuration file that documents available options.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			return initRunner(cmd.Context(), &InitConfig{
				OutputPath: out,
				Force:      force,
				Verbose:    verbose,
			})
		},
	}

	cmd.Flags().String("out", defaultConfigName, "Where to write the sample config file")
	cmd.Flags().Bool("force", false, "Overwrite the target file if it already exists")

	return cmd
}

func runInit(ctx context.Context, cfg *InitConfig) error {
	out := strings.TrimSpace(cfg.OutputPath)
	if out == "" {
		out = defaultConfigName
	}
	absPath, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("init: resolve output path: %w", err)
	}

	if st, err := os.Stat(absPath); err == nil && !cfg.Force && st.Mode().IsRegular() {
		return newUsageError(fmt.Sprintf("init: %q already exists (use --force to overwrite)", absPath))
	}

	content := strings.TrimSpace(sampleConfigYAML) + "\n"
	if err := writeFileAtomic(absPath, []byte(content), 0o644); err != nil {
		return newUsageError(fmt.Sprintf("init: %v\nHint: choose a different --out or check directory permissions.", err))
	}
	fmt.Fprintf(os.Stdout, "Wrote sample config to %s\n", absPath)
	return nil
}

// writeFileAtomic writes data to a temp file beside path and renames it into
// place.
func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("place file at %s: %w", path, err)
	}
	return nil
}

// sampleConfigYAML is a commented example config documenting available options.
const sampleConfigYAML = `# apimeta configuration (YAML)
# Flags override APIMETA_* environment variables, which override this file.

# Directory of resource definitions, one <resource>.yaml per resource.
# Include fragments may live in subdirectories. (APIMETA_DEFINITIONS)
# definitions: ./src/resources

# YAML file of request/response examples keyed by resource. (APIMETA_EXAMPLES)
# examples: ./src/examples.yaml

# Documentation partials, laid out as <section>/<name>.md.tmpl. (APIMETA_PARTIALS)
# partials: ./src/partials

# Directory whose <language>/<template> files replace the built-in templates.
# templates: ./templates

# Output directory; each language renders into <out>/<language>/.
# out: ./build

# Languages to render (docs, go, java, js, php, python). Defaults to all.
# languages: [go, js, python]

# Only render these resources. Defaults to every definition.
# resources: [task, project]

# API base URL used by documentation curl examples.
# baseURL: https://app.asana.com/api/1.0

# Parallel render limit; 0 uses the number of CPUs.
# concurrency: 0

# Preview planned outputs without writing files.
# dryRun: false

# Enable verbose logging.
# verbose: false
`
