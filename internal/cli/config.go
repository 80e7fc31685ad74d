package cli

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/apimeta/internal/emitter"
)

// envPrefix namespaces the environment variables read into GenerateConfig.
const envPrefix = "APIMETA_"

// GenerateConfig captures all inputs that influence a run after merging
// defaults, the config file, environment variables and CLI overrides, in
// that order.
type GenerateConfig struct {
	Definitions string   `flag:"definitions" env:"DEFINITIONS" validate:"required"`
	Examples    string   `flag:"examples" env:"EXAMPLES"`
	Partials    string   `flag:"partials" env:"PARTIALS"`
	Templates   string   `flag:"templates" env:"TEMPLATES"`
	Out         string   `flag:"out" env:"OUT" validate:"required_unless=DryRun true"`
	Languages   []string `flag:"languages" env:"LANGUAGES" validate:"required,min=1,dive,required"`
	Resources   []string `flag:"resources" env:"RESOURCES" validate:"dive,required"`
	BaseURL     string   `flag:"base-url" env:"BASE_URL" validate:"omitempty,url"`
	Concurrency int      `flag:"concurrency" env:"CONCURRENCY" validate:"gte=0"`
	DryRun      bool     `flag:"dry-run" env:"DRY_RUN"`
	Verbose     bool     `flag:"verbose" env:"VERBOSE"`
	ConfigPath  string
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Out:       "build",
		Languages: emitter.Languages(),
	}
}

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("flag"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// resolveGenerateConfig merges every config source for cmd. Only flags that
// cmd defines take part, so subcommands share one precedence chain.
func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, newUsageError(fmt.Sprintf("environment: %v", err))
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func changed(flags *pflag.FlagSet, name string) bool {
	return flags.Lookup(name) != nil && flags.Changed(name)
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	strs := map[string]*string{
		"definitions": &cfg.Definitions,
		"examples":    &cfg.Examples,
		"partials":    &cfg.Partials,
		"templates":   &cfg.Templates,
		"out":         &cfg.Out,
		"base-url":    &cfg.BaseURL,
	}
	for name, dst := range strs {
		if !changed(flags, name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = strings.TrimSpace(value)
	}

	lists := map[string]*[]string{
		"languages": &cfg.Languages,
		"resources": &cfg.Resources,
	}
	for name, dst := range lists {
		if !changed(flags, name) {
			continue
		}
		value, err := flags.GetStringSlice(name)
		if err != nil {
			return err
		}
		*dst = sanitizeList(value)
	}

	bools := map[string]*bool{
		"dry-run": &cfg.DryRun,
		"verbose": &cfg.Verbose,
	}
	for name, dst := range bools {
		if !changed(flags, name) {
			continue
		}
		value, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = value
	}

	if changed(flags, "concurrency") {
		value, err := flags.GetInt("concurrency")
		if err != nil {
			return err
		}
		cfg.Concurrency = value
	}
	return nil
}

func (c *GenerateConfig) normalize() {
	c.Definitions = strings.TrimSpace(c.Definitions)
	c.Examples = strings.TrimSpace(c.Examples)
	c.Partials = strings.TrimSpace(c.Partials)
	c.Templates = strings.TrimSpace(c.Templates)
	c.Out = strings.TrimSpace(c.Out)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	langs := make([]string, 0, len(c.Languages))
	for _, l := range c.Languages {
		langs = append(langs, strings.ToLower(l))
	}
	c.Languages = sanitizeList(langs)
	c.Resources = sanitizeList(c.Resources)
}

func (c *GenerateConfig) validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return newUsageError("config: " + strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	name, _, _ := strings.Cut(fe.Field(), "[")
	switch fe.Tag() {
	case "required", "min":
		return fmt.Sprintf("--%s is required (set via flag, config file or %s%s)", name, envPrefix, envName(fe.StructField()))
	case "required_unless":
		return fmt.Sprintf("--%s is required unless --dry-run is set", name)
	case "url":
		return fmt.Sprintf("--%s must be an absolute URL, got %q", name, fe.Value())
	case "gte":
		return fmt.Sprintf("--%s must be >= %s, got %v", name, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("--%s failed %q validation", name, fe.Tag())
	}
}

func envName(field string) string {
	field, _, _ = strings.Cut(field, "[")
	f, ok := reflect.TypeOf(GenerateConfig{}).FieldByName(field)
	if !ok {
		return strings.ToUpper(field)
	}
	return f.Tag.Get("env")
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	for key, value := range raw {
		var err error
		switch normalizeKey(key) {
		case "definitions":
			cfg.Definitions, err = valueAsString(value)
		case "examples":
			cfg.Examples, err = valueAsString(value)
		case "partials":
			cfg.Partials, err = valueAsString(value)
		case "templates":
			cfg.Templates, err = valueAsString(value)
		case "out":
			cfg.Out, err = valueAsString(value)
		case "baseurl":
			cfg.BaseURL, err = valueAsString(value)
		case "languages":
			var list []string
			list, err = valueAsStringSlice(value)
			cfg.Languages = sanitizeList(list)
		case "resources":
			var list []string
			list, err = valueAsStringSlice(value)
			cfg.Resources = sanitizeList(list)
		case "concurrency":
			cfg.Concurrency, err = valueAsInt(value)
		case "dryrun":
			cfg.DryRun, err = valueAsBool(value)
		case "verbose":
			cfg.Verbose, err = valueAsBool(value)
		default:
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
		if err != nil {
			return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
		}
	}
	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		return splitAndTrim(val), nil
	case []any:
		items := make([]string, 0, len(val))
		for idx, elem := range val {
			str, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
			if str != "" {
				items = append(items, str)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected string or list, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(val))
		switch trimmed {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n", "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func valueAsInt(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case float64:
		if val != float64(int(val)) {
			return 0, fmt.Errorf("expected integer, got %v", val)
		}
		return int(val), nil
	case string:
		if strings.TrimSpace(val) == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("invalid integer value %q", val)
		}
		return n, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

// sanitizeList trims, drops empties and dedupes, keeping first occurrences.
func sanitizeList(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
