package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-core-fx/config"
	"github.com/go-playground/validator/v10"
)

// Options carries the command-line overrides into the config loader.
type Options struct {
	ConfigPath   string
	DryRun       bool
	HistoryLimit int
}

type brandingConfig struct {
	// SourceName is the upstream naming token found in the tree, e.g. "lineage".
	SourceName string `koanf:"source_name"`
	// TargetName replaces SourceName in derived substitution rules.
	TargetName string `koanf:"target_name"`
}

type gitConfig struct {
	Timeout     time.Duration `koanf:"timeout"`
	AuthorName  string        `koanf:"author_name"`
	AuthorEmail string        `koanf:"author_email"`
}

type storageConfig struct {
	DataDir string `koanf:"data_dir"`
}

type sourceSpec struct {
	Path   string   `koanf:"path" validate:"required"`
	URL    string   `koanf:"url" validate:"required"`
	Ref    string   `koanf:"ref"`
	Sparse bool     `koanf:"sparse"`
	Paths  []string `koanf:"paths"`
}

type patchSpec struct {
	Path     string `koanf:"path" validate:"required"`
	Remote   string `koanf:"remote" validate:"required"`
	URL      string `koanf:"url" validate:"required"`
	Commit   string `koanf:"commit" validate:"required"`
	Strategy string `koanf:"strategy" validate:"omitempty,oneof=ours theirs both manual"`
}

type artifactSpec struct {
	URL  string `koanf:"url" validate:"required"`
	Path string `koanf:"path" validate:"required"`
}

type ruleSpec struct {
	Source string `koanf:"source" validate:"required"`
	// Target may be empty, in which case it is derived from the source token
	// by swapping the branding names.
	Target   string   `koanf:"target"`
	Mode     string   `koanf:"mode" validate:"omitempty,oneof=substring word"`
	Patterns []string `koanf:"patterns"`
}

type Config struct {
	WorkDir string `koanf:"work_dir" validate:"required"`
	Preview bool   `koanf:"preview"`

	Branding brandingConfig `koanf:"branding"`
	Git      gitConfig      `koanf:"git"`
	Storage  storageConfig  `koanf:"storage"`

	Sources   []sourceSpec   `koanf:"sources" validate:"dive"`
	Patches   []patchSpec    `koanf:"patches" validate:"dive"`
	Artifacts []artifactSpec `koanf:"artifacts" validate:"dive"`
	Rules     []ruleSpec     `koanf:"rules" validate:"dive"`
}

func Default() Config {
	//nolint:exhaustruct,mnd //default values
	return Config{
		WorkDir: ".",

		Branding: brandingConfig{
			SourceName: "lineage",
		},

		Git: gitConfig{
			Timeout:     5 * time.Minute,
			AuthorName:  "romforge",
			AuthorEmail: "romforge@localhost",
		},

		Storage: storageConfig{
			DataDir: "./data",
		},
	}
}

func New(opts Options, validate *validator.Validate) (Config, error) {
	cfg := Default()

	options := []config.Option{}
	yamlPath := opts.ConfigPath
	if yamlPath == "" {
		yamlPath = os.Getenv("CONFIG_PATH")
	}
	if yamlPath != "" {
		options = append(options, config.WithLocalYAML(yamlPath))
	}

	if err := config.Load(&cfg, options...); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.DryRun {
		cfg.Preview = true
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ruleTarget resolves the target token of a rule, deriving it from the
// branding names when the manifest leaves it empty.
func (c Config) ruleTarget(r ruleSpec) string {
	if r.Target != "" {
		return r.Target
	}

	return strings.ReplaceAll(r.Source, c.Branding.SourceName, c.Branding.TargetName)
}
