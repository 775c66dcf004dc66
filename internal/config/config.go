// Package config loads vertere.yml project configuration via viper.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/vertere-lang/vertere/compiler/codegen"
)

// Config represents one vertere project's configuration.
type Config struct {
	ProjectName string       `mapstructure:"project_name"`
	Target      TargetConfig `mapstructure:"target"`
	Build       BuildConfig  `mapstructure:"build"`
	LSP         LSPConfig    `mapstructure:"lsp"`
}

// TargetConfig selects the default codegen target and its options.
type TargetConfig struct {
	Default       string `mapstructure:"default"` // fidelis | simplex | firmus
	EmitSourceMap bool   `mapstructure:"emit_source_map"`
}

// BuildConfig controls where generated output is written.
type BuildConfig struct {
	OutDir string `mapstructure:"out_dir"`
}

// LSPConfig controls the language server.
type LSPConfig struct {
	Port int `mapstructure:"port"`
}

// Load reads vertere.yml/vertere.yaml from the current directory, falling
// back to defaults when no file is present.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("target.default", string(codegen.Fidelis))
	v.SetDefault("target.emit_source_map", false)
	v.SetDefault("build.out_dir", "build")
	v.SetDefault("lsp.port", 0) // 0 => stdio transport

	v.SetConfigName("vertere")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvPrefix("VERTERE")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch codegen.TargetName(cfg.Target.Default) {
	case codegen.Fidelis, codegen.Simplex, codegen.Firmus:
	default:
		return fmt.Errorf("config: unknown target %q", cfg.Target.Default)
	}
	return nil
}

// InProject reports whether the current directory holds a vertere project.
func InProject() bool {
	for _, name := range []string{"vertere.yml", "vertere.yaml"} {
		if _, err := os.Stat(name); err == nil {
			return true
		}
	}
	return false
}
