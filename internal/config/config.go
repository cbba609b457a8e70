package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AnalyzerConfig points at the resources the analyzer is built from.
type AnalyzerConfig struct {
	LayoutFile string `yaml:"layout_file,omitempty"` // empty means the built-in English layout
	RulesFile  string `yaml:"rules_file"`
}

// IndexConfig configures batch index generation.
type IndexConfig struct {
	Size             int    `yaml:"size"`      // translation size cutoff, range 1-20
	Processes        int    `yaml:"processes"` // 0 means one worker per CPU
	TranslationsFile string `yaml:"translations_file,omitempty"` // dictionary to analyze; a CLI argument overrides it
	Out              string `yaml:"out"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Index    IndexConfig    `yaml:"index"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/stenolex/config.yaml.
// If neither exists, it writes defaults to ~/.config/stenolex/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "stenolex", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Analyzer: AnalyzerConfig{RulesFile: "rules.yaml"},
		Index:    IndexConfig{Size: 12, Out: "index.yaml"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Analyzer.RulesFile == "" {
		cfg.Analyzer.RulesFile = "rules.yaml"
	}
	if cfg.Index.Size == 0 {
		cfg.Index.Size = 12
	}
	if cfg.Index.Out == "" {
		cfg.Index.Out = "index.yaml"
	}
}
