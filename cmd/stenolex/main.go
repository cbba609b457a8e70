package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"stenolex/internal/analyzer"
	"stenolex/internal/config"
	"stenolex/internal/domain"
	"stenolex/internal/index"
	"stenolex/internal/keys"
	"stenolex/internal/rules"
	"stenolex/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var buildIndex bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/stenolex/config.yaml if not provided)")
	flag.BoolVar(&buildIndex, "index", false, "Build an examples index from a translations file instead of starting the console")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Assemble the analyzer from the layout and rule files.
	layout := keys.Default()
	if cfg.Analyzer.LayoutFile != "" {
		layout, err = keys.Load(cfg.Analyzer.LayoutFile)
		if err != nil {
			log.Fatalf("failed to load layout: %v", err)
		}
	}
	coll, err := rules.Load(cfg.Analyzer.RulesFile, keys.NewConverter(layout))
	if err != nil {
		log.Fatalf("failed to load rules: %v", err)
	}
	an, err := analyzer.Build(coll, layout)
	if err != nil {
		log.Fatalf("failed to build analyzer: %v", err)
	}

	if buildIndex {
		path := cfg.Index.TranslationsFile
		if flag.NArg() > 0 {
			path = flag.Arg(0)
		}
		if path == "" {
			fmt.Println("Usage: stenolex -index [--config=config.yaml] translations.yaml")
			os.Exit(1)
		}
		if err := runIndex(an, cfg, path); err != nil {
			log.Fatal(err)
		}
		return
	}

	m := tui.New(an)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

// runIndex analyzes every translation in the file and writes the reverse
// rule-to-examples index. Partial matches are discarded outright; an index of
// unreliable examples is worse than a smaller one.
func runIndex(an *analyzer.Analyzer, cfg *config.AppConfig, path string) error {
	translations, err := loadTranslations(path)
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}
	filtered := index.Filter(translations, cfg.Index.Size)
	log.Printf("analyzing %d of %d translations", len(filtered), len(translations))
	results := an.QueryAll(filtered, cfg.Index.Processes, true)
	examples := index.Compile(results, an.RuleName)
	data, err := yaml.Marshal(examples)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Index.Out, data, 0o644); err != nil {
		return err
	}
	log.Printf("wrote %d rule entries to %s", len(examples), cfg.Index.Out)
	return nil
}

// loadTranslations reads a steno dictionary: a flat YAML/JSON mapping of
// RTFCRE key strings to the text they produce.
func loadTranslations(path string) ([]domain.Translation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d map[string]string
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	out := make([]domain.Translation, 0, len(d))
	for k, v := range d {
		out = append(out, domain.Translation{Keys: k, Letters: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Keys < out[j].Keys })
	return out, nil
}
