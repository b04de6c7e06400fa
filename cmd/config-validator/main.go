package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/orgoj/logemit/internal/config"
	"github.com/orgoj/logemit/internal/logger"
)

func main() {
	// Parse command line flags
	flag.Parse()

	// Get config path from arguments
	if len(flag.Args()) < 1 {
		fmt.Println("Error: Config file path is required")
		fmt.Println("Usage: config-validator <config-file>")
		os.Exit(1)
	}
	configPath := flag.Args()[0]

	// Load and validate configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Perform additional validation
	if err := validateConfig(cfg); err != nil {
		fmt.Printf("Validation error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration is valid!")
}

// validateConfig checks what LoadConfig leaves to runtime: that the display
// section builds and that something will actually be written.
func validateConfig(cfg *config.Config) error {
	if _, err := logger.DisplayFromConfig(cfg.Display); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	hasEnabledEmitter := false
	for _, dest := range cfg.Emitters {
		if !dest.Enabled {
			continue
		}
		hasEnabledEmitter = true

		level, err := logger.ParseLevel(dest.Level)
		if err != nil {
			return fmt.Errorf("emitter %s: %w", dest.Name, err)
		}
		if level == logger.Off {
			fmt.Printf("Warning: emitter %s is enabled with level off and will write nothing\n", dest.Name)
		}
		if dest.Type == config.TypeTerm && !dest.FallbackPlain {
			fmt.Printf("Warning: emitter %s fails to start without a terminal; consider fallback_plain: true\n", dest.Name)
		}
	}

	if !hasEnabledEmitter {
		return fmt.Errorf("at least one emitter must be enabled")
	}

	return nil
}
