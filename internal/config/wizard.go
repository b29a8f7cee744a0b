package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .accesskit.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to accesskit! Let's configure your widget server.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port selection: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 2. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}

	// 3. Consent report endpoint (optional).
	reportPrompt := promptui.Prompt{
		Label:   "Consent report endpoint (empty to disable)",
		Default: "",
	}
	if cfg.ReportEndpoint, err = reportPrompt.Run(); err != nil {
		return nil, fmt.Errorf("report endpoint: %w", err)
	}

	// 4. CORS mode.
	corsPrompt := promptui.Select{
		Label: "Cross-origin policy",
		Items: []string{"registered site origins only", "allow all origins (dev)"},
	}
	idx, _, err := corsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("cors selection: %w", err)
	}
	cfg.AllowAllOrigins = idx == 1

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(".accesskit.yml"); err != nil {
		return nil, err
	}
	fmt.Println("\nConfiguration written to .accesskit.yml")

	return cfg, nil
}
