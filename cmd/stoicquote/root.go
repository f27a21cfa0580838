package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/stoic-quote/internal/platform/config"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	configDir string
	profile   string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "stoicquote",
		Short: "A motivational stoic quote, one keypress away",
		Long: `stoicquote fetches a random stoic quote and shows it in the terminal.
Press r, space or enter (or click) for a new quote and c to copy it.

The same quote state can be served as a JSON API with "stoicquote serve"
or printed once with "stoicquote fetch".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	defaultProfile := os.Getenv("APP_ENVIRONMENT")
	if defaultProfile == "" {
		defaultProfile = "local"
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configDir, "config-dir", "configs", "directory holding base.yaml and profile files")
	flags.StringVar(&opts.profile, "profile", defaultProfile, "configuration profile (local, dev, qa, prod, test)")
	flags.StringVar(&opts.logLevel, "log-level", "", "override log.level (trace, debug, info, warn, error)")

	root.AddCommand(
		newTUICmd(opts),
		newServeCmd(opts),
		newFetchCmd(opts),
		newVersionCmd(),
	)

	return root
}

// loadConfig loads, overrides and validates configuration.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.LoadFrom(opts.configDir, opts.profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
