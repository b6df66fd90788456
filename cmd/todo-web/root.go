package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elpatron68/todo-web/internal/config"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "todo-web",
		Short:        "Server-rendered todo list with a small client",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Run the web UI
  todo-web serve --listen :8080

  # Toggle todo 3 on a running server
  todo-web complete 3 --url http://localhost:8080

  # Show only open todos
  todo-web filter pending --url http://localhost:8080
`),
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config.yaml")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug|info|warn|error")

	cmd.AddCommand(newServeCmd(opts), newCompleteCmd(opts), newFilterCmd(opts))
	return cmd
}

// loadConfig sucht config.yaml im aktuellen Verzeichnis, falls kein Pfad angegeben ist.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, nil
}

// resolveListenAddress: flag > TODOWEB_LISTEN > config.yaml > :8080
func resolveListenAddress(cfg *config.Config, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("TODOWEB_LISTEN"); env != "" {
		return env
	}
	if cfg != nil && cfg.Listen != "" {
		return cfg.Listen
	}
	return ":8080"
}
