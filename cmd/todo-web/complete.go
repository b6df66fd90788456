package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elpatron68/todo-web/internal/client"
	applog "github.com/elpatron68/todo-web/internal/log"
)

type remoteOptions struct {
	baseURL  string
	username string
	password string
}

func (o *remoteOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.baseURL, "url", "http://localhost:8080", "base URL of the todo-web server")
	cmd.Flags().StringVar(&o.username, "user", "", "basic auth user")
	cmd.Flags().StringVar(&o.password, "pass", "", "basic auth password")
}

func newCompleteCmd(opts *rootOptions) *cobra.Command {
	remote := &remoteOptions{}
	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Toggle completion of a todo on a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			applog.InitFromEnvFallback(cfg.Logging.Level)

			loc := client.NewLocation(remote.baseURL)
			tg := client.NewToggler(remote.baseURL, loc)
			tg.Username, tg.Password = remote.username, remote.password
			res := tg.Toggle(cmd.Context(), args[0])
			// failures are only logged; the exit code stays 0
			if res.Redirected {
				fmt.Fprintln(cmd.OutOrStdout(), loc.Href())
			}
			return nil
		},
	}
	remote.register(cmd)
	return cmd
}
