package main

import (
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/elpatron68/todo-web/internal/client"
	applog "github.com/elpatron68/todo-web/internal/log"
)

func newFilterCmd(opts *rootOptions) *cobra.Command {
	remote := &remoteOptions{}
	var asHTML bool
	cmd := &cobra.Command{
		Use:   "filter <all|completed|pending>",
		Short: "Fetch the list page and show the rows visible under a status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			applog.InitFromEnvFallback(cfg.Logging.Level)

			pageURL := strings.TrimRight(remote.baseURL, "/") + "/"
			doc, err := client.FetchPage(cmd.Context(), http.DefaultClient, pageURL, remote.username, remote.password)
			if err != nil {
				return err
			}
			if err := doc.Filter(args[0]); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asHTML {
				return doc.Render(out)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, r := range doc.Visible() {
				mark := "[ ]"
				if r.Checked {
					mark = "[x]"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, mark, r.Text)
			}
			return tw.Flush()
		},
	}
	remote.register(cmd)
	cmd.Flags().BoolVar(&asHTML, "html", false, "print the filtered page instead of a table")
	return cmd
}
