package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List tasks submitted from this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := app.history.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("load submission history: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, err := fmt.Fprintln(out, "No submissions recorded yet.")
				return err
			}

			for _, entry := range entries {
				subject := entry.FileName
				if subject == "" {
					subject = fmt.Sprintf("%d bytes of code", entry.CodeBytes)
				}
				if _, err := fmt.Fprintf(out, "%s  %s  [%s]  %s\n",
					entry.SubmittedAt.Local().Format(time.DateTime),
					sanitizeForTerminal(entry.TaskID),
					entry.Status,
					sanitizeForTerminal(subject),
				); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print history as JSON")

	return cmd
}
