package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	dashboardrender "github.com/bnema/devicepool-cli/internal/adapters/render/dashboard"
	"github.com/bnema/devicepool-cli/internal/application"
	"github.com/bnema/devicepool-cli/internal/domain"
	"github.com/spf13/cobra"
)

const defaultSnapshotLimit = 20

var errSnapshotLogUnavailable = errors.New("pool snapshot log is unavailable")

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "status",
		Short:       "Show phone pool status",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{routeAnnotation: string(application.RouteRoot)},
		RunE: func(cmd *cobra.Command, _ []string) error {
			status := app.dashboard.RefreshPool(cmd.Context())
			if asJSON {
				return writeJSON(cmd, status)
			}

			opts := app.renderOptions()
			opts.Section = dashboardrender.SectionPool
			rendered, err := app.renderer(app.dashboard.State(), opts)
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")
	cmd.AddCommand(newStatusHistoryCmd(app))

	return cmd
}

// newStatusHistoryCmd lists pool snapshots recorded by earlier refreshes.
// It reads only the local database, so no session is needed.
func newStatusHistoryCmd(app *app) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently observed pool status snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.snapshots == nil {
				return errSnapshotLogUnavailable
			}

			snapshots, err := app.snapshots.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("load pool snapshots: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, snapshots)
			}

			return writeSnapshots(cmd, snapshots)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultSnapshotLimit, "number of snapshots to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print snapshots as JSON")

	return cmd
}

func writeSnapshots(cmd *cobra.Command, snapshots []domain.PoolSnapshot) error {
	out := cmd.OutOrStdout()
	if len(snapshots) == 0 {
		_, err := fmt.Fprintln(out, "No pool snapshots recorded yet.")
		return err
	}

	for _, snapshot := range snapshots {
		status := snapshot.Status
		_, err := fmt.Fprintf(out, "%s  available=%d busy=%d avg=%s\n",
			snapshot.ObservedAt.Local().Format(time.DateTime),
			status.AvailablePhones,
			status.BusyPhones,
			status.AverageProcessingDuration().Round(100*time.Millisecond),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func writeJSON(cmd *cobra.Command, value any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
