package cmd

import (
	"context"
	"fmt"

	dashboardrender "github.com/bnema/devicepool-cli/internal/adapters/render/dashboard"
	"github.com/bnema/devicepool-cli/internal/application"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:         "watch",
		Short:       "Open the interactive dashboard",
		Long:        "Open the interactive dashboard. Pool status and tasks refresh every poll interval while you stay logged in; polling stops as soon as the session ends.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{routeAnnotation: string(application.RouteRoot)},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			watching := make(chan struct{})
			go func() {
				defer close(watching)
				app.dashboard.WatchAuth(ctx, app.session)
			}()

			program := dashboardrender.NewProgram(app.dashboard, dashboardrender.WatchOptions{
				Context:  ctx,
				OpenFile: app.openFile,
				Now:      app.now,
			},
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)

			_, err := program.Run()
			cancel()
			<-watching
			if err != nil && ctx.Err() == nil {
				return fmt.Errorf("run dashboard: %w", err)
			}

			return nil
		},
	}
}
