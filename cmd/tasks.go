package cmd

import (
	"fmt"

	dashboardrender "github.com/bnema/devicepool-cli/internal/adapters/render/dashboard"
	"github.com/bnema/devicepool-cli/internal/application"
	"github.com/spf13/cobra"
)

func newTasksCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "tasks",
		Short:       "List submitted tasks and their progress",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{routeAnnotation: string(application.RouteRoot)},
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasks := app.remote.GetTasks(cmd.Context())
			if asJSON {
				return writeJSON(cmd, tasks)
			}

			opts := app.renderOptions()
			opts.Section = dashboardrender.SectionTasks
			rendered, err := app.renderer(application.DashboardState{Tasks: tasks}, opts)
			if err != nil {
				return fmt.Errorf("render tasks: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print tasks as JSON")

	return cmd
}
