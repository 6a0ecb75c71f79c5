package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/devicepool-cli/internal/application"
	"github.com/bnema/devicepool-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newSubmitCmd(app *app) *cobra.Command {
	var (
		code     string
		filePath string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit code or a script file to run on the phone pool",
		Long:  "Submit inline code, a file, or both. Use --code - to read the code from stdin. Files must be JavaScript, JSON or plain text and smaller than 5MB.",
		Example: `  dp submit --code "console.log(device.model)"
  dp submit --file ./checks/battery.js
  cat job.js | dp submit --code -`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{routeAnnotation: string(application.RouteRoot)},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if code == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read code from stdin: %w", err)
				}
				code = string(data)
			}

			if filePath != "" {
				if err := selectFile(app, filePath); err != nil {
					return err
				}
			}
			app.dashboard.SetCode(code)

			var task domain.Task
			submit := func(ctx context.Context) error {
				var err error
				task, err = app.dashboard.Submit(ctx)
				return err
			}

			var err error
			if asJSON {
				err = submit(cmd.Context())
			} else {
				err = runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Submitting task...", submit)
			}
			if err != nil {
				return fmt.Errorf("submit task: %w", err)
			}

			if asJSON {
				return writeJSON(cmd, task)
			}
			return writeSubmittedTask(cmd, app, task)
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "code to run (- reads stdin)")
	cmd.Flags().StringVar(&filePath, "file", "", "script file to upload")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the created task as JSON")

	return cmd
}

func selectFile(app *app, path string) error {
	file, closeFile, err := app.openFile(path)
	if err != nil {
		return err
	}
	defer func() { _ = closeFile() }()

	if err := app.dashboard.SelectFile(file); err != nil {
		return fmt.Errorf("%s: %w", file.Name, err)
	}

	return nil
}

func writeSubmittedTask(cmd *cobra.Command, app *app, task domain.Task) error {
	out := cmd.OutOrStdout()
	lines := []string{
		fmt.Sprintf("Submitted task %s [%s]", sanitizeForTerminal(task.ID), task.Status),
	}
	if task.EstimatedCompletionTime != nil && !task.Status.Terminal() {
		lines = append(lines, "Estimated completion: "+domain.FormatEstimatedTime(*task.EstimatedCompletionTime, app.now()))
	}

	_, err := fmt.Fprintln(out, strings.Join(lines, "\n"))
	return err
}
