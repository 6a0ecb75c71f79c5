package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bnema/devicepool-cli/internal/application"
	"github.com/bnema/devicepool-cli/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	// routeAnnotation marks commands that sit behind the session guard.
	routeAnnotation = "route"
	// offlineAnnotation marks commands that need neither config nor session.
	offlineAnnotation = "offline"
)

var ErrLoginRequired = fmt.Errorf("%w: run `dp login`", domain.ErrNotAuthenticated)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd, app := newRootCmdWithApp()
	defer func() { _ = app.close() }()
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd, _ := newRootCmdWithApp()
	return rootCmd
}

func newRootCmdWithApp() (*cobra.Command, *app) {
	app := &app{}
	var (
		apiURL string
		debug  bool
	)

	rootCmd := &cobra.Command{
		Use:           "dp",
		Short:         "Device pool CLI (dp): submit scripts to a pool of phones",
		Long:          "dp logs in to the device-pool job service, submits scripts or files to run on its phones, and shows pool status and task progress from the terminal.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		Annotations:   map[string]string{routeAnnotation: string(application.RouteRoot)},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cmd.ErrOrStderr(), debug, "")
			if _, offline := cmd.Annotations[offlineAnnotation]; offline {
				return nil
			}
			if err := app.wire(apiURL); err != nil {
				return err
			}
			setupLogging(cmd.ErrOrStderr(), debug, app.cfg.LogLevel)
			return app.guard(cmd, args)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return app.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd, app)
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "remote service base URL (overrides DP_API_URL and config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newStatusCmd(app),
		newTasksCmd(app),
		newSubmitCmd(app),
		newHistoryCmd(app),
		newWatchCmd(app),
	)

	return rootCmd, app
}

// guard waits for the stored session to settle, then applies the route
// rules to the command about to run. Commands without a route are public.
func (a *app) guard(cmd *cobra.Command, args []string) error {
	route, ok := cmd.Annotations[routeAnnotation]
	if !ok {
		return nil
	}

	requested := route
	if cmd == cmd.Root() && len(args) > 0 {
		requested = "/" + strings.Join(args, "/")
	}

	<-a.session.Init(cmd.Context())

	decision := application.Guard(requested, a.session.IsAuthenticated())
	a.route = decision.Route
	if decision.Redirected {
		log.Debug().Str("requested", requested).Str("route", string(decision.Route)).Msg("route redirected")
	}
	if cmd == cmd.Root() && len(args) > 0 {
		log.Warn().Str("command", strings.Join(args, " ")).Msg("unknown command, showing the dashboard")
	}

	if decision.Route == application.RouteLogin && application.Route(route) != application.RouteLogin {
		return ErrLoginRequired
	}

	return nil
}

func runDashboard(cmd *cobra.Command, app *app) error {
	app.dashboard.Refresh(cmd.Context())

	rendered, err := app.renderer(app.dashboard.State(), app.renderOptions())
	if err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
