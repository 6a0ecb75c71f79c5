package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/bnema/devicepool-cli/internal/adapters/localfile"
	"github.com/bnema/devicepool-cli/internal/adapters/remote/httpapi"
	dashboardrender "github.com/bnema/devicepool-cli/internal/adapters/render/dashboard"
	sqlitelog "github.com/bnema/devicepool-cli/internal/adapters/repo/sqlite"
	tomlrepo "github.com/bnema/devicepool-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/devicepool-cli/internal/adapters/secrets/chain"
	filestore "github.com/bnema/devicepool-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/devicepool-cli/internal/adapters/secrets/pass"
	"github.com/bnema/devicepool-cli/internal/application"
	"github.com/bnema/devicepool-cli/internal/config"
	"github.com/bnema/devicepool-cli/internal/ports"
	"github.com/rs/zerolog/log"
)

// maxRenderedTasks caps the task list of one-shot renders.
const maxRenderedTasks = 20

type app struct {
	cfg       *config.Config
	session   *application.SessionService
	dashboard *application.Dashboard
	remote    ports.RemoteService
	history   ports.HistoryRepository
	snapshots *sqlitelog.SnapshotLog
	renderer  func(application.DashboardState, dashboardrender.RenderOptions) (string, error)
	openFile  dashboardrender.FileOpener
	now       func() time.Time

	// route is the guard decision for the running command.
	route application.Route
	wired bool
}

func (a *app) wire(apiURL string) error {
	if a.wired {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.OverrideAPIURL(apiURL)

	secretStore, err := newSecretStore(cfg)
	if err != nil {
		return fmt.Errorf("wire secret store: %w", err)
	}
	sessionStore := application.NewSessionStore(secretStore)

	remote, err := httpapi.NewClient(cfg.APIURL, &http.Client{Timeout: 30 * time.Second}, sessionStore)
	if err != nil {
		return fmt.Errorf("wire remote service client: %w", err)
	}

	history, err := tomlrepo.NewHistoryRepository(cfg.Viper())
	if err != nil {
		return fmt.Errorf("wire history repository: %w", err)
	}

	// The snapshot log is a nice-to-have; the CLI works without it.
	var snapshots ports.SnapshotLog
	snapshotLog, err := sqlitelog.Open(cfg.Viper())
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.SnapshotsPath).Msg("pool snapshot log unavailable")
	} else {
		snapshots = snapshotLog
	}

	a.cfg = cfg
	a.remote = remote
	a.history = history
	a.snapshots = snapshotLog
	a.session = application.NewSessionService(remote, sessionStore)
	a.dashboard = application.NewDashboard(remote, history, snapshots, ports.SystemClock{}, cfg.PollInterval)
	a.renderer = dashboardrender.Render
	a.openFile = localfile.Open
	a.now = time.Now
	a.wired = true

	log.Debug().
		Str("api_url", cfg.APIURL).
		Dur("poll_interval", cfg.PollInterval).
		Str("config_dir", cfg.Dir).
		Msg("wired app")

	return nil
}

func newSecretStore(cfg *config.Config) (ports.SecretStore, error) {
	if cfg.SecretsStore == config.SecretsBackendFile {
		return filestore.NewStore(cfg.SecretsDir), nil
	}

	return chainstore.NewPassFirstWithFileFallback(cfg.SecretsDir, passstore.WithStoreDir(cfg.PassDir))
}

func (a *app) renderOptions() dashboardrender.RenderOptions {
	return dashboardrender.RenderOptions{Now: a.now(), MaxTasks: maxRenderedTasks}
}

// close releases the snapshot database. Safe to call more than once.
func (a *app) close() error {
	if a.snapshots == nil {
		return nil
	}

	err := a.snapshots.Close()
	a.snapshots = nil
	return err
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
