package cli

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/PAPAMICA/wallix-ssh/internal/bastion"
	"github.com/PAPAMICA/wallix-ssh/internal/cache"
	"github.com/PAPAMICA/wallix-ssh/internal/config"
	"github.com/PAPAMICA/wallix-ssh/internal/history"
	"github.com/PAPAMICA/wallix-ssh/internal/inventory"
	"github.com/PAPAMICA/wallix-ssh/internal/launcher"
	"github.com/PAPAMICA/wallix-ssh/internal/models"
)

// App wires the components for one command invocation. Everything is built
// from the explicit config struct; commands share one instance through the
// root command's PersistentPreRunE.
type App struct {
	Config   *config.Config
	Client   *bastion.Client
	Manager  *inventory.Manager
	Launcher *launcher.Launcher
	Logger   *slog.Logger
}

func newApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	client := bastion.NewClient(cfg, logger)
	store := cache.NewStore(cfg.CacheFile, cfg.CacheMaxAge)
	ledger := history.NewLedger(cfg.HistoryFile, cfg.HistoryLimit)

	return &App{
		Config:   cfg,
		Client:   client,
		Manager:  inventory.NewManager(store, ledger, client, logger),
		Launcher: launcher.New(cfg.Username, client.BastionHost(), cfg.DeployFiles, logger),
		Logger:   logger,
	}, nil
}

// ensureAuth validates the remote configuration and authenticates, prompting
// for the password (without echo) when it is not configured. Cache-only
// commands never call this.
func (a *App) ensureAuth() error {
	if err := a.Config.Validate(); err != nil {
		return err
	}
	if a.Config.Password == "" {
		fmt.Fprint(os.Stderr, "Wallix password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		a.Config.Password = string(raw)
		a.Client.SetPassword(string(raw))
	}
	return a.Client.Authenticate()
}

// connect launches the session and records the attempt outcome. The history
// write is best-effort and cannot fail the session.
func (a *App) connect(m models.Machine, opts launcher.Options) error {
	mode := models.ModeStandard
	if opts.Interactive {
		mode = models.ModeInteractive
	}
	err := a.Launcher.Launch(m, opts)
	a.Manager.ConnectionAttempted(m.Name, m.Host, mode, err == nil)
	return err
}
