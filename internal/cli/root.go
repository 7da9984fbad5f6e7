package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fxtracker/internal/config"
	"fxtracker/internal/engine"
	"fxtracker/internal/logging"
	"fxtracker/internal/notify"
	"fxtracker/internal/service"
	"fxtracker/internal/store"
	"fxtracker/internal/stream"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.DataStore
	Engine  *engine.Engine
	Hub     *stream.Hub
	Tracker *service.Tracker
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some features may be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Database.Path).Msg("SQLite store initialized")
	}

	app.Engine = engine.New(engineConfig(cfg), logger)
	app.Hub = stream.NewHub()

	notifier := notify.NewMultiNotifier(&cfg.Notifications)
	if cfg.Notifications.Enabled {
		notifier.AddChannel(notify.NewTerminalNotifier(cfg.UI.ColorEnabled))
	}

	if app.Store != nil {
		app.Tracker = service.New(app.Store, app.Engine, app.Hub, notifier, logger)
	}

	rootCmd := &cobra.Command{
		Use:   "fxtracker",
		Short: "FX Tracker - capital growth planning for forex accounts",
		Long: `FX Tracker maintains a capital-growth plan for a forex trading account.

Given a starting balance, a profit target and a time horizon it derives the
required compounding return, turns it into per-trade risk and lot-size
recommendations, and adapts the plan as settled trades arrive.

Use 'fxtracker help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Handle debug flag
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/fxtracker)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd(app))
	rootCmd.AddCommand(newAccountCmd(app))
	rootCmd.AddCommand(newTradeCmd(app))
	rootCmd.AddCommand(newPlanCmd(app))

	return rootCmd
}

// engineConfig overlays config-file risk overrides on the default
// engine configuration. Zero values keep the defaults.
func engineConfig(cfg *config.Config) engine.Config {
	ec := engine.DefaultConfig()
	r := cfg.Risk
	if r.MinRiskReward > 0 {
		ec.Policy.MinRiskReward = r.MinRiskReward
	}
	if r.MaxDailyRisk > 0 {
		ec.Policy.MaxDailyRisk = r.MaxDailyRisk
	}
	if r.MaxTradeRisk > 0 {
		ec.Policy.MaxTradeRisk = r.MaxTradeRisk
	}
	if r.MinTradeRisk > 0 {
		ec.Policy.MinTradeRisk = r.MinTradeRisk
	}
	if r.KellyFraction > 0 {
		ec.Policy.KellyFraction = r.KellyFraction
	}
	if r.DefaultStopPips > 0 {
		ec.Policy.DefaultStopPips = r.DefaultStopPips
	}
	if r.FallbackPipValue > 0 {
		ec.Policy.FallbackPipValue = r.FallbackPipValue
	}
	return ec
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("FX Tracker v%s\n", Version)
			}
		},
	}
}

// requireTracker returns the tracker or an error message for commands
// that need the store.
func requireTracker(app *App, output *Output) *service.Tracker {
	if app.Tracker == nil {
		output.Error("store unavailable, check the database path in config.toml")
		return nil
	}
	return app.Tracker
}
