package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	charmLog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/hylla/flowboard/internal/app"
	"github.com/hylla/flowboard/internal/config"
	"github.com/hylla/flowboard/internal/domain"
	"github.com/hylla/flowboard/internal/platform"
	"github.com/hylla/flowboard/internal/replay"
	"github.com/hylla/flowboard/internal/tui"
	"github.com/hylla/flowboard/internal/whiteboard"
	"github.com/spf13/cobra"
)

var version = "dev"

type program interface {
	Run() (tea.Model, error)
}

var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

func main() {
	// fang prints the error.
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree against args.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

// rootOptions holds the global flags shared by every command.
type rootOptions struct {
	configPath string
	appName    string
	devMode    bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("FLOWBOARD_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	defaultApp := "flowboard"
	if envApp := strings.TrimSpace(os.Getenv("FLOWBOARD_APP_NAME")); envApp != "" {
		defaultApp = envApp
	}

	root := &cobra.Command{
		Use:   "flowboard",
		Short: "Flow Board - a terminal kanban board with a whiteboard",
		Long: `Flow Board is an in-memory kanban board for the terminal. Tasks and
columns are rearranged by dragging with the mouse or keyboard, and a
freeform whiteboard sits next to the columns for quick sketches.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBoard(opts, stderr)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.appName, "app", defaultApp, "application name for config/log path resolution")
	flags.BoolVar(&opts.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newPathsCommand(opts, stdout),
		newInitCommand(opts, stdout),
		newReplayCommand(opts, stdout, stderr),
	)
	return root
}

func newPathsCommand(opts *rootOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and log locations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			paths, err := opts.paths()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(stdout, "config: %s\n", opts.resolveConfigPath(paths))
			_, _ = fmt.Fprintf(stdout, "log_dir: %s\n", paths.LogDir)
			return nil
		},
	}
}

func newInitCommand(opts *rootOptions, stdout io.Writer) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			paths, err := opts.paths()
			if err != nil {
				return err
			}
			configPath := opts.resolveConfigPath(paths)
			if err := config.Write(configPath, config.Default(paths.LogDir), force); err != nil {
				return fmt.Errorf("write config %q: %w", configPath, err)
			}
			_, _ = fmt.Fprintf(stdout, "wrote %s\n", configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func newReplayCommand(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	var (
		scriptPath string
		format     string
	)
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Apply a script of board events and print the resulting board",
		Long: `Replay reads a JSON or YAML script of board events, applies each step to
a fresh board and prints the result. Rejected steps are logged as warnings
and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReplay(cmd.Context(), opts, scriptPath, format, stdout, stderr)
		},
	}
	cmd.Flags().StringVar(&scriptPath, "script", "", "replay script (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&format, "format", string(replay.OutputText), "output format: text, json or yaml")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

// paths resolves per-user locations for the selected app name and mode.
func (o *rootOptions) paths() (platform.Paths, error) {
	return platform.DefaultPathsWithOptions(platform.Options{
		AppName: o.appName,
		DevMode: o.devMode,
	})
}

// resolveConfigPath prefers --config, then FLOWBOARD_CONFIG, then the platform default.
func (o *rootOptions) resolveConfigPath(paths platform.Paths) string {
	if p := strings.TrimSpace(o.configPath); p != "" {
		return p
	}
	if envPath := strings.TrimSpace(os.Getenv("FLOWBOARD_CONFIG")); envPath != "" {
		return envPath
	}
	return paths.ConfigPath
}

// runtimeEnv is the resolved state every board-driving command starts from.
type runtimeEnv struct {
	cfg    config.Config
	logger *runtimeLogger
}

// setupRuntime resolves paths, loads config and opens the log sinks. With
// muteConsole set, runtime logs only reach the dev-file sink.
func setupRuntime(opts *rootOptions, command string, muteConsole bool, stderr io.Writer) (*runtimeEnv, error) {
	paths, err := opts.paths()
	if err != nil {
		return nil, err
	}
	configPath := opts.resolveConfigPath(paths)
	cfg, err := config.Load(configPath, config.Default(paths.LogDir))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}

	logger, err := newRuntimeLogger(stderr, opts.appName, paths.LogDir, opts.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if muteConsole {
		logger.SetConsoleEnabled(false)
	}
	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "log_dir", paths.LogDir)
	logger.Info("configuration loaded", "config_path", configPath, "log_level", cfg.Logging.Level, "columns", len(cfg.Board.Columns))
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}
	return &runtimeEnv{cfg: cfg, logger: logger}, nil
}

// close releases the dev-file sink, warning on the console only when it is live.
func (e *runtimeEnv) close(stderr io.Writer) {
	if closeErr := e.logger.Close(); closeErr != nil && e.logger.shouldLogToSink(e.logger.consoleSink) {
		_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
	}
}

// newBoardService builds the in-memory board from config. Accepted mutations
// are traced at debug level.
func newBoardService(cfg config.Config, logger *runtimeLogger) *app.Service {
	templates := make([]app.ColumnTemplate, 0, len(cfg.Board.Columns))
	for _, column := range cfg.Board.Columns {
		templates = append(templates, app.ColumnTemplate{ID: column.ID, Title: column.Title})
	}
	return app.NewService(uuid.NewString, time.Now, app.ServiceConfig{
		ColumnTemplates: templates,
		MaxChangeEvents: cfg.Activity.MaxEntries,
		Observer: app.ObserverFunc(func(board domain.Board, event domain.ChangeEvent) {
			logger.Debug("board mutation published",
				"operation", event.Operation,
				"column_id", event.ColumnID,
				"task_id", event.TaskID,
				"columns", len(board.Columns),
			)
		}),
	})
}

// runBoard runs the interactive TUI.
func runBoard(opts *rootOptions, stderr io.Writer) error {
	// Runtime logs stay in the dev-file sink while the board is on screen.
	env, err := setupRuntime(opts, "tui", true, stderr)
	if err != nil {
		return err
	}
	logger := env.logger
	defer env.close(stderr)

	svc := newBoardService(env.cfg, logger)
	logger.Debug("application service initialized", "max_change_events", env.cfg.Activity.MaxEntries)

	logger.Info("command flow start", "command", "tui")
	m := tui.NewModel(svc, tuiOptions(env.cfg)...)
	logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("command flow complete", "command", "tui")
	return nil
}

// tuiOptions maps config values onto model options.
func tuiOptions(cfg config.Config) []tui.Option {
	opts := []tui.Option{
		tui.WithPalette(tui.Palette{
			Green:  cfg.Palette.Green,
			Red:    cfg.Palette.Red,
			Blue:   cfg.Palette.Blue,
			Accent: cfg.Palette.Accent,
		}),
		tui.WithKeyConfig(tui.KeyConfig{
			PickUpTask:       cfg.Keys.PickUpTask,
			PickUpColumn:     cfg.Keys.PickUpColumn,
			ToggleWhiteboard: cfg.Keys.ToggleWhiteboard,
			ActivityLog:      cfg.Keys.ActivityLog,
		}),
		tui.WithActivityLimit(cfg.Activity.MaxEntries),
	}
	if cfg.Whiteboard.Enabled {
		canvas := whiteboard.NewCanvas(
			whiteboard.WithBrush(brushRune(cfg.Whiteboard.Brush)),
			whiteboard.WithInkStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Palette.Accent))),
		)
		opts = append(opts, tui.WithWhiteboard(canvas, cfg.Whiteboard.WidthPercent))
	}
	return opts
}

// brushRune returns the first rune of raw, or 0 to keep the canvas default.
func brushRune(raw string) rune {
	for _, r := range raw {
		return r
	}
	return 0
}

// runReplay applies a script to a fresh board and prints the result.
func runReplay(ctx context.Context, opts *rootOptions, scriptPath, rawFormat string, stdout, stderr io.Writer) error {
	format, err := replay.ParseOutputFormat(rawFormat)
	if err != nil {
		return err
	}
	env, err := setupRuntime(opts, "replay", false, stderr)
	if err != nil {
		return err
	}
	logger := env.logger
	defer env.close(stderr)

	// Step warnings from the runner go through the configured console sink.
	prev := charmLog.Default()
	charmLog.SetDefault(logger.consoleSink)
	defer charmLog.SetDefault(prev)

	logger.Info("command flow start", "command", "replay", "script", scriptPath)
	script, err := replay.LoadFile(scriptPath)
	if err != nil {
		logger.Error("command flow failed", "command", "replay", "err", err)
		return fmt.Errorf("load replay script: %w", err)
	}
	res, err := replay.Run(ctx, newBoardService(env.cfg, logger), script)
	if err != nil {
		logger.Error("command flow failed", "command", "replay", "err", err)
		return fmt.Errorf("run replay: %w", err)
	}
	if err := replay.Render(stdout, res, format); err != nil {
		return fmt.Errorf("render board: %w", err)
	}
	logger.Info("command flow complete", "command", "replay", "applied", res.Applied, "warnings", len(res.Warnings))
	return nil
}

// parseBoolEnv reads a boolean env var; ok is false when unset or malformed.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
