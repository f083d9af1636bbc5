package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Board      BoardConfig      `toml:"board"`
	Whiteboard WhiteboardConfig `toml:"whiteboard"`
	Palette    PaletteConfig    `toml:"palette"`
	Logging    LoggingConfig    `toml:"logging"`
	Activity   ActivityConfig   `toml:"activity"`
	Keys       KeyConfig        `toml:"keys"`
}

type BoardConfig struct {
	Columns []ColumnConfig `toml:"columns"`
}

type ColumnConfig struct {
	ID    string `toml:"id"`
	Title string `toml:"title"`
}

type WhiteboardConfig struct {
	Enabled      bool   `toml:"enabled"`
	WidthPercent int    `toml:"width_percent"`
	Brush        string `toml:"brush"`
}

// PaletteConfig holds hex colors for task markers and chrome.
type PaletteConfig struct {
	Green  string `toml:"green"`
	Red    string `toml:"red"`
	Blue   string `toml:"blue"`
	Accent string `toml:"accent"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

// DevFileConfig controls the logfmt file sink used in dev mode. An empty
// Dir means the platform log directory.
type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type ActivityConfig struct {
	MaxEntries int `toml:"max_entries"`
}

type KeyConfig struct {
	PickUpTask       string `toml:"pick_up_task"`
	PickUpColumn     string `toml:"pick_up_column"`
	ToggleWhiteboard string `toml:"toggle_whiteboard"`
	ActivityLog      string `toml:"activity_log"`
}

var (
	hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	logLevels       = []string{"debug", "info", "warn", "error", "fatal"}
)

func defaultColumns() []ColumnConfig {
	return []ColumnConfig{
		{ID: "projects", Title: "Projects"},
		{ID: "assignments", Title: "Assignments"},
		{ID: "tests-quizzes", Title: "Tests / Quizzes"},
		{ID: "other", Title: "Other"},
	}
}

func Default(logDir string) Config {
	return Config{
		Board: BoardConfig{
			Columns: defaultColumns(),
		},
		Whiteboard: WhiteboardConfig{
			Enabled:      true,
			WidthPercent: 40,
			Brush:        "█",
		},
		Palette: PaletteConfig{
			Green:  "#22c55e",
			Red:    "#ef4444",
			Blue:   "#3b82f6",
			Accent: "#881337",
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     logDir,
			},
		},
		Activity: ActivityConfig{
			MaxEntries: 200,
		},
		Keys: KeyConfig{
			PickUpTask:       "m",
			PickUpColumn:     "M",
			ToggleWhiteboard: "w",
			ActivityLog:      "g",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	// Column tables replace the defaults instead of appending to them.
	cfg.Board.Columns = nil
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	if len(cfg.Board.Columns) == 0 {
		cfg.Board.Columns = slices.Clone(defaults.Board.Columns)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.Board.Columns) == 0 {
		return errors.New("board.columns must include at least one column")
	}
	seenColumnID := map[string]struct{}{}
	for idx, column := range c.Board.Columns {
		id := strings.TrimSpace(strings.ToLower(column.ID))
		if id == "" {
			return fmt.Errorf("board.columns[%d].id is required", idx)
		}
		if strings.TrimSpace(column.Title) == "" {
			return fmt.Errorf("board.columns[%d].title is required", idx)
		}
		if _, ok := seenColumnID[id]; ok {
			return fmt.Errorf("board.columns[%d].id is duplicated: %s", idx, id)
		}
		seenColumnID[id] = struct{}{}
	}

	if c.Whiteboard.WidthPercent < 10 || c.Whiteboard.WidthPercent > 90 {
		return fmt.Errorf("whiteboard.width_percent must be between 10 and 90, got %d", c.Whiteboard.WidthPercent)
	}
	if n := len([]rune(c.Whiteboard.Brush)); n > 1 {
		return fmt.Errorf("whiteboard.brush must be a single character, got %q", c.Whiteboard.Brush)
	}

	for name, value := range map[string]string{
		"green":  c.Palette.Green,
		"red":    c.Palette.Red,
		"blue":   c.Palette.Blue,
		"accent": c.Palette.Accent,
	} {
		if !hexColorPattern.MatchString(strings.TrimSpace(value)) {
			return fmt.Errorf("palette.%s must be a #rrggbb color, got %q", name, value)
		}
	}

	if !slices.Contains(logLevels, strings.TrimSpace(strings.ToLower(c.Logging.Level))) {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	if c.Activity.MaxEntries < 1 {
		return fmt.Errorf("activity.max_entries must be >= 1, got %d", c.Activity.MaxEntries)
	}

	keys := map[string]string{}
	for name, value := range map[string]string{
		"pick_up_task":      c.Keys.PickUpTask,
		"pick_up_column":    c.Keys.PickUpColumn,
		"toggle_whiteboard": c.Keys.ToggleWhiteboard,
		"activity_log":      c.Keys.ActivityLog,
	} {
		value = strings.TrimSpace(value)
		if value == "" {
			return fmt.Errorf("keys.%s is required", name)
		}
		if other, ok := keys[value]; ok {
			return fmt.Errorf("keys.%s conflicts with keys.%s: %q", name, other, value)
		}
		keys[value] = name
	}

	return nil
}

// ErrConfigExists is returned by Write when the file is already present.
var ErrConfigExists = errors.New("config file already exists")

// Write encodes cfg as TOML at path, creating parent directories. An
// existing file is only replaced when overwrite is set.
func Write(path string, cfg Config, overwrite bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	encoded, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
