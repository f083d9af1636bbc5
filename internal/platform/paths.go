package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const defaultAppName = "flowboard"

// Paths holds the per-user locations flowboard reads its config from and
// writes dev logs to. Board state lives in memory only, so there is no data dir.
type Paths struct {
	ConfigPath string
	LogDir     string
}

// Options selects the app directory name.
type Options struct {
	AppName string
	DevMode bool
}

// Env is the subset of the process environment used to place files.
type Env struct {
	Home          string
	ConfigHome    string
	StateHome     string
	AppData       string
	LocalAppData  string
	UserConfigDir string
}

// DefaultPaths returns the paths for the default app name.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{})
}

// DefaultPathsWithOptions resolves paths from the running process environment.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user home dir: %w", err)
	}
	env := Env{
		Home:          home,
		ConfigHome:    os.Getenv("XDG_CONFIG_HOME"),
		StateHome:     os.Getenv("XDG_STATE_HOME"),
		AppData:       os.Getenv("APPDATA"),
		LocalAppData:  os.Getenv("LOCALAPPDATA"),
		UserConfigDir: configDir,
	}
	return Resolve(runtime.GOOS, env, appDirName(opts))
}

func appDirName(opts Options) string {
	name := strings.TrimSpace(opts.AppName)
	if name == "" {
		name = defaultAppName
	}
	if opts.DevMode {
		name += "-dev"
	}
	return name
}

// Resolve places the config file and log dir for goos.
//
// Logs are state, not config: on Linux and other unix systems they go under
// $XDG_STATE_HOME (default ~/.local/state), on macOS under ~/Library/Logs and
// on Windows under %LOCALAPPDATA%.
func Resolve(goos string, env Env, appName string) (Paths, error) {
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return Paths{}, errors.New("empty app name")
	}
	if env.UserConfigDir == "" || env.Home == "" {
		return Paths{}, errors.New("empty base dirs")
	}

	configBase := env.UserConfigDir
	var logDir string
	switch goos {
	case "windows":
		if env.AppData != "" {
			configBase = env.AppData
		}
		stateBase := env.LocalAppData
		if stateBase == "" {
			stateBase = configBase
		}
		logDir = filepath.Join(stateBase, appName, "log")
	case "darwin":
		logDir = filepath.Join(env.Home, "Library", "Logs", appName)
	default:
		if env.ConfigHome != "" {
			configBase = env.ConfigHome
		}
		stateBase := env.StateHome
		if stateBase == "" {
			stateBase = filepath.Join(env.Home, ".local", "state")
		}
		logDir = filepath.Join(stateBase, appName, "log")
	}

	return Paths{
		ConfigPath: filepath.Join(configBase, appName, "config.toml"),
		LogDir:     logDir,
	}, nil
}
