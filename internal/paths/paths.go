// Package paths resolves the store location and the configuration
// directory. The home directory is read here and nowhere else.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mesh-intelligence/tinymark/pkg/types"
)

// AppName names the per-user directories.
const AppName = "tinymark"

// Environment variable names.
const (
	EnvHome      = "HOME"
	EnvConfigDir = "TINYMARK_CONFIG_DIR"
)

// storeDirName is the final element of the default store path.
const storeDirName = "database"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	lookupEnv     func(string) (string, bool)
	userConfigDir func() (string, error)
}{
	lookupEnv:     os.LookupEnv,
	userConfigDir: os.UserConfigDir,
}

// EnvironmentError reports a required environment variable that is unset.
// It matches types.ErrConfig.
type EnvironmentError struct {
	Var string
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("environment variable %s is not set", e.Var)
}

// Is makes EnvironmentError match types.ErrConfig.
func (e *EnvironmentError) Is(target error) bool {
	return target == types.ErrConfig
}

// home returns $HOME or an EnvironmentError.
func home() (string, error) {
	dir, ok := platformDir.lookupEnv(EnvHome)
	if !ok || dir == "" {
		return "", &EnvironmentError{Var: EnvHome}
	}
	return dir, nil
}

// DefaultStorePath returns $HOME/.local/share/tinymark/database.
func DefaultStorePath() (string, error) {
	dir, err := home()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".local", "share", AppName, storeDirName), nil
}

// ResolveStorePath returns override verbatim when it is non-empty, and the
// default store path otherwise. It is called before every store open.
func ResolveStorePath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return DefaultStorePath()
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/tinymark (fallback ~/.config/tinymark)
// macOS:   ~/Library/Application Support/tinymark
// Windows: %APPDATA%/tinymark
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg, ok := platformDir.lookupEnv("XDG_CONFIG_HOME"); ok && xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		dir, err := home()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, ".config", AppName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", fmt.Errorf("%w: %v", types.ErrConfig, err)
		}
		return filepath.Join(dir, AppName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > TINYMARK_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env, ok := platformDir.lookupEnv(EnvConfigDir); ok && env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}
