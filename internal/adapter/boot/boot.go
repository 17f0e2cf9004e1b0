// Package boot registers the login hook that re-arms reminders after a
// reboot, when every registered alarm has been lost.
package boot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
	"go.uber.org/zap"

	"moodtrack/internal/logging"
)

// Hook manages the autostart entry.
type Hook struct {
	app *autostart.App
	log *zap.Logger
}

// RearmCommand returns the command line the hook runs at login.
func RearmCommand(execPath, configPath string) []string {
	cmd := []string{execPath, "rearm"}
	if configPath != "" {
		cmd = append(cmd, "--config", configPath)
	}
	return cmd
}

// NewHook builds a hook that runs this executable's rearm command with
// configPath. Relative config paths are made absolute since login sessions
// start in the home directory.
func NewHook(configPath string, log *zap.Logger) (*Hook, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}
	if configPath != "" {
		if configPath, err = filepath.Abs(configPath); err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
	}
	return &Hook{
		app: &autostart.App{
			Name:        "moodtrack-rearm",
			DisplayName: "moodtrack reminder re-arm",
			Exec:        RearmCommand(execPath, configPath),
		},
		log: logging.OrNop(log),
	}, nil
}

// Exec returns the registered command line.
func (h *Hook) Exec() []string { return h.app.Exec }

// Enabled reports whether the hook is installed.
func (h *Hook) Enabled() bool { return h.app.IsEnabled() }

// Set installs or removes the hook. It is a no-op when already in the
// requested state.
func (h *Hook) Set(enable bool) error {
	switch {
	case enable && !h.app.IsEnabled():
		if err := h.app.Enable(); err != nil {
			return fmt.Errorf("enable autostart: %w", err)
		}
		h.log.Info("autostart enabled", zap.Strings("exec", h.app.Exec))
	case !enable && h.app.IsEnabled():
		if err := h.app.Disable(); err != nil {
			return fmt.Errorf("disable autostart: %w", err)
		}
		h.log.Info("autostart disabled")
	}
	return nil
}
