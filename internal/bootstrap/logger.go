package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/osse101/IdleGarden_Go/internal/config"
	"github.com/osse101/IdleGarden_Go/internal/logger"
)

// SetupLogger installs the default logger. With LogDir set, output is copied to a
// timestamped file in that directory and the caller must close the returned file;
// otherwise the file is nil and logs go to stdout only.
func SetupLogger(cfg *config.Config) (*os.File, error) {
	logCfg := logger.NewConfig(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName, cfg.Version, cfg.Environment, cfg.IsDevelopment())

	if cfg.LogDir == "" {
		logger.InitLogger(logCfg)
		logStartup(cfg, logCfg)
		return nil, nil
	}

	if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateLogDir, err)
	}
	cleanupLogs(cfg.LogDir, LogFileMaxKept)

	name := filepath.Join(cfg.LogDir, LogFilePrefix+time.Now().Format(LogFileTimeLayout)+LogFileSuffix)
	logFile, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenLogFile, err)
	}

	logger.InitLoggerWithWriter(logCfg, io.MultiWriter(os.Stdout, logFile))
	logStartup(cfg, logCfg)
	return logFile, nil
}

func logStartup(cfg *config.Config, logCfg logger.Config) {
	slog.Info(LogMsgLoggingInitialized, "level", logCfg.LogLevel(), "log_dir", cfg.LogDir)
	slog.Info(LogMsgStarting,
		"environment", cfg.Environment,
		"log_format", cfg.LogFormat,
		"version", cfg.Version)
	slog.Debug(LogMsgConfigurationLoaded,
		"store_driver", cfg.StoreDriver,
		"port", cfg.Port,
		"tick_interval", cfg.TickInterval,
		"save_debounce", cfg.SaveDebounce)
}

// cleanupLogs deletes the oldest log files so that at most keep remain before
// a new one is created. Names carry a sortable timestamp.
func cleanupLogs(logDir string, keep int) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), LogFileSuffix) {
			names = append(names, entry.Name())
		}
	}
	if len(names) <= keep {
		return
	}
	sort.Strings(names)

	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(logDir, name)); err != nil {
			slog.Warn(LogMsgOldLogRemoveFailed, "file", name, "error", err)
		}
	}
}
