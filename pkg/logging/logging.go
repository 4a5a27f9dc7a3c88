// Package logging configures the process-wide logrus logger from the
// logging section of the rules file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timestampPlaceholder = "{timestamp}"

// Setup applies the logging rules to the standard logrus logger. levelOverride
// takes precedence over the rules file when non-empty.
func Setup(rules *config.LoggingRules, levelOverride string) error {
	level := rules.Level
	if levelOverride != "" {
		level = levelOverride
	}
	if level != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(level))
		if err != nil {
			return fmt.Errorf("error parsing log level %q: %w", level, err)
		}
		logrus.SetLevel(parsed)
	}

	if !rules.Enabled || rules.File == "" {
		return nil
	}

	logFile := ExpandTimestamp(rules.File)
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return fmt.Errorf("error creating log directory: %w", err)
	}

	rotating := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    rules.MaxSizeMB,
		MaxBackups: rules.BackupCount,
	}

	var out io.Writer = rotating
	if rules.ConsoleEnabled() {
		out = io.MultiWriter(rotating, os.Stdout)
	}
	logrus.SetOutput(out)
	logrus.Infof("logging configured: level %s, file %s", logrus.GetLevel(), logFile)

	return nil
}

// ExpandTimestamp replaces every {timestamp} placeholder in the file name
// with the current local time.
func ExpandTimestamp(path string) string {
	if !strings.Contains(path, timestampPlaceholder) {
		return path
	}
	return strings.ReplaceAll(path, timestampPlaceholder, time.Now().Format("20060102-150405"))
}

// ForDevice returns a log entry tagged with the device identity. All
// per-device log lines go through this so the fields stay uniform.
func ForDevice(name, host string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"device": name,
		"host":   host,
	})
}
