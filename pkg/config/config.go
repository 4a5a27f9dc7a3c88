package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

const rulesFileEnv = "EVPN_AUDITOR_RULES"

const (
	// DefaultMaxConcurrentDevices bounds the fleet dispatch when the rules
	// file does not say otherwise.
	DefaultMaxConcurrentDevices = 10

	defaultConnectionTimeout  = 30
	defaultReachabilityProbes = 3
)

// Rules holds the operational policy for a fleet run. All sections are
// optional in the file, missing values degrade to defaults.
type Rules struct {
	Logging      LoggingRules      `yaml:"logging"`
	Performance  PerformanceRules  `yaml:"performance"`
	Reachability ReachabilityRules `yaml:"reachability"`
}

type LoggingRules struct {
	Enabled     bool   `yaml:"enabled"`
	Level       string `yaml:"level"`
	File        string `yaml:"file"`
	MaxSizeMB   int    `yaml:"max_size_mb"`
	BackupCount int    `yaml:"backup_count"`
	Console     *bool  `yaml:"console"`
}

type PerformanceRules struct {
	MaxConcurrentDevices int `yaml:"max_concurrent_devices"`
	// ConnectionTimeout is in seconds and overrides the per-host timeout
	// from the inventory when set.
	ConnectionTimeout int `yaml:"connection_timeout"`
}

type ReachabilityRules struct {
	Enabled bool   `yaml:"enabled"`
	Timeout string `yaml:"timeout"`
	Retries int    `yaml:"retries"`
}

// LoadRules reads the rules file. The EVPN_AUDITOR_RULES env var takes
// precedence over the path argument.
func LoadRules(path string) (*Rules, error) {
	rules := &Rules{}

	rulesFile := path
	if val := os.Getenv(rulesFileEnv); val != "" {
		rulesFile = val
	}

	read, err := os.ReadFile(filepath.Clean(rulesFile))
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}
	if err := yaml.Unmarshal(read, rules); err != nil {
		return nil, fmt.Errorf("error unmarshalling rules file: %w", err)
	}

	return rules, nil
}

// MaxConcurrent returns the concurrency bound for the fleet dispatch.
func (r *Rules) MaxConcurrent() int {
	if r.Performance.MaxConcurrentDevices <= 0 {
		return DefaultMaxConcurrentDevices
	}
	return r.Performance.MaxConcurrentDevices
}

// ConnectionTimeout returns the session timeout, falling back to the
// provided per-host value when the rules file does not set one.
func (r *Rules) ConnectionTimeout(fallback time.Duration) time.Duration {
	if r.Performance.ConnectionTimeout <= 0 {
		if fallback > 0 {
			return fallback
		}
		return defaultConnectionTimeout * time.Second
	}
	return time.Duration(r.Performance.ConnectionTimeout) * time.Second
}

// ConsoleEnabled defaults to true when the rules file is silent.
func (l *LoggingRules) ConsoleEnabled() bool {
	if l.Console == nil {
		return true
	}
	return *l.Console
}

// ProbeRetries returns the reachability retry count.
func (r *ReachabilityRules) ProbeRetries() int {
	if r.Retries <= 0 {
		return defaultReachabilityProbes
	}
	return r.Retries
}
