// Package inventory loads the device fleet from the hosts file. Hosts are
// grouped, group entries inherit from the defaults section, and passwords
// can be resolved from a per-user map.
package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const (
	defaultPort    = 22
	defaultTimeout = 30
)

// Device is one fully resolved fleet member.
type Device struct {
	Host     string
	Name     string
	Username string
	Password string
	Port     int
	Timeout  time.Duration
	Tags     []string
}

// DisplayName is the name:host pair used in reports and logs.
func (d *Device) DisplayName() string {
	return d.Name + ":" + d.Host
}

type hostEntry struct {
	Host     string   `yaml:"host"`
	Name     string   `yaml:"name"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	Port     *int     `yaml:"port"`
	Timeout  *int     `yaml:"timeout"`
	Tags     []string `yaml:"tags"`
}

type hostDefaults struct {
	AdminUser    string            `yaml:"admin_user"`
	Username     string            `yaml:"username"`
	UserPassword map[string]string `yaml:"user_password"`
	Port         *int              `yaml:"port"`
	Timeout      *int              `yaml:"timeout"`
}

type hostsFile struct {
	Defaults   hostDefaults           `yaml:"defaults"`
	HostGroups map[string][]hostEntry `yaml:"host_groups"`
}

// Load reads the hosts file and resolves every group entry into a Device.
// Entries without a resolvable password are skipped with a warning, the
// rest of the fleet still loads.
func Load(path string) ([]Device, error) {
	read, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("error reading hosts file: %w", err)
	}

	if err := validate(read); err != nil {
		return nil, fmt.Errorf("hosts file %s: %w", path, err)
	}

	file := hostsFile{}
	if err := yaml.Unmarshal(read, &file); err != nil {
		return nil, fmt.Errorf("error unmarshalling hosts file: %w", err)
	}

	groups := make([]string, 0, len(file.HostGroups))
	for name := range file.HostGroups {
		groups = append(groups, name)
	}
	sort.Strings(groups)

	devices := []Device{}
	for _, group := range groups {
		for _, entry := range file.HostGroups[group] {
			device, ok := resolve(&file.Defaults, &entry)
			if !ok {
				logrus.Warnf("no password found for %s, skipping", entry.Host)
				continue
			}
			devices = append(devices, device)
		}
	}

	logrus.Infof("loaded %d devices from %s", len(devices), path)

	return devices, nil
}

func resolve(defaults *hostDefaults, entry *hostEntry) (Device, bool) {
	username := entry.Username
	if username == "" {
		username = defaults.Username
	}
	if username == "" {
		username = defaults.AdminUser
	}

	password := entry.Password
	if password == "" {
		password = defaults.UserPassword[username]
	}
	if password == "" {
		return Device{}, false
	}

	name := entry.Name
	if name == "" {
		name = entry.Host
	}

	port := defaultPort
	if defaults.Port != nil {
		port = *defaults.Port
	}
	if entry.Port != nil {
		port = *entry.Port
	}

	timeout := defaultTimeout
	if defaults.Timeout != nil {
		timeout = *defaults.Timeout
	}
	if entry.Timeout != nil {
		timeout = *entry.Timeout
	}

	return Device{
		Host:     entry.Host,
		Name:     name,
		Username: username,
		Password: password,
		Port:     port,
		Timeout:  time.Duration(timeout) * time.Second,
		Tags:     entry.Tags,
	}, true
}
