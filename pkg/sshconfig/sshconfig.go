package sshconfig

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Host is one usable host record assembled from ~/.ssh/config.
type Host struct {
	Alias        string // the Host pattern this record was declared under
	Hostname     string // empty means "use the alias as hostname"
	User         string
	Port         int // 0 means unset (default 22 at connect time)
	IdentityFile string
}

// Addr returns the hostname to dial, falling back to the alias when no
// HostName directive was given.
func (h *Host) Addr() string {
	if h.Hostname != "" {
		return h.Hostname
	}
	return h.Alias
}

// EffectivePort returns the port to dial.
func (h *Host) EffectivePort() int {
	if h.Port > 0 {
		return h.Port
	}
	return 22
}

func (h *Host) String() string {
	if h.User != "" {
		return fmt.Sprintf("%s (%s@%s:%d)", h.Alias, h.User, h.Addr(), h.EffectivePort())
	}
	return fmt.Sprintf("%s (%s:%d)", h.Alias, h.Addr(), h.EffectivePort())
}

// Config holds every host record from an ssh config file, in file order.
type Config struct {
	hosts []Host
}

// Load reads ~/.ssh/config. A missing file yields an empty config, not
// an error.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot find home directory: %w", err)
	}
	return LoadFile(filepath.Join(home, ".ssh", "config"))
}

// LoadFile parses the ssh config at path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to open ssh config: %w", err)
	}
	defer f.Close()

	cfg := &Config{}
	if err := cfg.parse(f); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) parse(f *os.File) error {
	var patterns []string
	var current Host

	flush := func() {
		// One Host line may carry several patterns; each becomes its
		// own record with the shared directives.
		for _, p := range patterns {
			h := current
			h.Alias = p
			c.hosts = append(c.hosts, h)
		}
		patterns = nil
		current = Host{}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		key := strings.ToLower(fields[0])
		value := strings.Join(fields[1:], " ")

		switch key {
		case "host":
			flush()
			patterns = fields[1:]
		case "hostname":
			current.Hostname = value
		case "user":
			current.User = value
		case "port":
			if port, err := strconv.Atoi(value); err == nil {
				current.Port = port
			}
		case "identityfile":
			current.IdentityFile = expandTilde(value)
		}
	}
	flush()

	return scanner.Err()
}

// Lookup finds the record for name, first match wins (ssh semantics).
func (c *Config) Lookup(name string) (Host, bool) {
	for _, h := range c.hosts {
		if patternMatches(h.Alias, name) {
			return h, true
		}
	}
	return Host{}, false
}

// Hosts returns the concrete records, excluding wildcard patterns —
// those are defaults, not connectable entries.
func (c *Config) Hosts() []Host {
	out := make([]Host, 0, len(c.hosts))
	for _, h := range c.hosts {
		if strings.ContainsAny(h.Alias, "*?") {
			continue
		}
		out = append(out, h)
	}
	return out
}

// patternMatches implements ssh Host pattern matching: literal match,
// '*' and '?' wildcards, and '!' negation.
func patternMatches(pattern, name string) bool {
	negated := strings.HasPrefix(pattern, "!")
	if negated {
		pattern = pattern[1:]
	}

	var matched bool
	if !strings.ContainsAny(pattern, "*?") {
		matched = pattern == name
	} else {
		expr := regexp.QuoteMeta(pattern)
		expr = strings.ReplaceAll(expr, `\*`, ".*")
		expr = strings.ReplaceAll(expr, `\?`, ".")
		re, err := regexp.Compile("^" + expr + "$")
		if err != nil {
			return false
		}
		matched = re.MatchString(name)
	}

	if negated {
		return !matched
	}
	return matched
}

func expandTilde(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
