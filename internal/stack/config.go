package stack

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Hosting backends
const (
	BackendGH  = "gh"
	BackendAPI = "api"
)

// DefaultReopenComment is left on a pull request that sync reopens
const DefaultReopenComment = "Reopened by stack-pr: this commit is still part of the local stack."

// Environment variables that override the repository config
const (
	EnvRemote  = "STACK_PR_REMOTE"
	EnvTrunk   = "STACK_PR_TRUNK"
	EnvBackend = "STACK_PR_BACKEND"
	EnvDebug   = "STACK_PR_DEBUG"
)

// Config is the repository-level stack-pr configuration, stored in
// .git/stack-pr/config.json
type Config struct {
	Remote        string `json:"remote,omitempty"`         // Remote to push to (default: first remote)
	Trunk         string `json:"trunk,omitempty"`          // Trunk branch (default: hosting default branch)
	Backend       string `json:"backend,omitempty"`        // "gh" or "api"
	Debug         bool   `json:"debug,omitempty"`          // Write the debug log
	ReopenComment string `json:"reopen_comment,omitempty"` // Comment left when reopening a PR
}

// ConfigPath returns the path of the config file inside the stack-pr directory
func ConfigPath(stackDir string) string {
	return filepath.Join(stackDir, "config.json")
}

// LoadConfig loads the repository configuration.
// Returns a default config if the file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	config := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config.withDefaults(), nil
		}
		return nil, fmt.Errorf("failed to read repository config: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse repository config %s: %w", path, err)
	}
	return config.withDefaults(), nil
}

// ApplyEnv overrides fields from STACK_PR_* environment variables
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvRemote); v != "" {
		c.Remote = v
	}
	if v := getenv(EnvTrunk); v != "" {
		c.Trunk = v
	}
	if v := getenv(EnvBackend); v != "" {
		c.Backend = v
	}
	if v := getenv(EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvDebug, v, err)
		}
		c.Debug = debug
	}
	return c.Validate()
}

// Validate checks that the config holds supported values
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendGH, BackendAPI:
		return nil
	default:
		return fmt.Errorf("unknown backend %q (expected %q or %q)", c.Backend, BackendGH, BackendAPI)
	}
}

// Environ exports the config for rebase-exec children
func (c *Config) Environ() []string {
	env := []string{
		EnvBackend + "=" + c.Backend,
		EnvDebug + "=" + strconv.FormatBool(c.Debug),
	}
	if c.Remote != "" {
		env = append(env, EnvRemote+"="+c.Remote)
	}
	if c.Trunk != "" {
		env = append(env, EnvTrunk+"="+c.Trunk)
	}
	return env
}

func (c *Config) withDefaults() *Config {
	if c.Backend == "" {
		c.Backend = BackendGH
	}
	if c.ReopenComment == "" {
		c.ReopenComment = DefaultReopenComment
	}
	return c
}
