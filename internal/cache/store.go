// Package cache holds values fetched from git and the hosting platform for
// the duration of one sync, including the rebase-exec children it spawns.
package cache

import (
	"encoding/hex"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// EnvPrefix marks environment variables that carry cache entries into child
// processes
const EnvPrefix = "STACK_PR_CACHE_"

// Well-known keys
const (
	KeyLogin  = "login"
	KeyRemote = "remote"
	KeyTrunk  = "trunk"
)

// MaxEnvValue is the largest value Environ exports. Linux rejects a single
// environment string over 128 KiB; larger entries are left for the child to
// fetch again.
const MaxEnvValue = 64 << 10

// PRKey returns the cache key for the metadata of a pull request
func PRKey(url string) string {
	return "pr:" + url
}

// Store is a run-scoped key/value memo. It is not safe for concurrent use.
type Store struct {
	entries map[string]string
	logger  *slog.Logger
}

// New creates an empty store
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{entries: make(map[string]string), logger: logger}
}

// FromEnviron rebuilds a store from environment entries ("KEY=value") as
// produced by Environ. Unrelated or undecodable entries are ignored.
func FromEnviron(env []string, logger *slog.Logger) *Store {
	s := New(logger)
	for _, kv := range env {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		key, err := hex.DecodeString(strings.TrimPrefix(name, EnvPrefix))
		if err != nil || len(key) == 0 {
			continue
		}
		s.entries[string(key)] = value
	}
	return s
}

// Get returns the cached value for key
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.entries[key]
	return v, ok
}

// Set stores value under key
func (s *Store) Set(key, value string) {
	s.entries[key] = value
}

// Memo returns the cached value for key, or calls fetch and caches its result.
// Errors from fetch are returned and nothing is cached.
func (s *Store) Memo(key string, fetch func() (string, error)) (string, error) {
	if v, ok := s.entries[key]; ok {
		return v, nil
	}
	s.logger.Debug("cache miss", "key", key)
	v, err := fetch()
	if err != nil {
		return "", err
	}
	s.entries[key] = v
	return v, nil
}

// Clean invalidates key
func (s *Store) Clean(key string) {
	delete(s.entries, key)
}

// Environ exports every entry up to MaxEnvValue bytes as an environment
// variable, sorted by key
func (s *Store) Environ() []string {
	env := make([]string, 0, len(s.entries))
	for _, key := range slices.Sorted(maps.Keys(s.entries)) {
		value := s.entries[key]
		if len(value) > MaxEnvValue {
			s.logger.Debug("cache entry too large to export", "key", key, "size", len(value))
			continue
		}
		env = append(env, EnvPrefix+hex.EncodeToString([]byte(key))+"="+value)
	}
	return env
}
