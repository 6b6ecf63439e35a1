package common

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bjulian5/stackpr/internal/cache"
	"github.com/bjulian5/stackpr/internal/gh"
	"github.com/bjulian5/stackpr/internal/git"
	"github.com/bjulian5/stackpr/internal/stack"
	"github.com/bjulian5/stackpr/internal/ui"
)

// EnvRunID carries the run ID from sync to its rebase-exec children
const EnvRunID = "STACK_PR_RUN_ID"

// StackDirName is the directory inside .git holding config and logs
const StackDirName = "stack-pr"

// Flags are the command-line overrides of the repository config
type Flags struct {
	Debug   bool
	Backend string
	Remote  string
	Trunk   string
}

// Clients bundles everything a command needs
type Clients struct {
	Git    *git.Client
	Host   stack.Host
	Config *stack.Config
	Cache  *cache.Store
	Engine *stack.Engine
	Logger *slog.Logger
	RunID  string

	logCloser io.Closer
}

// InitClients initializes the git client, hosting backend and engine.
// store may be nil; rebase-exec passes the cache rebuilt from its environment.
// Returns an error that is suitable for use in PreRunE hooks
func InitClients(ctx context.Context, flags Flags, store *cache.Store) (*Clients, error) {
	gitClient, err := git.NewClient(nil)
	if err != nil {
		return nil, fmt.Errorf("git client initialization failed: %w", err)
	}

	stackDir, err := gitClient.GitDir(ctx, StackDirName)
	if err != nil {
		return nil, fmt.Errorf("failed to locate %s directory: %w", StackDirName, err)
	}

	config, err := LoadConfig(stackDir, flags, os.Getenv)
	if err != nil {
		return nil, err
	}

	runID := os.Getenv(EnvRunID)
	if runID == "" {
		runID = uuid.NewString()
	}

	logger, closer, err := ui.NewLogger(filepath.Join(stackDir, ui.LogFileName), config.Debug, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	gitClient = gitClient.WithLogger(logger)

	host, err := newHost(ctx, gitClient, config, logger)
	if err != nil {
		closer.Close()
		return nil, err
	}

	if store == nil {
		store = cache.New(logger)
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = gitClient.GitRoot()
	}

	engine := stack.NewEngine(gitClient, host, store, config, stack.Options{
		WorkDir:     wd,
		StepResults: os.Getenv(stack.EnvStepResults),
		Logger:      logger,
	})

	logger.Debug("clients initialized", "backend", config.Backend, "root", gitClient.GitRoot())
	return &Clients{
		Git:       gitClient,
		Host:      host,
		Config:    config,
		Cache:     store,
		Engine:    engine,
		Logger:    logger,
		RunID:     runID,
		logCloser: closer,
	}, nil
}

// LoadConfig reads the repository config and applies environment then flag
// overrides
func LoadConfig(stackDir string, flags Flags, getenv func(string) string) (*stack.Config, error) {
	config, err := stack.LoadConfig(stack.ConfigPath(stackDir))
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(getenv); err != nil {
		return nil, err
	}

	if flags.Remote != "" {
		config.Remote = flags.Remote
	}
	if flags.Trunk != "" {
		config.Trunk = flags.Trunk
	}
	if flags.Backend != "" {
		config.Backend = flags.Backend
	}
	if flags.Debug {
		config.Debug = true
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func newHost(ctx context.Context, gitClient *git.Client, config *stack.Config, logger *slog.Logger) (stack.Host, error) {
	if config.Backend != stack.BackendAPI {
		return gh.NewCLIClient(gitClient.GitRoot(), logger), nil
	}

	remote := config.Remote
	if remote == "" {
		var err error
		remote, err = gitClient.DefaultRemote(ctx)
		if err != nil {
			return nil, err
		}
	}
	remoteURL, err := gitClient.RemoteURL(remote)
	if err != nil {
		return nil, err
	}
	return gh.NewAPIClient(ctx, remoteURL, logger)
}

// Environ returns the variables that let rebase-exec children rebuild the
// same configuration, run ID and cache
func (c *Clients) Environ() []string {
	return append(c.Config.Environ(), EnvRunID+"="+c.RunID)
}

// Close flushes the debug log
func (c *Clients) Close() error {
	if c.logCloser == nil {
		return nil
	}
	return c.logCloser.Close()
}
