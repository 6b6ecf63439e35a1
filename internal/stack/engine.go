package stack

import (
	"context"
	"log/slog"

	"github.com/bjulian5/stackpr/internal/cache"
)

// Engine drives branch publishing and pull request reconciliation for the
// stack between the remote trunk and HEAD
type Engine struct {
	git     GitClient
	host    Host
	cache   *cache.Store
	config  *Config
	workDir string
	steps   string
	logger  *slog.Logger
}

// Options configures an Engine
type Options struct {
	// WorkDir is where the PR template search starts (default: the git root)
	WorkDir string
	// StepResults is the file a rebase step appends its outcome to, passed
	// down by Sync through EnvStepResults
	StepResults string
	Logger      *slog.Logger
}

// NewEngine creates a new engine. store carries lookups already made by a
// parent process and may be shared with the caller.
func NewEngine(gitClient GitClient, host Host, store *cache.Store, config *Config, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if store == nil {
		store = cache.New(opts.Logger)
	}
	if config == nil {
		config = (&Config{}).withDefaults()
	}
	if opts.WorkDir == "" {
		opts.WorkDir = gitClient.GitRoot()
	}
	return &Engine{
		git:     gitClient,
		host:    host,
		cache:   store,
		config:  config,
		workDir: opts.WorkDir,
		steps:   opts.StepResults,
		logger:  opts.Logger,
	}
}

// Login returns the hosting login of the current user
func (e *Engine) Login(ctx context.Context) (string, error) {
	return e.cache.Memo(cache.KeyLogin, func() (string, error) {
		return e.host.CurrentLogin(ctx)
	})
}

// Remote returns the remote branches are pushed to
func (e *Engine) Remote(ctx context.Context) (string, error) {
	return e.cache.Memo(cache.KeyRemote, func() (string, error) {
		if e.config.Remote != "" {
			return e.config.Remote, nil
		}
		return e.git.DefaultRemote(ctx)
	})
}

// Trunk returns the branch the bottom of the stack targets
func (e *Engine) Trunk(ctx context.Context) (string, error) {
	return e.cache.Memo(cache.KeyTrunk, func() (string, error) {
		if e.config.Trunk != "" {
			return e.config.Trunk, nil
		}
		return e.host.DefaultBranch(ctx)
	})
}

// TrunkRef returns the remote-tracking ref of the trunk, e.g. origin/main
func (e *Engine) TrunkRef(ctx context.Context) (string, error) {
	remote, err := e.Remote(ctx)
	if err != nil {
		return "", err
	}
	trunk, err := e.Trunk(ctx)
	if err != nil {
		return "", err
	}
	return remote + "/" + trunk, nil
}
