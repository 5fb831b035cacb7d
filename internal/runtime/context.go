package runtime

import (
	"context"
	"fmt"
	"os"

	"knit.dev/knit/internal/config"
	"knit.dev/knit/internal/engine"
	"knit.dev/knit/internal/git"
	"knit.dev/knit/internal/tui"
)

// Context provides access to the engine, the git runner and output for commands
type Context struct {
	context.Context
	Engine   *engine.Engine
	Repo     *git.Repository
	Runner   *git.CommandRunner
	Splog    *tui.Splog
	RepoRoot string
	Config   *config.Config
}

// NewContext creates a context over an opened repository
func NewContext(ctx context.Context, repo *git.Repository, cfg *config.Config, splog *tui.Splog) *Context {
	eng := engine.New(repo, engine.Options{
		DefaultMode: cfg.DefaultMode,
		AutoResolve: cfg.AutoResolve,
		Labels:      cfg.Labels,
	})
	return &Context{
		Context:  ctx,
		Engine:   eng,
		Repo:     repo,
		Runner:   git.NewCommandRunner(repo.GetRepoRoot()),
		Splog:    splog,
		RepoRoot: repo.GetRepoRoot(),
		Config:   cfg,
	}
}

// GetContext opens the repository containing the working directory and
// loads its configuration. Output goes to stdout and to the rotating log file.
func GetContext(ctx context.Context) (*Context, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	repo, err := git.OpenRepository(wd)
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	cfg, err := config.Load(repo.GetRepoRoot())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	splog, err := tui.NewSplogWithConfig(os.Stdout, tui.GetLogFilePath())
	if err != nil {
		// Logging to a file is optional
		splog = tui.NewSplog()
	}
	splog.Debug("opened repository at %s", repo.GetRepoRoot())

	return NewContext(ctx, repo, cfg, splog), nil
}
