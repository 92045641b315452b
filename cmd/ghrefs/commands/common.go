package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/ghrefs/internal/config"
	"git.home.luguber.info/inful/ghrefs/internal/foundation/errors"
	"git.home.luguber.info/inful/ghrefs/internal/ghref"
	"git.home.luguber.info/inful/ghrefs/internal/logfields"
	"git.home.luguber.info/inful/ghrefs/internal/reposource"
)

// Global carries the process environment into commands, so tests can run
// them against buffers and a temporary directory.
type Global struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	// Dir is the working directory relative paths are resolved against.
	Dir string
}

// NewGlobal returns a Global bound to the real process.
func NewGlobal(ctx context.Context) (*Global, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, errors.FileSystemError("failed to determine working directory").WithCause(err).Build()
	}
	return &Global{Ctx: ctx, Stdin: os.Stdin, Stdout: os.Stdout, Dir: dir}, nil
}

// CLI definition & global flags.
type CLI struct {
	Config          string           `short:"c" help:"Configuration file path (default: ghrefs.yaml when present)"`
	Verbose         bool             `short:"v" help:"Enable verbose logging"`
	Version         kong.VersionFlag `name:"version" help:"Show version and exit"`
	Repository      string           `short:"r" help:"Repository references are resolved against (user/project or a git URL)"`
	NoMentionStrong bool             `help:"Do not wrap @mentions in strong emphasis"`

	Render  RenderCmd  `cmd:"" default:"withargs" help:"Render Markdown to HTML with GitHub references linked"`
	Resolve ResolveCmd `cmd:"" help:"Print the repository references would be resolved against"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads .env files and the config file. An explicit --config must
// exist; the default file is optional.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	loaded, err := config.LoadEnvFiles(g.Dir)
	if err != nil {
		return nil, err
	}
	for _, path := range loaded {
		slog.Debug("Loaded environment file", logfields.Path(path))
	}

	if c.Config == "" {
		cfg, found, err := config.LoadOptional(g.path(config.DefaultFileName))
		if found {
			slog.Debug("Loaded configuration", logfields.Path(g.path(config.DefaultFileName)))
		}
		return cfg, err
	}
	return config.Load(g.path(c.Config))
}

// sources lists where the repository comes from, highest priority first.
func (c *CLI) sources(cfg *config.Config) []reposource.Source {
	return []reposource.Source{
		reposource.Explicit("flag", c.Repository),
		reposource.Explicit("config", string(cfg.Repository)),
		reposource.Env(config.EnvRepository),
		reposource.PackageJSON(),
		reposource.GitRemote("origin"),
	}
}

// mentionStrong combines the config, the flag and a document override.
func (c *CLI) mentionStrong(cfg *config.Config, override *bool) bool {
	if c.NoMentionStrong {
		return false
	}
	if override != nil {
		return *override
	}
	return cfg.MentionStrongEnabled()
}

// resolveRepository finds the repository for files in dir. It fails with
// ghref.ErrNoRepository when no source has an answer.
func (c *CLI) resolveRepository(cfg *config.Config, dir string) (reposource.Result, ghref.Repository, error) {
	res := reposource.Resolve(dir, c.sources(cfg)...)
	repo, err := ghref.ParseRepository(res.Value)
	if err != nil {
		return res, ghref.Repository{}, err
	}
	return res, repo, nil
}

func (g *Global) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(g.Dir, p)
}
