package commands

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/ghrefs/internal/config"
	"git.home.luguber.info/inful/ghrefs/internal/foundation/errors"
	"git.home.luguber.info/inful/ghrefs/internal/frontmatter"
	"git.home.luguber.info/inful/ghrefs/internal/ghref"
	"git.home.luguber.info/inful/ghrefs/internal/logfields"
	"git.home.luguber.info/inful/ghrefs/internal/markdown"
	"git.home.luguber.info/inful/ghrefs/internal/reposource"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Files    []string      `arg:"" optional:"" help:"Markdown files to render (stdin when none)"`
	Out      string        `short:"o" help:"Write one .html file per input into this directory instead of stdout"`
	Watch    bool          `short:"w" help:"Re-render files when they change"`
	Debounce time.Duration `default:"200ms" help:"Quiet period before re-rendering a changed file"`
}

// Run executes the render command.
func (r *RenderCmd) Run(g *Global, root *CLI) error {
	if r.Watch && len(r.Files) == 0 {
		return errors.ValidationError("--watch needs at least one file").Build()
	}

	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	rd := &documentRenderer{cli: root, cfg: cfg}

	if len(r.Files) == 0 {
		input, err := io.ReadAll(g.Stdin)
		if err != nil {
			return errors.FileSystemError("failed to read stdin").WithCause(err).Build()
		}
		out, err := rd.render(input, g.Dir)
		if err != nil {
			return err
		}
		return write(g.Stdout, out)
	}

	paths := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		path := g.path(f)
		paths = append(paths, path)
		if err := r.renderFile(g, rd, path); err != nil {
			return err
		}
	}

	if !r.Watch {
		return nil
	}
	adapter := errors.NewCLIErrorAdapter(root.Verbose, slog.Default())
	w, err := newFileWatcher(paths, r.Debounce, func(path string) {
		if err := r.renderFile(g, rd, path); err != nil {
			adapter.Log(errors.NewError(errors.GetCategory(err), "render failed, still watching").
				WithCause(err).
				WithContext("path", path).
				Warning().
				Build())
		}
	})
	if err != nil {
		return err
	}
	slog.Info("Watching for changes", logfields.Count(len(paths)))
	return w.Run(g.Ctx)
}

func (r *RenderCmd) renderFile(g *Global, rd *documentRenderer, path string) error {
	start := time.Now()
	input, err := os.ReadFile(path)
	if err != nil {
		return errors.FileSystemError("failed to read input").WithCause(err).
			WithContext("path", path).
			Build()
	}
	out, err := rd.render(input, filepath.Dir(path))
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return ce.WithContext("path", path)
		}
		return err
	}

	if r.Out == "" {
		return write(g.Stdout, out)
	}

	dir := g.path(r.Out)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.FileSystemError("failed to create output directory").WithCause(err).
			WithContext("path", dir).
			Build()
	}
	target := filepath.Join(dir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".html")
	if err := os.WriteFile(target, out, 0o600); err != nil {
		return errors.FileSystemError("failed to write output").WithCause(err).
			WithContext("path", target).
			Build()
	}
	slog.Info("Rendered",
		logfields.File(path),
		logfields.Output(target),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return nil
}

// documentRenderer turns one Markdown document into HTML, honouring the
// overrides in its frontmatter. Repositories are resolved once per directory
// and reused for every later document there, including watch re-renders.
// It is not safe for concurrent use.
type documentRenderer struct {
	cli   *CLI
	cfg   *config.Config
	repos map[string]resolvedRepository
}

type resolvedRepository struct {
	result reposource.Result
	err    error
}

func (d *documentRenderer) repository(dir string) (reposource.Result, error) {
	if r, ok := d.repos[dir]; ok {
		return r.result, r.err
	}
	res, _, err := d.cli.resolveRepository(d.cfg, dir)
	if d.repos == nil {
		d.repos = make(map[string]resolvedRepository)
	}
	d.repos[dir] = resolvedRepository{result: res, err: err}
	return res, err
}

func (d *documentRenderer) render(input []byte, dir string) ([]byte, error) {
	doc, err := frontmatter.Split(input)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid frontmatter").Build()
	}
	var overrides config.Overrides
	if err := doc.Decode(&overrides); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid frontmatter").Build()
	}

	repository := string(overrides.Repository)
	if d.cli.Repository != "" || repository == "" {
		res, err := d.repository(dir)
		if err != nil {
			return nil, err
		}
		repository = res.Value
	}

	tr, err := ghref.New(repository,
		ghref.WithMentionStrong(d.cli.mentionStrong(d.cfg, overrides.MentionStrong)),
		ghref.WithLogger(slog.Default()))
	if err != nil {
		return nil, err
	}

	return markdown.Render(doc.Body, tr, markdown.Options{
		Linkify: d.cfg.LinkifyEnabled(),
		XHTML:   d.cfg.XHTML,
		Logger:  slog.Default(),
	})
}

func write(w io.Writer, out []byte) error {
	if _, err := io.Copy(w, bytes.NewReader(out)); err != nil {
		return errors.FileSystemError("failed to write output").WithCause(err).Build()
	}
	return nil
}
