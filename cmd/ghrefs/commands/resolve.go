package commands

import (
	"fmt"

	"git.home.luguber.info/inful/ghrefs/internal/foundation/errors"
)

// ResolveCmd implements the 'resolve' command.
type ResolveCmd struct {
	Dir string `arg:"" optional:"" default:"." help:"Directory to resolve the repository for"`
	URL bool   `help:"Print the repository URL instead of user/project"`
}

// Run executes the resolve command.
func (r *ResolveCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}

	res, repo, err := root.resolveRepository(cfg, g.path(r.Dir))
	if err != nil {
		return err
	}

	value := repo.String()
	if r.URL {
		value = repo.URL()
	}
	if _, err := fmt.Fprintf(g.Stdout, "%s\t%s\n", value, res.Source); err != nil {
		return errors.FileSystemError("failed to write output").WithCause(err).Build()
	}
	return nil
}
