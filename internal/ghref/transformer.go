// Package ghref links GitHub references in Markdown trees.
//
// A Transformer finds shorthand references in text (#12, GH-12, user/project#12,
// user@sha, bare commit hashes and @mentions) and turns them into links to
// github.com. It also shortens the label of links whose text is a full GitHub
// commit, issue or pull request URL. References are resolved relative to one
// repository, so "foo/bar#4" reads as "#4" inside foo/bar.
//
// Transform mutates the tree in place and is idempotent: links it creates are
// never scanned again and shortened labels no longer equal their URL.
package ghref

import (
	"io"
	"log/slog"

	"git.home.luguber.info/inful/ghrefs/internal/mdast"
)

// Option configures a Transformer.
type Option func(*Transformer)

// WithMentionStrong controls whether mention labels are wrapped in strong
// emphasis. It defaults to true.
func WithMentionStrong(strong bool) Option {
	return func(t *Transformer) { t.mentionStrong = strong }
}

// WithLogger sets a logger for debug tracing of rejected candidates.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transformer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Transformer rewrites references relative to a single repository.
// It holds no mutable state and may be shared.
type Transformer struct {
	repo          Repository
	mentionStrong bool
	logger        *slog.Logger
}

// New returns a Transformer for the repository named by repository. It fails
// with ErrNoRepository when no user/project can be extracted.
func New(repository string, opts ...Option) (*Transformer, error) {
	repo, err := ParseRepository(repository)
	if err != nil {
		return nil, err
	}
	t := &Transformer{
		repo:          repo,
		mentionStrong: true,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Repository returns the repository references are resolved against.
func (t *Transformer) Repository() Repository {
	return t.repo
}

// Transform links references in text and then shortens bare GitHub links.
func (t *Transformer) Transform(root mdast.Node) {
	t.linkReferences(root)
	t.shortenLinks(root)
}
