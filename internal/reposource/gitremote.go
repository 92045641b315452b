package reposource

import (
	stderrors "errors"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/ghrefs/internal/foundation/errors"
)

type gitRemote struct {
	remote string
}

// GitRemote returns the first URL of the named remote of the git work tree
// enclosing dir.
func GitRemote(remote string) Source {
	return gitRemote{remote: remote}
}

func (g gitRemote) Name() string { return "git:" + g.remote }

func (g gitRemote) Lookup(dir string) (string, bool, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if stderrors.Is(err, git.ErrRepositoryNotExists) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.GitError("failed to open repository").
			WithCause(err).
			WithContext("path", dir).
			Warning().
			Build()
	}

	remote, err := repo.Remote(g.remote)
	if stderrors.Is(err, git.ErrRemoteNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.GitError("failed to read remote").
			WithCause(err).
			WithContext("remote", g.remote).
			Warning().
			Build()
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", false, nil
	}
	return urls[0], true, nil
}
