package ghref

import (
	"strings"

	"git.home.luguber.info/inful/ghrefs/internal/foundation/errors"
)

// ErrNoRepository is returned when a repository identifier does not name a
// GitHub user and project.
var ErrNoRepository = errors.ConfigError("no repository could be determined").Build()

// Repository is the user/project pair references are resolved against.
type Repository struct {
	User    string
	Project string
}

// ParseRepository extracts the user and project from a repository identifier:
// "user/project", a git remote URL (HTTPS or SSH), or a GitHub API URL.
func ParseRepository(raw string) (Repository, error) {
	user, project, ok := extractRepository(strings.TrimSpace(raw))
	if !ok {
		return Repository{}, ErrNoRepository.WithContext("input", raw)
	}
	return Repository{User: user, Project: project}, nil
}

func (r Repository) String() string {
	return r.User + "/" + r.Project
}

// URL returns the repository's page on GitHub.
func (r Repository) URL() string {
	return githubURL + r.User + "/" + r.Project
}
