// Package reposource finds the repository a document belongs to when the
// caller did not name one: an explicit value, an environment variable, the
// package.json manifest or the git remote of the working tree.
package reposource

import (
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/ghrefs/internal/logfields"
)

// Source looks up a repository identifier for the files in dir.
// found is false when the source has nothing to offer; err is reserved for
// sources that exist but cannot be read. Such errors are warnings, since
// Resolve moves on to the next source.
type Source interface {
	Name() string
	Lookup(dir string) (value string, found bool, err error)
}

// Result is the outcome of Resolve.
type Result struct {
	Value  string
	Source string
	Found  bool
}

// Resolve asks each source in order and returns the first non-empty answer.
// A failing source is logged and skipped.
func Resolve(dir string, sources ...Source) Result {
	for _, s := range sources {
		value, found, err := s.Lookup(dir)
		if err != nil {
			slog.Warn("Repository source failed",
				logfields.Source(s.Name()),
				logfields.Path(dir),
				logfields.Error(err))
			continue
		}
		if found && strings.TrimSpace(value) != "" {
			slog.Debug("Repository resolved", logfields.Source(s.Name()), logfields.Repository(value))
			return Result{Value: value, Source: s.Name(), Found: true}
		}
	}
	return Result{}
}

type explicit struct {
	name  string
	value string
}

// Explicit is a source that always answers value, unless it is empty.
// name is reported as the Result's source.
func Explicit(name, value string) Source {
	return explicit{name: name, value: value}
}

func (e explicit) Name() string { return e.name }

func (e explicit) Lookup(string) (string, bool, error) {
	return e.value, e.value != "", nil
}

type env struct {
	key string
}

// Env reads the repository from an environment variable.
func Env(key string) Source {
	return env{key: key}
}

func (e env) Name() string { return "env:" + e.key }

func (e env) Lookup(string) (string, bool, error) {
	v, ok := os.LookupEnv(e.key)
	return v, ok && v != "", nil
}
