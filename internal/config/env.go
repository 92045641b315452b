package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/ghrefs/internal/foundation/errors"
)

// EnvRepository names the environment variable holding a repository.
const EnvRepository = "GHREFS_REPOSITORY"

// envFiles are read in order; a variable set by an earlier file, or already
// present in the process environment, is never overwritten.
var envFiles = []string{".env.local", ".env"}

// LoadEnvFiles loads .env.local and .env from dir when they exist and returns
// the paths that were read.
func LoadEnvFiles(dir string) ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, errors.WrapError(err, errors.CategoryConfig, "failed to load env file").
				WithContext("path", path).
				Build()
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
