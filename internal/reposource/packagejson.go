package reposource

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/ghrefs/internal/foundation/errors"
)

type packageJSON struct{}

// PackageJSON reads the repository field of dir/package.json. The field is
// either a string or an object with a url.
func PackageJSON() Source {
	return packageJSON{}
}

func (packageJSON) Name() string { return "package.json" }

func (packageJSON) Lookup(dir string) (string, bool, error) {
	path := filepath.Join(dir, "package.json")
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.FileSystemError("failed to read package.json").
			WithCause(err).
			WithContext("path", path).
			Warning().
			Build()
	}

	var manifest struct {
		Repository json.RawMessage `json:"repository"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", false, errors.WrapError(err, errors.CategoryValidation, "invalid package.json").
			WithContext("path", path).
			Warning().
			Build()
	}
	if len(manifest.Repository) == 0 {
		return "", false, nil
	}

	var value string
	if err := json.Unmarshal(manifest.Repository, &value); err == nil {
		return value, value != "", nil
	}
	var object struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(manifest.Repository, &object); err != nil {
		return "", false, errors.WrapError(err, errors.CategoryValidation, "invalid repository field in package.json").
			WithContext("path", path).
			Warning().
			Build()
	}
	return object.URL, object.URL != "", nil
}
