package reposource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/ghrefs/internal/foundation/errors"
)

type failing struct{}

func (failing) Name() string { return "failing" }
func (failing) Lookup(string) (string, bool, error) {
	return "", false, errors.InternalError("boom").Build()
}

func writePackageJSON(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(content), 0o600))
}

func initRepo(t *testing.T, dir string, remotes map[string]string) {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	for name, url := range remotes {
		_, err := repo.CreateRemote(&ggitcfg.RemoteConfig{Name: name, URLs: []string{url}})
		require.NoError(t, err)
	}
}

func TestResolve_Order(t *testing.T) {
	t.Setenv("GHREFS_TEST_REPOSITORY", "env/repo")

	got := Resolve(t.TempDir(),
		Explicit("flag", ""),
		failing{},
		Env("GHREFS_TEST_REPOSITORY"),
		Explicit("config", "config/repo"),
	)
	assert.Equal(t, Result{Value: "env/repo", Source: "env:GHREFS_TEST_REPOSITORY", Found: true}, got)
}

func TestResolve_NothingFound(t *testing.T) {
	got := Resolve(t.TempDir(), Explicit("flag", ""), PackageJSON(), GitRemote("origin"))
	assert.False(t, got.Found)
	assert.Empty(t, got.Value)
}

func TestEnv_Unset(t *testing.T) {
	t.Setenv("GHREFS_TEST_EMPTY", "")
	_, found, err := Env("GHREFS_TEST_EMPTY").Lookup("")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPackageJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		found   bool
	}{
		{name: "string", content: `{"repository": "foo/bar"}`, want: "foo/bar", found: true},
		{name: "object", content: `{"repository": {"type": "git", "url": "https://github.com/foo/bar.git"}}`, want: "https://github.com/foo/bar.git", found: true},
		{name: "missing field", content: `{"name": "x"}`},
		{name: "empty object", content: `{"repository": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writePackageJSON(t, dir, tt.content)
			got, found, err := PackageJSON().Lookup(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPackageJSON_Errors(t *testing.T) {
	_, found, err := PackageJSON().Lookup(t.TempDir())
	require.NoError(t, err)
	assert.False(t, found, "absent file is not an error")

	dir := t.TempDir()
	writePackageJSON(t, dir, `{"repository": `)
	_, _, err = PackageJSON().Lookup(dir)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.SeverityWarning, ce.Severity())

	dir = t.TempDir()
	writePackageJSON(t, dir, `{"repository": 42}`)
	_, _, err = PackageJSON().Lookup(dir)
	require.Error(t, err)
}

func TestGitRemote(t *testing.T) {
	dir := t.TempDir()
	initRepo(t, dir, map[string]string{
		"origin":   "git@github.com:foo/bar.git",
		"upstream": "https://github.com/up/stream.git",
	})
	nested := filepath.Join(dir, "docs", "guide")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, found, err := GitRemote("origin").Lookup(nested)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "git@github.com:foo/bar.git", got)

	got, found, err = GitRemote("upstream").Lookup(dir)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "https://github.com/up/stream.git", got)
}

func TestGitRemote_NotFound(t *testing.T) {
	_, found, err := GitRemote("origin").Lookup(t.TempDir())
	require.NoError(t, err)
	assert.False(t, found, "not a repository")

	dir := t.TempDir()
	initRepo(t, dir, nil)
	_, found, err = GitRemote("origin").Lookup(dir)
	require.NoError(t, err)
	assert.False(t, found, "no such remote")
}
