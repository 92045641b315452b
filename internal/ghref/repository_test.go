package ghref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/ghrefs/internal/foundation/errors"
)

func TestParseRepository(t *testing.T) {
	for _, raw := range []string{
		"foo/bar",
		"https://github.com/foo/bar",
		"https://github.com/foo/bar.git",
		"git@github.com:foo/bar.git",
		"https://api.github.com/repos/foo/bar",
		"foo/bar#readme",
		"  foo/bar\n",
	} {
		t.Run(raw, func(t *testing.T) {
			repo, err := ParseRepository(raw)
			require.NoError(t, err)
			assert.Equal(t, Repository{User: "foo", Project: "bar"}, repo)
			assert.Equal(t, "https://github.com/foo/bar", repo.URL())
		})
	}
}

func TestParseRepository_ErrorContext(t *testing.T) {
	_, err := ParseRepository("foo")
	require.ErrorIs(t, err, ErrNoRepository)

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	input, ok := ce.Context().GetString("input")
	require.True(t, ok)
	assert.Equal(t, "foo", input)
	assert.Equal(t, 7, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}
