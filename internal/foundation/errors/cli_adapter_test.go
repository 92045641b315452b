package errors

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad").Build(), expected: 2},
		{name: "config", err: ConfigError("no repository").Build(), expected: 7},
		{name: "git", err: GitError("open failed").Build(), expected: 8},
		{name: "internal", err: InternalError("boom").Build(), expected: 10},
		{name: "filesystem", err: FileSystemError("read failed").Build(), expected: 11},
		{name: "unclassified", err: stderrors.New("unknown"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	err := ConfigError("no repository could be determined").WithContext("input", "nope").Build()

	quiet := NewCLIErrorAdapter(false, nil)
	assert.Equal(t,
		"Error: no repository could be determined (input=nope)\n"+
			"Hint: check ghrefs.yaml and the --repository flag",
		quiet.FormatError(err))

	verbose := NewCLIErrorAdapter(true, nil)
	assert.Equal(t, "Error: [config:fatal] no repository could be determined", verbose.FormatError(err))

	assert.Equal(t, "Internal error occurred (use -v for details)", quiet.FormatError(InternalError("boom").Build()))
	assert.Equal(t, "Error: plain", quiet.FormatError(stderrors.New("plain")))
	assert.Empty(t, quiet.FormatError(nil))
}

func TestCLIErrorAdapter_Log(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&buf, nil)))

	adapter.Log(GitError("failed to open repository").Warning().Build())
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "category=git")

	buf.Reset()
	cause := stderrors.New("disk full")
	adapter.Log(FileSystemError("failed to write output").WithCause(cause).Build())
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "cause=\"disk full\"")

	buf.Reset()
	adapter.Log(stderrors.New("plain"))
	assert.Empty(t, buf.String(), "unclassified errors log at debug")
}
