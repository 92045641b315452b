// Package frontmatter separates YAML frontmatter from a Markdown document and
// decodes it.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a Markdown file split at its frontmatter delimiters.
type Document struct {
	// Frontmatter is the raw YAML without the --- lines. It is nil when the
	// document has no frontmatter block.
	Frontmatter []byte
	Body        []byte
}

// HasFrontmatter reports whether the document started with a frontmatter block.
func (d Document) HasFrontmatter() bool {
	return d.Frontmatter != nil
}

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
// Both LF and CRLF line endings are recognised; the first line ending in the
// file decides which.
func Split(content []byte) (Document, error) {
	nl := []byte("\n")
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		nl = []byte("\r\n")
	}

	delim := append([]byte("---"), nl...)
	if !bytes.HasPrefix(content, delim) {
		return Document{Body: content}, nil
	}

	start := len(delim)
	if bytes.HasPrefix(content[start:], delim) {
		return Document{Frontmatter: []byte{}, Body: content[start+len(delim):]}, nil
	}

	closing := append(append([]byte{}, nl...), delim...)
	idx := bytes.Index(content[start:], closing)
	if idx < 0 {
		return Document{}, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	return Document{
		Frontmatter: content[start:end],
		Body:        content[start+idx+len(closing):],
	}, nil
}

// Decode unmarshals the frontmatter into out. A document without frontmatter
// leaves out untouched.
func (d Document) Decode(out any) error {
	if len(bytes.TrimSpace(d.Frontmatter)) == 0 {
		return nil
	}
	return yaml.Unmarshal(d.Frontmatter, out)
}
