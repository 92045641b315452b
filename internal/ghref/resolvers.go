package ghref

import (
	"strings"

	"git.home.luguber.info/inful/ghrefs/internal/mdast"
)

const githubURL = "https://github.com/"

// MatchContext describes where a candidate sits in the text being scanned.
type MatchContext struct {
	Input string
	Index int
	Value string
}

// Before returns the character right before the match.
func (m MatchContext) Before() (byte, bool) {
	if m.Index <= 0 {
		return 0, false
	}
	return m.Input[m.Index-1], true
}

// After returns the character right after the match.
func (m MatchContext) After() (byte, bool) {
	i := m.Index + len(m.Value)
	if i >= len(m.Input) {
		return 0, false
	}
	return m.Input[i], true
}

// resolver pairs a pattern with the decision of what, if anything, a
// candidate becomes.
type resolver struct {
	name    string
	match   pattern
	resolve func(c candidate, mc MatchContext) (mdast.Node, bool)
}

// precedesReference reports whether c may come right before a cross-repository
// reference or a bare hash.
func precedesReference(c byte, ok bool) bool {
	if !ok {
		return true
	}
	switch c {
	case '\t', '\n', '\r', ' ', '(', '@', '[', '{':
		return true
	}
	return false
}

func notWord(c byte, ok bool) bool {
	return !ok || !isWord(c)
}

func (t *Transformer) resolvers() []resolver {
	return []resolver{
		{name: "reference", match: referencePattern, resolve: t.resolveReference},
		{name: "mention", match: mentionPattern, resolve: t.resolveMention},
		{name: "issue", match: issuePattern, resolve: t.resolveIssue},
		{name: "hash", match: hashPattern, resolve: t.resolveHash},
	}
}

func (t *Transformer) resolveMention(c candidate, mc MatchContext) (mdast.Node, bool) {
	username := c.Groups[0]
	if b, ok := mc.Before(); ok && (isWord(b) || b == '`') {
		return nil, false
	}
	if a, ok := mc.After(); ok && (isWord(a) || a == '`' || a == '/') {
		return nil, false
	}
	if _, denied := denyMention[strings.ToLower(username)]; denied {
		return nil, false
	}

	var label mdast.Node = mdast.NewText(mc.Value)
	if t.mentionStrong {
		label = mdast.NewStrong(label)
	}
	return mdast.NewLink(githubURL+username, label), true
}

func (t *Transformer) resolveIssue(c candidate, mc MatchContext) (mdast.Node, bool) {
	if !notWord(mc.Before()) || !notWord(mc.After()) {
		return nil, false
	}
	return mdast.NewLink(t.repo.URL()+"/issues/"+c.Groups[0], mdast.NewText(mc.Value)), true
}

func (t *Transformer) resolveHash(c candidate, mc MatchContext) (mdast.Node, bool) {
	sha := c.Groups[0]
	if !precedesReference(mc.Before()) || !notWord(mc.After()) {
		return nil, false
	}
	if _, denied := denyHash[sha]; denied {
		return nil, false
	}
	return mdast.NewLink(t.repo.URL()+"/commit/"+sha, mdast.NewInlineCode(abbreviate(sha))), true
}

func (t *Transformer) resolveReference(c candidate, mc MatchContext) (mdast.Node, bool) {
	user, project, issue, sha := c.Groups[0], c.Groups[1], c.Groups[2], c.Groups[3]
	if !precedesReference(mc.Before()) || !notWord(mc.After()) {
		return nil, false
	}

	label := ""
	if user != t.repo.User {
		label += user
	}
	if project != "" && project != t.repo.Project {
		label = user + "/" + project
	}

	target := project
	if target == "" {
		target = t.repo.Project
	}
	url := githubURL + user + "/" + target

	if issue != "" {
		return mdast.NewLink(url+"/issues/"+issue, mdast.NewText(label+"#"+issue)), true
	}
	return mdast.NewLink(url+"/commit/"+sha,
		mdast.NewText(label+"@"),
		mdast.NewInlineCode(abbreviate(sha)),
	), true
}
