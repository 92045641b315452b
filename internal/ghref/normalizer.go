package ghref

import (
	"git.home.luguber.info/inful/ghrefs/internal/mdast"
)

// shortenLinks rewrites the label of every bare GitHub link in the tree.
func (t *Transformer) shortenLinks(root mdast.Node) {
	mdast.Walk(root, func(n mdast.Node, entering bool) mdast.WalkStatus {
		if !entering {
			return mdast.WalkContinue
		}
		if link, ok := n.(*mdast.Link); ok {
			if children, ok := t.shorten(link); ok {
				link.Children = children
			}
		}
		return mdast.WalkContinue
	})
}

// parseLink accepts a link only when its label is its own URL and the URL
// points at a commit, issue or pull request.
func parseLink(link *mdast.Link) (githubLink, bool) {
	parsed, ok := parseGitHubLink(link.URL)
	if !ok {
		return githubLink{}, false
	}
	if len(link.Children) != 1 {
		return githubLink{}, false
	}
	if _, ok := link.Children[0].(*mdast.Text); !ok || mdast.ToString(link) != link.URL {
		return githubLink{}, false
	}

	switch parsed.Page {
	case "commit":
		if n := len(parsed.Reference); n < minLinkedSHALength || n > maxSHALength {
			return githubLink{}, false
		}
	default:
		// Issue and pull request numbers are decimal.
		for i := 0; i < len(parsed.Reference); i++ {
			if c := parsed.Reference[i] | 0x20; c >= 'a' && c <= 'f' {
				return githubLink{}, false
			}
		}
	}
	if len(parsed.Project) > maxProjectLength {
		return githubLink{}, false
	}
	return parsed, true
}

func (t *Transformer) shorten(link *mdast.Link) ([]mdast.Node, bool) {
	parsed, ok := parseLink(link)
	if !ok {
		return nil, false
	}

	base := parsed.User + "/" + parsed.Project
	if parsed.Project == t.repo.Project {
		base = parsed.User
		if parsed.User == t.repo.User {
			base = ""
		}
	}

	comment := ""
	if parsed.Comment {
		comment = " (comment)"
	}

	if parsed.Page == "issues" {
		return []mdast.Node{mdast.NewText(base + "#" + abbreviate(parsed.Reference) + comment)}, true
	}

	var children []mdast.Node
	if base != "" {
		children = append(children, mdast.NewText(base+"@"))
	}
	children = append(children, mdast.NewInlineCode(abbreviate(parsed.Reference)))
	if comment != "" {
		children = append(children, mdast.NewText(comment))
	}
	return children, true
}
