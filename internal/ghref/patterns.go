package ghref

import "strings"

// The grammars below are matched by hand because they depend on lookahead,
// which Go's regexp package does not offer. All of them are ASCII and
// case-insensitive; every matcher is anchored at a byte offset and returns the
// exclusive end of the match, or -1.
//
//	user    = [0-9a-z][-0-9a-z]{0,38}
//	project = (?:\.git[\w-]|\.(?!git)|[\w-])+
//	repo    = (user)/(project)

// MinSHALength is the number of characters a commit hash is shortened to.
const MinSHALength = 7

const (
	maxSHALength       = 40
	minLinkedSHALength = 4
	maxUserLength      = 39
	maxProjectLength   = 99
)

// Lowercase words that are also valid hex. They stay plain text unless written
// with more than seven characters.
var denyHash = map[string]struct{}{
	"acceded":  {},
	"deedeed":  {},
	"defaced":  {},
	"effaced":  {},
	"fabaceae": {},
}

// GitHub stopped linking these to its blog post about mentions.
var denyMention = map[string]struct{}{
	"mention":  {},
	"mentions": {},
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWord(c byte) bool { return isAlnum(c) || c == '_' }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// hasPrefixFold reports whether s[i:] starts with prefix, ignoring ASCII case.
func hasPrefixFold(s string, i int, prefix string) bool {
	return len(s)-i >= len(prefix) && strings.EqualFold(s[i:i+len(prefix)], prefix)
}

func matchUser(s string, i int) int {
	if i >= len(s) || !isAlnum(s[i]) {
		return -1
	}
	j := i + 1
	for j < len(s) && j-i < maxUserLength && (isAlnum(s[j]) || s[j] == '-') {
		j++
	}
	return j
}

// projectEnds returns, in ascending order, every offset at which a project
// name starting at i may end. ".git" only continues a name when a word
// character or "-" follows it.
func projectEnds(s string, i int) []int {
	var ends []int
	for j := i; j < len(s); {
		switch {
		case hasPrefixFold(s, j, ".git"):
			if j+4 >= len(s) || !(isWord(s[j+4]) || s[j+4] == '-') {
				return ends
			}
			j += 5
		case s[j] == '.', isWord(s[j]), s[j] == '-':
			j++
		default:
			return ends
		}
		ends = append(ends, j)
	}
	return ends
}

func matchProject(s string, i int) int {
	ends := projectEnds(s, i)
	if len(ends) == 0 {
		return -1
	}
	return ends[len(ends)-1]
}

// matchNumber matches [1-9][0-9]*.
func matchNumber(s string, i int) int {
	if i >= len(s) || s[i] < '1' || s[i] > '9' {
		return -1
	}
	j := i + 1
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	return j
}

// matchSHA matches [0-9a-f]{7,40}, as long as possible.
func matchSHA(s string, i int) int {
	j := i
	for j < len(s) && j-i < maxSHALength && isHex(s[j]) {
		j++
	}
	if j-i < MinSHALength {
		return -1
	}
	return j
}

// candidate is one match of a pattern. Groups hold the captures of the
// pattern in order; an absent optional capture is "".
type candidate struct {
	Start  int
	End    int
	Groups []string
}

func (c candidate) value(s string) string { return s[c.Start:c.End] }

// A pattern tries to match at exactly offset i.
type pattern func(s string, i int) (candidate, bool)

// referencePattern matches user(/project)?(#N|@sha).
// Groups: user, project, issue number, sha.
func referencePattern(s string, i int) (candidate, bool) {
	userEnd := matchUser(s, i)
	if userEnd < 0 {
		return candidate{}, false
	}
	user := s[i:userEnd]
	project := ""
	j := userEnd
	if j < len(s) && s[j] == '/' {
		if end := matchProject(s, j+1); end >= 0 && end < len(s) && (s[end] == '#' || s[end] == '@') {
			project = s[j+1 : end]
			j = end
		}
	}
	if j >= len(s) {
		return candidate{}, false
	}
	switch s[j] {
	case '#':
		if end := matchNumber(s, j+1); end >= 0 {
			return candidate{Start: i, End: end, Groups: []string{user, project, s[j+1 : end], ""}}, true
		}
	case '@':
		if end := matchSHA(s, j+1); end >= 0 {
			return candidate{Start: i, End: end, Groups: []string{user, project, "", s[j+1 : end]}}, true
		}
	}
	return candidate{}, false
}

// mentionPattern matches @user(/team)?. Groups: the name after the @.
func mentionPattern(s string, i int) (candidate, bool) {
	if i >= len(s) || s[i] != '@' {
		return candidate{}, false
	}
	end := matchUser(s, i+1)
	if end < 0 {
		return candidate{}, false
	}
	if end < len(s) && s[end] == '/' {
		if team := matchUser(s, end+1); team >= 0 {
			end = team
		}
	}
	return candidate{Start: i, End: end, Groups: []string{s[i+1 : end]}}, true
}

// issuePattern matches (#|\bgh-)N. Groups: the number.
func issuePattern(s string, i int) (candidate, bool) {
	j := -1
	switch {
	case i < len(s) && s[i] == '#':
		j = i + 1
	case hasPrefixFold(s, i, "gh-") && (i == 0 || !isWord(s[i-1])):
		j = i + 3
	default:
		return candidate{}, false
	}
	end := matchNumber(s, j)
	if end < 0 {
		return candidate{}, false
	}
	return candidate{Start: i, End: end, Groups: []string{s[j:end]}}, true
}

// hashPattern matches \b[0-9a-f]{7,40}\b. Groups: the hash.
func hashPattern(s string, i int) (candidate, bool) {
	if i > 0 && isWord(s[i-1]) {
		return candidate{}, false
	}
	j := i
	for j < len(s) && isHex(s[j]) {
		j++
	}
	if n := j - i; n < MinSHALength || n > maxSHALength {
		return candidate{}, false
	}
	if j < len(s) && isWord(s[j]) {
		return candidate{}, false
	}
	return candidate{Start: i, End: j, Groups: []string{s[i:j]}}, true
}

// extractRepository finds the first user/project pair that starts at the
// beginning of s or right after "/", "/repos/" or ":" and is followed by
// ".git", "/", "#", "@" or the end of s.
func extractRepository(s string) (user, project string, ok bool) {
	try := func(i int) (string, string, bool) {
		userEnd := matchUser(s, i)
		if userEnd < 0 || userEnd >= len(s) || s[userEnd] != '/' {
			return "", "", false
		}
		// Longest name first, giving up characters until the name is
		// followed by something a repository name may end at.
		ends := projectEnds(s, userEnd+1)
		for k := len(ends) - 1; k >= 0; k-- {
			end := ends[k]
			if end == len(s) || hasPrefixFold(s, end, ".git") || strings.IndexByte("/#@", s[end]) >= 0 {
				return s[i:userEnd], s[userEnd+1 : end], true
			}
		}
		return "", "", false
	}

	if u, p, ok := try(0); ok {
		return u, p, true
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '/':
			if hasPrefixFold(s, i+1, "repos/") {
				if u, p, ok := try(i + 7); ok {
					return u, p, true
				}
			}
			if u, p, ok := try(i + 1); ok {
				return u, p, true
			}
		case ':':
			if u, p, ok := try(i + 1); ok {
				return u, p, true
			}
		}
	}
	return "", "", false
}

// githubLink is a full GitHub URL split into its parts.
type githubLink struct {
	User      string
	Project   string
	Page      string
	Reference string
	Comment   bool
}

var linkPages = []string{"commit", "issues", "pull"}

// parseGitHubLink matches
//
//	^https?://github.com/(user)/(project)/(commit|issues|pull)/([0-9a-f]+/?)(?=[#?]|$)
func parseGitHubLink(url string) (githubLink, bool) {
	var i int
	switch {
	case hasPrefixFold(url, 0, "https://github.com/"):
		i = len("https://github.com/")
	case hasPrefixFold(url, 0, "http://github.com/"):
		i = len("http://github.com/")
	default:
		return githubLink{}, false
	}

	userEnd := matchUser(url, i)
	if userEnd < 0 || userEnd >= len(url) || url[userEnd] != '/' {
		return githubLink{}, false
	}
	projectEnd := matchProject(url, userEnd+1)
	if projectEnd < 0 || projectEnd >= len(url) || url[projectEnd] != '/' {
		return githubLink{}, false
	}

	j := projectEnd + 1
	page := ""
	for _, p := range linkPages {
		if hasPrefixFold(url, j, p+"/") {
			page = p
			break
		}
	}
	if page == "" {
		return githubLink{}, false
	}
	j += len(page) + 1

	refStart := j
	for j < len(url) && isHex(url[j]) {
		j++
	}
	if j == refStart {
		return githubLink{}, false
	}
	if j < len(url) && url[j] == '/' {
		j++
	}
	if j < len(url) && url[j] != '#' && url[j] != '?' {
		return githubLink{}, false
	}

	return githubLink{
		User:      url[i:userEnd],
		Project:   url[userEnd+1 : projectEnd],
		Page:      page,
		Reference: url[refStart:j],
		Comment:   j < len(url) && url[j] == '#' && j+1 < len(url),
	}, true
}

// abbreviate shortens a commit hash for display.
func abbreviate(sha string) string {
	if len(sha) > MinSHALength {
		return sha[:MinSHALength]
	}
	return sha
}
