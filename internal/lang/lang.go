// Package lang provides a language registry mapping file extensions to the
// lexical rules used to find and measure function-like units.
package lang

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Classification tags that are not language names.
const (
	// Skip marks infrastructure, config and non-source files.
	Skip = "skip"
	// Unknown marks files with no registered profile.
	Unknown = "unknown"
)

// Profile holds the recognition rules for a supported language.
// Profiles are immutable once registered.
type Profile struct {
	Name       string
	Extensions []string

	// IndentBased is set for languages whose blocks are delimited by
	// indentation rather than braces.
	IndentBased bool

	// Keywords are the branching keywords, in registry order.
	Keywords []string

	signature  *regexp.Regexp
	class      *regexp.Regexp
	comments   []*regexp.Regexp
	keywordRes []*regexp.Regexp

	// reserved names are never accepted as a signature match.
	reserved map[string]struct{}
}

func newProfile(name string, exts []string, signature, class string, keywords []string, comments ...string) *Profile {
	p := &Profile{
		Name:       name,
		Extensions: exts,
		Keywords:   keywords,
		signature:  regexp.MustCompile(signature),
		class:      regexp.MustCompile(class),
	}
	for _, c := range comments {
		p.comments = append(p.comments, regexp.MustCompile(c))
	}
	for _, kw := range keywords {
		p.keywordRes = append(p.keywordRes, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	return p
}

// MatchSignature reports whether line looks like a function signature and
// returns the captured name (the first non-empty capture group).
func (p *Profile) MatchSignature(line string) (string, bool) {
	name, ok := firstGroup(p.signature, line)
	if !ok {
		return "", false
	}
	if _, bad := p.reserved[name]; bad {
		return "", false
	}
	return name, true
}

// MatchClass reports whether line declares a class-like type and returns its name.
func (p *Profile) MatchClass(line string) (string, bool) {
	return firstGroup(p.class, line)
}

// KeywordPatterns returns case-insensitive whole-word matchers for Keywords,
// in the same order.
func (p *Profile) KeywordPatterns() []*regexp.Regexp {
	return p.keywordRes
}

// CommentPatterns returns the comment matchers for the language.
func (p *Profile) CommentPatterns() []*regexp.Regexp {
	return p.comments
}

func (p *Profile) reserve(words ...string) *Profile {
	p.reserved = make(map[string]struct{}, len(words))
	for _, w := range words {
		p.reserved[w] = struct{}{}
	}
	return p
}

func firstGroup(re *regexp.Regexp, line string) (string, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	for _, g := range m[1:] {
		if g != "" {
			return g, true
		}
	}
	return "", true
}

// profiles maps language names to their configuration.
// Populated by init() functions in per-language files.
var profiles = map[string]*Profile{}

var extensionMap = map[string]string{}

// register adds p to the registry. An extension may belong to one profile only.
func register(p *Profile) {
	if _, dup := profiles[p.Name]; dup {
		panic(fmt.Sprintf("lang: profile %q registered twice", p.Name))
	}
	for _, ext := range p.Extensions {
		ext = strings.ToLower(ext)
		if owner, dup := extensionMap[ext]; dup {
			panic(fmt.Sprintf("lang: extension %s claimed by %s and %s", ext, owner, p.Name))
		}
		extensionMap[ext] = p.Name
	}
	profiles[p.Name] = p
}

// Get returns the profile registered under name.
func Get(name string) (*Profile, bool) {
	p, ok := profiles[name]
	return p, ok
}

// Names returns all registered language names, sorted.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
// The lookup is case-insensitive; ext includes the leading dot.
func ForExtension(ext string) string {
	return extensionMap[strings.ToLower(ext)]
}

// Classify tags a file path as Skip, Unknown or a registered language name.
func Classify(path string) string {
	if IsExcluded(path) {
		return Skip
	}
	if name := ForExtension(filepath.Ext(path)); name != "" {
		return name
	}
	return Unknown
}
