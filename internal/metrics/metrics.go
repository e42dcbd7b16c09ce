// Package metrics computes structural complexity metrics for extracted
// function units and combines them into a single weighted score.
package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/phobologic/cxscan/internal/lang"
	"github.com/phobologic/cxscan/internal/model"
)

// CognitiveMode selects how indentation-based languages track nesting for
// cognitive complexity.
type CognitiveMode string

const (
	// CognitiveCompat never decrements the nesting counter within a
	// function, so every later control line scores deeper than the last.
	// This reproduces the historical scores.
	CognitiveCompat CognitiveMode = "compat"
	// CognitiveScoped closes a control block when indentation returns to
	// (or above) the line that opened it.
	CognitiveScoped CognitiveMode = "scoped"
)

// ParseCognitiveMode converts a config string to a CognitiveMode.
// The empty string selects CognitiveCompat.
func ParseCognitiveMode(s string) (CognitiveMode, error) {
	switch CognitiveMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", CognitiveCompat:
		return CognitiveCompat, nil
	case CognitiveScoped:
		return CognitiveScoped, nil
	default:
		return "", fmt.Errorf("unknown cognitive mode %q", s)
	}
}

// Options tunes metric computation.
type Options struct {
	Cognitive CognitiveMode
}

// Weights of the total score.
const (
	WeightCyclomatic    = 3.0
	WeightNesting       = 2.5
	WeightLength        = 1.5 // applied per ten lines
	WeightParameters    = 1.0
	WeightCognitive     = 2.0
	WeightDocumentation = 2.0 // penalty at documentation score 0
)

var (
	booleanOpRe = regexp.MustCompile(`(?i)\b(?:and|or)\b|&&|\|\|`)
	paramListRe = regexp.MustCompile(`\(([^)]*)\)`)
)

// indentControlKeywords raise the cognitive nesting level of indentation-based
// languages. They are matched as substrings of the trimmed line.
var indentControlKeywords = []string{"if", "for", "while", "try", "with"}

// Calculate computes every metric for u using the rules of p.
func Calculate(u model.FunctionUnit, p *lang.Profile, opts Options) model.ComplexityMetrics {
	content := strings.Join(u.Lines, "\n")
	first := ""
	if len(u.Lines) > 0 {
		first = u.Lines[0]
	}

	m := model.ComplexityMetrics{
		Cyclomatic:     Cyclomatic(content, p),
		NestingDepth:   NestingDepth(u.Lines, p),
		FunctionLength: FunctionLength(u.Lines),
		ParameterCount: ParameterCount(first, p),
		Cognitive:      Cognitive(u.Lines, p, opts.Cognitive),
		Documentation:  Documentation(content, u.Lines, p),
	}
	m.TotalScore = Score(m)
	return m
}

// Score combines the individual metrics into the weighted total.
func Score(m model.ComplexityMetrics) float64 {
	docPenalty := float64(10-m.Documentation) / 10 * WeightDocumentation
	return float64(m.Cyclomatic)*WeightCyclomatic +
		float64(m.NestingDepth)*WeightNesting +
		float64(m.FunctionLength)/10*WeightLength +
		float64(m.ParameterCount)*WeightParameters +
		float64(m.Cognitive)*WeightCognitive +
		docPenalty
}

// Cyclomatic returns 1 plus every whole-word, case-insensitive occurrence of
// a branching keyword plus every boolean combinator. Repeats all count.
func Cyclomatic(content string, p *lang.Profile) int {
	if p == nil {
		return 1
	}
	complexity := 1
	for _, re := range p.KeywordPatterns() {
		complexity += len(re.FindAllStringIndex(content, -1))
	}
	complexity += len(booleanOpRe.FindAllStringIndex(content, -1))
	return complexity
}

// NestingDepth returns the deepest block nesting observed. Indentation-based
// languages use leading whitespace in steps of four; others use the running
// per-line brace balance, which is not clamped at zero.
func NestingDepth(lines []string, p *lang.Profile) int {
	maxDepth := 0
	if p != nil && p.IndentBased {
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			maxDepth = max(maxDepth, leadingSpace(line)/4)
		}
		return maxDepth
	}

	depth := 0
	for _, line := range lines {
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		maxDepth = max(maxDepth, depth)
	}
	return maxDepth
}

// FunctionLength counts non-blank lines that do not start with a `#` or `//`
// comment. Block comments are counted as code.
func FunctionLength(lines []string) int {
	n := 0
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") || strings.HasPrefix(s, "//") {
			continue
		}
		n++
	}
	return n
}

// ParameterCount counts the comma-separated entries of the first
// parenthesised group on the signature line. Indentation-based languages do
// not count a `self` receiver.
func ParameterCount(signature string, p *lang.Profile) int {
	if p == nil {
		return 0
	}
	m := paramListRe.FindStringSubmatch(signature)
	if m == nil {
		return 0
	}
	params := strings.TrimSpace(m[1])
	if params == "" {
		return 0
	}

	tokens := strings.Split(params, ",")
	count := len(tokens)
	if p.IndentBased {
		for _, tok := range tokens {
			if paramName(tok) == "self" {
				count--
				break
			}
		}
	}
	return max(0, count)
}

func paramName(tok string) string {
	name := strings.TrimSpace(tok)
	if i := strings.IndexAny(name, ":="); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	return name
}

// Cognitive returns the nesting-weighted control-flow score.
//
// Brace languages move a nesting counter up on lines containing `{` and down
// (never below zero) on lines containing `}`, and add nesting+1 for each
// branching keyword found on a line. Indentation-based languages add the
// current nesting level each time a control keyword appears; see
// CognitiveMode for how that level is maintained.
func Cognitive(lines []string, p *lang.Profile, mode CognitiveMode) int {
	if p == nil {
		return 0
	}
	if p.IndentBased {
		if mode == CognitiveScoped {
			return cognitiveScoped(lines)
		}
		return cognitiveCompat(lines)
	}

	score, nesting := 0, 0
	for _, line := range lines {
		if strings.Contains(line, "{") {
			nesting++
		}
		if strings.Contains(line, "}") {
			nesting = max(0, nesting-1)
		}
		trimmed := strings.TrimSpace(line)
		for _, re := range p.KeywordPatterns() {
			if re.MatchString(trimmed) {
				score += nesting + 1
			}
		}
	}
	return score
}

func cognitiveCompat(lines []string) int {
	score, nesting := 0, 0
	for _, line := range lines {
		if hasControlKeyword(strings.TrimSpace(line)) {
			nesting++
			score += nesting
		}
	}
	return score
}

func cognitiveScoped(lines []string) int {
	score := 0
	var open []int // indentation of enclosing control lines
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		indent := leadingSpace(line)
		for len(open) > 0 && indent <= open[len(open)-1] {
			open = open[:len(open)-1]
		}
		if hasControlKeyword(trimmed) {
			open = append(open, indent)
			score += len(open)
		}
	}
	return score
}

func hasControlKeyword(s string) bool {
	for _, kw := range indentControlKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// Documentation returns the bucketed documentation score for a unit: comment
// pattern matches over non-blank lines. A multi-line block comment counts once.
func Documentation(content string, lines []string, p *lang.Profile) int {
	if p == nil {
		return 0
	}
	nonBlank := 0
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			nonBlank++
		}
	}
	if nonBlank == 0 {
		return 0
	}

	matches := 0
	for _, re := range p.CommentPatterns() {
		matches += len(re.FindAllStringIndex(content, -1))
	}
	return DocumentationScore(float64(matches) / float64(nonBlank))
}

// DocumentationScore maps a comment ratio to one of 0, 2, 4, 6, 8 or 10.
func DocumentationScore(ratio float64) int {
	switch {
	case ratio >= 0.30:
		return 10
	case ratio >= 0.20:
		return 8
	case ratio >= 0.15:
		return 6
	case ratio >= 0.10:
		return 4
	case ratio >= 0.05:
		return 2
	default:
		return 0
	}
}

func leadingSpace(line string) int {
	return len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
}
