// Package extract locates function-like units in source text using a
// line-oriented brace-depth state machine. It never builds a syntax tree.
package extract

import (
	"iter"
	"regexp"
	"strings"

	"github.com/phobologic/cxscan/internal/lang"
	"github.com/phobologic/cxscan/internal/model"
)

// Options tunes extraction.
type Options struct {
	// IndentBodies delimits bodies by indentation for indent-based profiles.
	// When false those profiles still need a literal brace, as every other
	// language does.
	IndentBodies bool
}

// stringLiteralRe matches single- and double-quoted spans on one line,
// honouring backslash escapes. Multi-line literals are not handled.
var stringLiteralRe = regexp.MustCompile(`"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`)

// StripStringLiterals removes quoted spans from line so braces inside them
// are not counted.
func StripStringLiterals(line string) string {
	return stringLiteralRe.ReplaceAllString(line, "")
}

// SplitLines splits content into lines, accepting \n, \r\n and \r endings.
// A trailing line terminator does not produce an empty final line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}

type state int

const (
	searching state = iota
	capturingSignature
	capturingBody
)

// Functions returns the function-like units found in content, in file order.
// Units never overlap. The sequence is computed lazily and is deterministic:
// identical input always yields identical units.
func Functions(content string, p *lang.Profile, opts Options) iter.Seq[model.FunctionUnit] {
	return func(yield func(model.FunctionUnit) bool) {
		if p == nil {
			return
		}
		lines := SplitLines(content)
		if p.IndentBased && opts.IndentBodies {
			indentUnits(lines, p, yield)
			return
		}
		braceUnits(lines, p, yield)
	}
}

func braceUnits(lines []string, p *lang.Profile, yield func(model.FunctionUnit) bool) {
	nextBrace := nextBraceIndex(lines)

	var (
		st      = searching
		unit    model.FunctionUnit
		balance int
		class   string
	)

	emit := func() bool {
		unit.EndLine = unit.StartLine + len(unit.Lines) - 1
		st = searching
		return yield(unit)
	}

	// openBody seeds the brace balance from the first body-bearing line.
	// It reports false when the body already closed on that line.
	openBody := func(line string) bool {
		balance = braceDelta(line)
		if balance <= 0 {
			return false
		}
		st = capturingBody
		return true
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		switch st {
		case searching:
			name, ok := p.MatchSignature(line)
			if !ok {
				if c, ok := p.MatchClass(line); ok && c != "" {
					class = c
				}
				continue
			}
			unit = model.FunctionUnit{
				Name:      name,
				Language:  p.Name,
				Class:     class,
				StartLine: i + 1,
				Lines:     []string{line},
			}
			if !strings.Contains(line, "{") {
				// A signature that never opens a body before EOF is
				// abandoned; scanning resumes on the next line.
				if i+1 >= len(lines) || nextBrace[i+1] < 0 {
					continue
				}
				st = capturingSignature
				continue
			}
			if !openBody(line) && !emit() {
				return
			}

		case capturingSignature:
			unit.Lines = append(unit.Lines, line)
			if !strings.Contains(line, "{") {
				continue
			}
			if !openBody(line) && !emit() {
				return
			}

		case capturingBody:
			unit.Lines = append(unit.Lines, line)
			balance += braceDelta(line)
			if balance <= 0 && !emit() {
				return
			}
		}
	}

	// An unterminated body runs to end of file.
	if st == capturingBody {
		emit()
	}
}

// nextBraceIndex returns, for each line, the index of the first line at or
// after it that contains "{", or -1.
func nextBraceIndex(lines []string) []int {
	next := make([]int, len(lines))
	n := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(lines[i], "{") {
			n = i
		}
		next[i] = n
	}
	return next
}

func braceDelta(line string) int {
	code := StripStringLiterals(line)
	return strings.Count(code, "{") - strings.Count(code, "}")
}
