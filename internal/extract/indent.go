package extract

import (
	"strings"

	"github.com/phobologic/cxscan/internal/lang"
	"github.com/phobologic/cxscan/internal/model"
)

// indentUnits captures bodies by indentation: a unit runs from its signature
// to the last non-blank line indented deeper than the signature.
func indentUnits(lines []string, p *lang.Profile, yield func(model.FunctionUnit) bool) {
	var class string
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		name, ok := p.MatchSignature(line)
		if !ok {
			if c, ok := p.MatchClass(line); ok && c != "" {
				class = c
			}
			continue
		}

		base := indentWidth(line)
		end := i
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "" {
				continue
			}
			if indentWidth(lines[j]) <= base {
				break
			}
			end = j
		}

		unit := model.FunctionUnit{
			Name:      name,
			Language:  p.Name,
			Class:     class,
			StartLine: i + 1,
			EndLine:   end + 1,
			Lines:     append([]string(nil), lines[i:end+1]...),
		}
		if !yield(unit) {
			return
		}
		i = end
	}
}

// indentWidth counts leading whitespace characters.
func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
