// Package toon encodes scan reports as TOON (Token-Oriented Object Notation).
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/cxscan/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

var functionColumns = []string{
	"function_name", "class_name", "language", "path", "start_line", "end_line",
	"cyclomatic_complexity", "nesting_depth", "function_length", "parameter_count",
	"cognitive_complexity", "documentation_score", "rule_score",
	"github_url", "fingerprint",
}

// Encode converts a Report into TOON format.
func Encode(r *model.Report) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(r.Root)))
	parts = append(parts, fmt.Sprintf("files_scanned: %d", r.FilesScanned))
	parts = append(parts, fmt.Sprintf("files_analyzed: %d", r.FilesAnalyzed))
	parts = append(parts, fmt.Sprintf("units_found: %d", r.UnitsFound))
	parts = append(parts, formatList("languages", r.Languages))

	if len(r.Failures) > 0 {
		var failureRows [][]string
		for _, f := range r.Failures {
			failureRows = append(failureRows, []string{f.Path, f.Reason})
		}
		parts = append(parts, formatTabular("failures", []string{"path", "reason"}, failureRows))
	}

	var fnRows [][]string
	for i := range r.Functions {
		rec := &r.Functions[i]
		m := &rec.RuleAnalysis
		fnRows = append(fnRows, []string{
			rec.FunctionName,
			rec.ClassName,
			rec.Language,
			rec.Path,
			strconv.Itoa(rec.StartLine),
			strconv.Itoa(rec.EndLine),
			strconv.Itoa(m.Cyclomatic),
			strconv.Itoa(m.NestingDepth),
			strconv.Itoa(m.FunctionLength),
			strconv.Itoa(m.ParameterCount),
			strconv.Itoa(m.Cognitive),
			strconv.Itoa(m.Documentation),
			strconv.FormatFloat(m.TotalScore, 'f', -1, 64),
			rec.GithubURL,
			rec.Fingerprint,
		})
	}
	parts = append(parts, formatTabular("functions", functionColumns, fnRows))

	return strings.Join(parts, "\n")
}

func formatList(name string, values []string) string {
	encoded := make([]string, len(values))
	for i, v := range values {
		encoded[i] = encodeValue(v)
	}
	return fmt.Sprintf("%s[%d]: %s", name, len(values), strings.Join(encoded, ","))
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
