// Package model defines core data structures for cxscan.
package model

// FunctionUnit is a function-like span located by the extractor.
type FunctionUnit struct {
	Name      string
	Language  string
	Class     string // most recent class/type declaration above the unit, if any
	StartLine int    // 1-based
	EndLine   int    // 1-based, inclusive
	Lines     []string
}

// ComplexityMetrics holds the structural metrics computed for one unit.
type ComplexityMetrics struct {
	Cyclomatic     int     `json:"cyclomatic_complexity" yaml:"cyclomatic_complexity"`
	NestingDepth   int     `json:"nesting_depth" yaml:"nesting_depth"`
	FunctionLength int     `json:"function_length" yaml:"function_length"`
	ParameterCount int     `json:"parameter_count" yaml:"parameter_count"`
	Cognitive      int     `json:"cognitive_complexity" yaml:"cognitive_complexity"`
	Documentation  int     `json:"documentation_score" yaml:"documentation_score"`
	TotalScore     float64 `json:"rule_score" yaml:"rule_score"`
}

// RankedRecord is a scored unit flattened for external consumption.
type RankedRecord struct {
	FunctionName string            `json:"function_name" yaml:"function_name"`
	FileURL      string            `json:"file_url" yaml:"file_url"`
	GithubURL    string            `json:"github_url" yaml:"github_url"`
	StartLine    int               `json:"start_line" yaml:"start_line"`
	EndLine      int               `json:"end_line" yaml:"end_line"`
	Language     string            `json:"language" yaml:"language"`
	RuleAnalysis ComplexityMetrics `json:"rule_analysis" yaml:"rule_analysis"`
	Path         string            `json:"path" yaml:"path"`
	ClassName    string            `json:"class_name,omitempty" yaml:"class_name,omitempty"`
	Fingerprint  string            `json:"fingerprint" yaml:"fingerprint"`
}

// Score returns the record's total rule score.
func (r *RankedRecord) Score() float64 {
	return r.RuleAnalysis.TotalScore
}

// FileResult is the outcome of analyzing a single file. Err is set when the
// file was skipped; Records is empty in that case.
type FileResult struct {
	Path     string
	Language string
	Records  []RankedRecord
	Err      error
}

// Failure describes a file that could not be analyzed.
type Failure struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// Report is the complete result of one scan, ready for serialization.
type Report struct {
	Root          string         `json:"root" yaml:"root"`
	FilesScanned  int            `json:"files_scanned" yaml:"files_scanned"`
	FilesAnalyzed int            `json:"files_analyzed" yaml:"files_analyzed"`
	UnitsFound    int            `json:"units_found" yaml:"units_found"`
	Languages     []string       `json:"languages" yaml:"languages"`
	Failures      []Failure      `json:"failures,omitempty" yaml:"failures,omitempty"`
	Functions     []RankedRecord `json:"functions" yaml:"functions"`
}
