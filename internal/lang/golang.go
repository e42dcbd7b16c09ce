package lang

func init() {
	register(newProfile(
		"go",
		[]string{".go"},
		// Receivers are optional; generic receivers are not recognised.
		`\bfunc\s+(?:\(\w+\s+\*?\w+\)\s+)?(\w+)\s*\(`,
		`\btype\s+(\w+)\s+struct`,
		[]string{"if", "for", "switch", "case", "select"},
		cComments...,
	))
}

// cComments are the comment patterns shared by C-family languages.
var cComments = []string{`//.*`, `/\*[\s\S]*?\*/`}

// cKeywords are the branching keywords shared by C-family languages.
var cKeywords = []string{"if", "else", "for", "while", "switch", "case", "try", "catch"}
