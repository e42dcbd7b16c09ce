package lang

func init() {
	register(newProfile(
		"java",
		[]string{".java"},
		`^\s*(?:public|protected|private)?\s*(?:static\s+)?(?:[\w<>\[\]]+\s+)+(\w+)\s*\([^)]*\)\s*(?:throws\s+\w+(?:\s*,\s*\w+)*)?\s*\{`,
		`\b(?:public|private)?\s*class\s+(\w+)`,
		cKeywords,
		cComments...,
	))

	register(newProfile(
		"csharp",
		[]string{".cs"},
		`\b(?:public|private|protected)?\s*(?:static)?\s*\w+\s+(\w+)\s*\(`,
		`\b(?:public|private)?\s*class\s+(\w+)`,
		cKeywords,
		cComments...,
	))

	register(newProfile(
		"cpp",
		[]string{".cpp", ".cc", ".cxx", ".c", ".h", ".hpp"},
		`\b\w+\s+(\w+)\s*\([^)]*\)\s*\{`,
		`\bclass\s+(\w+)`,
		cKeywords,
		cComments...,
	))
}
