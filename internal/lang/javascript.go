package lang

// jsReserved are words the method patterns would otherwise capture as names.
var jsReserved = []string{"if", "for", "while", "switch", "catch", "with", "return", "function"}

func init() {
	jsKeywords := []string{"if", "else", "for", "while", "switch", "case", "try", "catch"}

	register(newProfile(
		"javascript",
		[]string{".js", ".jsx", ".mjs", ".cjs"},
		`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*(\w+)\s*\(`+
			`|^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?\([^)]*\)\s*=>`+
			`|^\s*(?:static\s+)?(?:async\s+)?(\w+)\s*\([^)]*\)\s*\{`,
		`\bclass\s+(\w+)`,
		jsKeywords,
		cComments...,
	).reserve(jsReserved...))

	register(newProfile(
		"typescript",
		[]string{".ts", ".tsx", ".mts", ".cts"},
		`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*(\w+)\s*(?:<[^>]*>)?\s*\(`+
			`|^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)\s*(?::[^=]+)?=\s*(?:async\s+)?\([^)]*\)\s*(?::[^=]+)?=>`+
			`|^\s*(?:(?:public|private|protected|static|async|readonly|abstract|override)\s+)*(\w+)\s*(?:<[^>]*>)?\s*\([^)]*\)\s*(?::\s*[^{]+)?\{`,
		`\b(?:class|interface)\s+(\w+)`,
		jsKeywords,
		cComments...,
	).reserve(jsReserved...))
}
