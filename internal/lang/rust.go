package lang

func init() {
	register(newProfile(
		"rust",
		[]string{".rs"},
		`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:const\s+)?(?:async\s+)?(?:unsafe\s+)?(?:extern\s+"[^"]*"\s+)?fn\s+(\w+)`,
		`\b(?:struct|enum|trait)\s+(\w+)|\bimpl(?:<[^>]*>)?\s+(?:\w+\s+for\s+)?(\w+)`,
		[]string{"if", "else", "for", "while", "loop", "match"},
		cComments...,
	))
}
