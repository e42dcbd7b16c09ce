package lang

func init() {
	p := newProfile(
		"python",
		[]string{".py"},
		`^\s*def\s+(\w+)\s*\(`,
		`^\s*class\s+(\w+)`,
		[]string{"if", "elif", "for", "while", "try", "except", "with"},
		`#.*`, `"""[\s\S]*?"""`, `'''[\s\S]*?'''`,
	)
	p.IndentBased = true
	register(p)
}
