package lang

import (
	"path/filepath"
	"strings"
)

// skipFiles are infrastructure and config filenames, lowercased.
var skipFiles = map[string]struct{}{
	"package.json": {}, "package-lock.json": {}, "yarn.lock": {}, "pom.xml": {},
	"build.gradle": {}, "settings.gradle": {}, "gradle.properties": {}, "build.xml": {},
	"ivy.xml": {}, "makefile": {}, "cmake": {}, "cmakecache.txt": {},
	"requirements.txt": {}, "pipfile": {}, "pipfile.lock": {}, "poetry.lock": {},
	"composer.json": {}, "composer.lock": {}, "gemfile": {}, "gemfile.lock": {},
	".gitignore": {}, ".gitattributes": {}, ".gitmodules": {}, ".dockerignore": {},
	"dockerfile": {}, "readme.md": {}, "readme.txt": {}, "readme.rst": {},
	"license": {}, "license.txt": {}, "license.md": {}, "changelog.md": {},
	"changelog.txt": {}, "contributing.md": {}, "code_of_conduct.md": {},
	".editorconfig": {}, ".eslintrc": {}, ".prettierrc": {}, "tsconfig.json": {},
	"jsconfig.json": {}, ".babelrc": {}, "webpack.config.js": {}, ".travis.yml": {},
	".circleci": {}, "appveyor.yml": {}, "jenkinsfile": {}, ".github": {},
	"schema.sql": {}, "seeds.sql": {}, "todo.txt": {}, "notes.txt": {},
	"manifest.mf": {}, "meta-inf": {},
}

// skipExtensions are non-source extensions, lowercased with leading dot.
var skipExtensions = map[string]struct{}{
	// docs and data
	".md": {}, ".txt": {}, ".rst": {}, ".pdf": {}, ".doc": {}, ".docx": {},
	".json": {}, ".xml": {}, ".yaml": {}, ".yml": {}, ".ini": {}, ".cfg": {},
	".conf": {}, ".properties": {}, ".env": {}, ".local": {}, ".g4": {},
	// media
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".svg": {}, ".ico": {},
	".bmp": {}, ".mp3": {}, ".mp4": {}, ".avi": {}, ".mov": {}, ".wav": {},
	// archives and binaries
	".zip": {}, ".tar": {}, ".gz": {}, ".7z": {}, ".rar": {}, ".exe": {},
	".dll": {}, ".so": {}, ".dylib": {}, ".jar": {}, ".war": {}, ".ear": {},
	".db": {}, ".sqlite": {}, ".sqlite3": {}, ".mdb": {},
	".log": {}, ".tmp": {}, ".temp": {}, ".cache": {}, ".lock": {},
	// credentials
	".pem": {}, ".key": {}, ".crt": {}, ".cert": {},
	// scripts
	".sh": {}, ".bash": {}, ".zsh": {}, ".fish": {}, ".bat": {}, ".cmd": {},
	".ps1": {}, ".psm1": {},
}

// IsExcluded reports whether path names an infrastructure file or carries a
// non-source extension. Matching is case-insensitive.
func IsExcluded(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	if _, ok := skipFiles[name]; ok {
		return true
	}
	_, ok := skipExtensions[filepath.Ext(name)]
	return ok
}
