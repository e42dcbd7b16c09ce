// Package ranking orders scored units and renders their addresses.
package ranking

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/phobologic/cxscan/internal/model"
)

// DefaultLimit is the number of records kept when no limit is given.
const DefaultLimit = 100

// Rank sorts records by descending total score and returns at most limit of
// them. Ties keep their input (discovery) order. If limit is <= 0,
// DefaultLimit applies. The input slice is not modified.
func Rank(records []model.RankedRecord, limit int) []model.RankedRecord {
	if limit <= 0 {
		limit = DefaultLimit
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b model.RankedRecord) int {
		switch {
		case a.Score() > b.Score():
			return -1
		case a.Score() < b.Score():
			return 1
		default:
			return 0
		}
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// FileURL renders a local file reference for an absolute path.
func FileURL(absPath string) string {
	p := filepath.ToSlash(absPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}

// Permalink renders "<base>/<rel>#L<start>-L<end>". rel is converted to
// forward slashes. With an empty base only the path and anchor are returned.
func Permalink(base, rel string, start, end int) string {
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "/")
	anchor := fmt.Sprintf("#L%d-L%d", start, end)
	if base == "" {
		return rel + anchor
	}
	return strings.TrimRight(base, "/") + "/" + rel + anchor
}

// Decorate fills the address fields of r from the scanned root, the file's
// path relative to it and the permalink base.
func Decorate(r *model.RankedRecord, root, rel, base string) {
	r.Path = filepath.ToSlash(rel)
	r.FileURL = FileURL(filepath.Join(root, rel))
	r.GithubURL = Permalink(base, rel, r.StartLine, r.EndLine)
}
