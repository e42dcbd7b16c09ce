package ranking

import (
	"fmt"
	"testing"

	"github.com/phobologic/cxscan/internal/model"
)

func record(name string, score float64) model.RankedRecord {
	return model.RankedRecord{
		FunctionName: name,
		RuleAnalysis: model.ComplexityMetrics{TotalScore: score},
	}
}

func makeRecords() []model.RankedRecord {
	return []model.RankedRecord{
		record("low", 1.5),
		record("high", 40),
		record("tieA", 10),
		record("mid", 20),
		record("tieB", 10),
	}
}

func TestRankOrder(t *testing.T) {
	t.Parallel()

	got := Rank(makeRecords(), 0)
	want := []string{"high", "mid", "tieA", "tieB", "low"}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].FunctionName != name {
			t.Errorf("position %d: got %q, want %q", i, got[i].FunctionName, name)
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := makeRecords()
	_ = Rank(in, 2)
	if in[0].FunctionName != "low" {
		t.Errorf("input reordered: first = %q", in[0].FunctionName)
	}
}

func TestRankLimit(t *testing.T) {
	t.Parallel()

	got := Rank(makeRecords(), 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].FunctionName != "high" || got[1].FunctionName != "mid" {
		t.Errorf("expected high, mid; got %s, %s", got[0].FunctionName, got[1].FunctionName)
	}
}

func TestRankDefaultLimit(t *testing.T) {
	t.Parallel()

	var in []model.RankedRecord
	for i := range 250 {
		in = append(in, record(fmt.Sprintf("f%d", i), float64(i%37)))
	}

	got := Rank(in, -1)
	if len(got) != DefaultLimit {
		t.Fatalf("expected %d records, got %d", DefaultLimit, len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score() > got[i-1].Score() {
			t.Fatalf("score increases at %d: %v > %v", i, got[i].Score(), got[i-1].Score())
		}
	}
}

func TestRankEmpty(t *testing.T) {
	t.Parallel()

	if got := Rank(nil, 10); len(got) != 0 {
		t.Errorf("expected no records, got %d", len(got))
	}
}

func TestPermalink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		rel  string
		want string
	}{
		{"trailing slash", "https://github.com/o/r/blob/main/", "src/a.go", "https://github.com/o/r/blob/main/src/a.go#L3-L9"},
		{"no trailing slash", "https://github.com/o/r/blob/main", "src/a.go", "https://github.com/o/r/blob/main/src/a.go#L3-L9"},
		{"empty base", "", "src/a.go", "src/a.go#L3-L9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Permalink(tt.base, tt.rel, 3, 9); got != tt.want {
				t.Errorf("Permalink = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileURL(t *testing.T) {
	t.Parallel()

	if got := FileURL("/repo/src/a.go"); got != "file:///repo/src/a.go" {
		t.Errorf("FileURL = %q", got)
	}
}

func TestDecorate(t *testing.T) {
	t.Parallel()

	r := model.RankedRecord{StartLine: 4, EndLine: 12}
	Decorate(&r, "/repo", "pkg/x.go", "https://example.com/blob/main/")

	if r.Path != "pkg/x.go" {
		t.Errorf("Path = %q", r.Path)
	}
	if r.FileURL != "file:///repo/pkg/x.go" {
		t.Errorf("FileURL = %q", r.FileURL)
	}
	if r.GithubURL != "https://example.com/blob/main/pkg/x.go#L4-L12" {
		t.Errorf("GithubURL = %q", r.GithubURL)
	}
}
