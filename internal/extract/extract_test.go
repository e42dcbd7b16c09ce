package extract

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/cxscan/internal/lang"
	"github.com/phobologic/cxscan/internal/model"
)

func profile(t *testing.T, name string) *lang.Profile {
	t.Helper()
	p, ok := lang.Get(name)
	require.True(t, ok, "%s not registered", name)
	return p
}

func collect(t *testing.T, src, language string, opts Options) []model.FunctionUnit {
	t.Helper()
	return slices.Collect(Functions(src, profile(t, language), opts))
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "a", []string{"a"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb", []string{"a", "b"}},
		{"bare cr", "a\rb\rc", []string{"a", "b", "c"}},
		{"blank tail kept", "a\n\n", []string{"a", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SplitLines(tt.in))
		})
	}
}

func TestStripStringLiterals(t *testing.T) {
	t.Parallel()

	got := StripStringLiterals(`x := "a{b" + 'c}' + "esc\"}" + y{`)
	assert.Equal(t, 1, strings.Count(got, "{"))
	assert.Equal(t, 0, strings.Count(got, "}"))
	assert.Contains(t, got, "y{")
}

func TestBraceFunctionSingleLine(t *testing.T) {
	t.Parallel()

	units := collect(t, "function f(a,b){ if(a){ for(x;y;z){} } }", "cpp", Options{})
	require.Len(t, units, 1)
	assert.Equal(t, "f", units[0].Name)
	assert.Equal(t, 1, units[0].StartLine)
	assert.Equal(t, 1, units[0].EndLine)
}

func TestBraceFunctionMultiLine(t *testing.T) {
	t.Parallel()

	src := `// helper
function f(a,b){
  if(a){
    for(x;y;z){}
  }
}

function g(){
}
`
	units := collect(t, src, "cpp", Options{})
	require.Len(t, units, 2)

	assert.Equal(t, "f", units[0].Name)
	assert.Equal(t, 2, units[0].StartLine)
	assert.Equal(t, 6, units[0].EndLine)
	assert.Len(t, units[0].Lines, 5)
	assert.Equal(t, "cpp", units[0].Language)

	assert.Equal(t, "g", units[1].Name)
	assert.Equal(t, 8, units[1].StartLine)
	assert.Equal(t, 9, units[1].EndLine)
}

func TestMultiLineSignature(t *testing.T) {
	t.Parallel()

	src := `package x

func longSig(
	a int,
	b int,
) error {
	return nil
}
`
	units := collect(t, src, "go", Options{})
	require.Len(t, units, 1)
	u := units[0]
	assert.Equal(t, "longSig", u.Name)
	assert.Equal(t, 3, u.StartLine)
	assert.Equal(t, 8, u.EndLine)
	assert.Equal(t, u.EndLine-u.StartLine+1, len(u.Lines))
	assert.Equal(t, ") error {", u.Lines[3])
}

func TestSignatureWithoutBodyIsAbandoned(t *testing.T) {
	t.Parallel()

	src := `public class Shape {
    public void Draw() {
        Render();
    }
}
public abstract void Area();
public abstract void Perimeter();
`
	units := collect(t, src, "csharp", Options{})
	names := make([]string, len(units))
	for i, u := range units {
		names[i] = u.Name
	}
	assert.NotContains(t, names, "Area")
	assert.NotContains(t, names, "Perimeter")
	assert.Contains(t, names, "Draw")
}

func TestDanglingSignatureAtEOF(t *testing.T) {
	t.Parallel()

	src := "func ok() {\n}\nfunc dangling(a int,\n\tb int)"
	units := collect(t, src, "go", Options{})
	require.Len(t, units, 1)
	assert.Equal(t, "ok", units[0].Name)
}

func TestBracesInStringsIgnored(t *testing.T) {
	t.Parallel()

	src := `func s() {
	x := "}"
	y := '{'
	return
}
func t() {
}
`
	units := collect(t, src, "go", Options{})
	require.Len(t, units, 2)
	assert.Equal(t, 1, units[0].StartLine)
	assert.Equal(t, 5, units[0].EndLine)
	assert.Equal(t, "t", units[1].Name)
}

func TestUnterminatedBodyRunsToEOF(t *testing.T) {
	t.Parallel()

	src := "func open() {\n\tif x {\n\t\ty()\n"
	units := collect(t, src, "go", Options{})
	require.Len(t, units, 1)
	assert.Equal(t, 3, units[0].EndLine)
}

func TestClassContext(t *testing.T) {
	t.Parallel()

	src := `public class Foo {
  public int bar(int a) {
    return a;
  }
}
`
	units := collect(t, src, "java", Options{})
	require.Len(t, units, 1)
	assert.Equal(t, "bar", units[0].Name)
	assert.Equal(t, "Foo", units[0].Class)
	assert.Equal(t, 2, units[0].StartLine)
	assert.Equal(t, 4, units[0].EndLine)
}

func TestUnitsDoNotOverlap(t *testing.T) {
	t.Parallel()

	src := `func a() {
	inner := func() {
	}
	inner()
}
func b() {
}
`
	units := collect(t, src, "go", Options{})
	require.Len(t, units, 2)
	for i := 1; i < len(units); i++ {
		assert.Greater(t, units[i].StartLine, units[i-1].EndLine)
	}
}

func TestDeterministic(t *testing.T) {
	t.Parallel()

	src := `func a() {
	if x {
	}
}
func b(x, y int) {
	for {
	}
}
`
	first := collect(t, src, "go", Options{})
	second := collect(t, src, "go", Options{})
	assert.Equal(t, first, second)
}

func TestEarlyStop(t *testing.T) {
	t.Parallel()

	src := "func a() {\n}\nfunc b() {\n}\nfunc c() {\n}\n"
	var seen []string
	for u := range Functions(src, profile(t, "go"), Options{}) {
		seen = append(seen, u.Name)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestNilProfile(t *testing.T) {
	t.Parallel()

	assert.Empty(t, slices.Collect(Functions("func a() {}", nil, Options{})))
}

const pythonSrc = `class A:
    def m(self, x):
        if x:
            return 1

        return 2

def top():
    pass
`

func TestPythonRequiresBraceByDefault(t *testing.T) {
	t.Parallel()

	assert.Empty(t, collect(t, pythonSrc, "python", Options{}))

	// A later dict literal supplies the brace the state machine waits for.
	withDict := "def f():\n    x = 1\n    y = {\"a\": 1}\n"
	units := collect(t, withDict, "python", Options{})
	require.Len(t, units, 1)
	assert.Equal(t, "f", units[0].Name)
	assert.Equal(t, 3, units[0].EndLine)
}

func TestPythonIndentBodies(t *testing.T) {
	t.Parallel()

	units := collect(t, pythonSrc, "python", Options{IndentBodies: true})
	require.Len(t, units, 2)

	assert.Equal(t, "m", units[0].Name)
	assert.Equal(t, "A", units[0].Class)
	assert.Equal(t, 2, units[0].StartLine)
	assert.Equal(t, 6, units[0].EndLine)

	assert.Equal(t, "top", units[1].Name)
	assert.Equal(t, 8, units[1].StartLine)
	assert.Equal(t, 9, units[1].EndLine)
}

func TestIndentBodiesIgnoredForBraceLanguages(t *testing.T) {
	t.Parallel()

	src := "func a() {\n\tb()\n}\n"
	units := collect(t, src, "go", Options{IndentBodies: true})
	require.Len(t, units, 1)
	assert.Equal(t, 3, units[0].EndLine)
}
