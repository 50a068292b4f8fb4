package ojtemplate

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	_ "embed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ojtools/ojtemplate/format"
	"github.com/ojtools/ojtemplate/style"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	//go:embed testdata/array.yaml
	arrayFormat []byte
	//go:embed testdata/array.main.cpp
	arrayMainCPlusPlus string
	//go:embed testdata/array.main.py
	arrayMainPython string
	//go:embed testdata/array.generate.py
	arrayGeneratePython string
)

func arrayProblem(t *testing.T) Problem {
	t.Helper()
	root, err := format.Decode(arrayFormat)
	require.NoError(t, err)
	return Problem{Input: root}
}

func TestGenerateBuiltinTemplates(t *testing.T) {
	gen, err := NewGenerator(nil, nil)
	require.NoError(t, err)
	p := arrayProblem(t)
	for name, want := range map[string]string{
		"main.cpp":    arrayMainCPlusPlus,
		"main.py":     arrayMainPython,
		"generate.py": arrayGeneratePython,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := gen.Generate(context.Background(), p, name)
			require.NoError(t, err)
			assert.Equal(t, want, string(got))
		})
	}
}

func TestGenerateStyle(t *testing.T) {
	cfg, err := style.New(style.WithRepMacro("REP"), style.WithScanner(style.Cin), style.WithPrinter(style.Cout))
	require.NoError(t, err)
	gen, err := NewGenerator(nil, cfg)
	require.NoError(t, err)
	got, err := gen.Generate(context.Background(), arrayProblem(t), "main.cpp")
	require.NoError(t, err)
	src := string(got)
	assert.Contains(t, src, "#define REP(i, n) for (int i = 0; (i) < (int)(n); ++ (i))\n")
	assert.Contains(t, src, "    REP(i, n) {\n        cin >> a[i];\n    }\n")
	assert.Contains(t, src, "    cout << ans << endl;\n")
}

func TestGenerateNoFormat(t *testing.T) {
	gen, err := NewGenerator(nil, nil)
	require.NoError(t, err)
	out, err := gen.Generate(context.Background(), Problem{}, "main.cpp")
	assert.ErrorIs(t, err, ErrNoFormat)
	assert.Nil(t, out)
	out, err = gen.Generate(context.Background(), Problem{Input: (*format.Sequence)(nil)}, "main.cpp")
	assert.ErrorIs(t, err, ErrNoFormat)
	assert.Nil(t, out)
}

func TestGenerateHookFailure(t *testing.T) {
	cfg, err := style.Decode([]byte("scanner: {template: '{{slice . 0 4}};'}"))
	require.NoError(t, err)
	gen, err := NewGenerator(nil, cfg)
	require.NoError(t, err)
	got, err := gen.Generate(context.Background(), arrayProblem(t), "main.cpp")
	assert.ErrorIs(t, err, style.ErrUnsupportedOption)
	assert.Nil(t, got)
}

func TestGenerateUserTemplates(t *testing.T) {
	user := fstest.MapFS{
		"main.cpp":       {Data: []byte("// {{.CPlusPlus.Arguments}}\n")},
		"nested/sig.txt": {Data: []byte("{{.Python.ArgumentsTypes}} -> {{.Python.ReturnType}}")},
		"deep.txt":       {Data: []byte("{{.CPlusPlus.ReadInput 0}}\n--\n{{.Python.WriteInput 0}}")},
	}
	host, err := NewTemplateHost(user)
	require.NoError(t, err)
	gen, err := NewGenerator(host, nil)
	require.NoError(t, err)
	p := arrayProblem(t)
	ctx := context.Background()

	got, err := gen.Generate(ctx, p, "main.cpp")
	require.NoError(t, err)
	assert.Equal(t, "// n, a\n", string(got), "user template shadows the builtin one")

	got, err = gen.Generate(ctx, p, "nested/sig.txt")
	require.NoError(t, err)
	assert.Equal(t, "n: int, a: List[int] -> Any", string(got))

	got, err = gen.Generate(ctx, p, "deep.txt")
	require.NoError(t, err)
	assert.Equal(t, "int n;\n"+
		"scanf(\"%d\", &n);\n"+
		"vector<int> a(n, int());\n"+
		"for (int i = 0; i < n; ++i) {\n"+
		"    scanf(\"%d\", &a[i]);\n"+
		"}\n"+
		"--\n"+
		"print(n, end=' ')\n"+
		"print()\n"+
		"for i in range(n):\n"+
		"    print(a[i], end=' ')", string(got))

	got, err = gen.Generate(ctx, p, "main.py")
	require.NoError(t, err)
	assert.Equal(t, arrayMainPython, string(got), "builtin templates stay reachable")

	for _, name := range []string{"missing.cpp", "../main.cpp", "/main.cpp", ""} {
		_, err = gen.Generate(ctx, p, name)
		assert.ErrorIs(t, err, ErrTemplateNotFound, name)
	}
}

func TestGenerateFilter(t *testing.T) {
	user := fstest.MapFS{
		"upper.txt":  {Data: []byte(`{{.FilterCommand "tr" "a-z" "A-Z"}}int {{.CPlusPlus.Arguments}};`)},
		"twice.txt":  {Data: []byte(`{{.FilterCommand "cat"}}{{.FilterCommand "cat"}}`)},
		"empty.txt":  {Data: []byte(`{{.FilterCommand}}`)},
		"failed.txt": {Data: []byte(`{{.FilterCommand "false"}}x`)},
	}
	host, err := NewTemplateHost(user)
	require.NoError(t, err)
	var calls [][]string
	filter := func(ctx context.Context, command []string, input []byte) ([]byte, error) {
		calls = append(calls, command)
		if command[0] == "false" {
			return nil, errors.New("exit status 1")
		}
		return bytes.ToUpper(input), nil
	}
	gen, err := NewGenerator(host, nil, WithFilter(filter))
	require.NoError(t, err)
	p := arrayProblem(t)
	ctx := context.Background()

	got, err := gen.Generate(ctx, p, "upper.txt")
	require.NoError(t, err)
	assert.Equal(t, "INT N, A;", string(got))
	assert.Equal(t, [][]string{{"tr", "a-z", "A-Z"}}, calls)

	_, err = gen.Generate(ctx, p, "twice.txt")
	assert.ErrorIs(t, err, ErrFilterRegistered)

	_, err = gen.Generate(ctx, p, "empty.txt")
	assert.ErrorContains(t, err, "filter command is empty")

	got, err = gen.Generate(ctx, p, "failed.txt")
	assert.ErrorContains(t, err, "exit status 1")
	assert.Nil(t, got)
}

func TestGenerateEmitterError(t *testing.T) {
	cfg := style.Default()
	gen, err := NewGenerator(nil, cfg)
	require.NoError(t, err)
	cfg.Scanner.Builtin = "gets"
	got, err := gen.Generate(context.Background(), arrayProblem(t), "main.cpp")
	assert.ErrorIs(t, err, style.ErrUnsupportedOption)
	assert.Nil(t, got)
}

func TestGenerateAllSkipsFailures(t *testing.T) {
	user := fstest.MapFS{
		"bad.tmpl": {Data: []byte(`{{.FilterCommand "a"}}{{.FilterCommand "b"}}`)},
	}
	host, err := NewTemplateHost(user)
	require.NoError(t, err)
	core, logs := observer.New(zap.ErrorLevel)
	gen, err := NewGenerator(host, nil, WithLogger(zap.New(core)), WithParallelism(2))
	require.NoError(t, err)

	results := gen.GenerateAll(context.Background(), arrayProblem(t), map[string]string{
		"main.cpp":    "main.cpp",
		"generate.py": "generate.py",
		"bad.cpp":     "bad.tmpl",
		"missing.cpp": "missing.cpp",
	})
	require.Len(t, results, 4)
	files := make([]string, len(results))
	for i, r := range results {
		files[i] = r.File
	}
	assert.Equal(t, []string{"bad.cpp", "generate.py", "main.cpp", "missing.cpp"}, files)

	assert.ErrorIs(t, results[0].Err, ErrFilterRegistered)
	assert.Nil(t, results[0].Output)
	require.NoError(t, results[1].Err)
	assert.Equal(t, arrayGeneratePython, string(results[1].Output))
	require.NoError(t, results[2].Err)
	assert.Equal(t, arrayMainCPlusPlus, string(results[2].Output))
	assert.ErrorIs(t, results[3].Err, ErrTemplateNotFound)

	assert.Equal(t, 2, logs.FilterMessage("skip file").Len())
}

func TestGenerateAllNoFormat(t *testing.T) {
	gen, err := NewGenerator(nil, nil)
	require.NoError(t, err)
	results := gen.GenerateAll(context.Background(), Problem{}, map[string]string{"main.cpp": "main.cpp"})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, ErrNoFormat)
}

func TestGenerateAmbiguityWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	gen, err := NewGenerator(nil, nil, WithLogger(zap.New(core)))
	require.NoError(t, err)
	root := seq(
		loop("i", "n", item("a", "i")),
		loop("i", "n", loop("j", "m", item("a", "i", "j"))),
	)
	_, err = gen.Generate(context.Background(), Problem{Input: root}, "main.cpp")
	require.NoError(t, err)
	entries := logs.FilterMessage("ambiguous dimensions, using first occurrence").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].ContextMap()["var"])
}

func TestGenerateConcurrent(t *testing.T) {
	gen, err := NewGenerator(nil, nil, WithParallelism(8))
	require.NoError(t, err)
	p := arrayProblem(t)
	files := map[string]string{}
	for _, dir := range []string{"a", "b", "c", "d", "e", "f"} {
		files[dir+"/main.cpp"] = "main.cpp"
		files[dir+"/main.py"] = "main.py"
	}
	for _, r := range gen.GenerateAll(context.Background(), p, files) {
		if !assert.NoError(t, r.Err, r.File) {
			continue
		}
		want := arrayMainPython
		if strings.HasSuffix(r.File, ".cpp") {
			want = arrayMainCPlusPlus
		}
		assert.Equal(t, want, string(r.Output), r.File)
	}
}

func TestNewGeneratorInvalidStyle(t *testing.T) {
	_, err := NewGenerator(nil, &style.Config{Printer: style.Printer{Builtin: "puts"}})
	assert.ErrorIs(t, err, style.ErrUnsupportedOption)
}
