package preproc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manan288/cppcheck/tok"
)

type stubOpener map[string]string

func (s stubOpener) Open(path string) (string, error) {
	if body, ok := s[path]; ok {
		return body, nil
	}
	return "", assert.AnError
}

type identityCanon struct{}

func (identityCanon) SimplifyPath(p string) string       { return p }
func (identityCanon) ToNativeSeparators(p string) string { return p }

func TestPreprocessEndToEnd(t *testing.T) {
	src := "#ifdef FEATURE\nint on(void) { return 1; }\n#else\nint on(void) { return 0; }\n#endif\n"
	sink := NewMemorySink()
	pp := NewPreprocessor(&Settings{}, sink, tok.NewTokenizer(), identityCanon{}, stubOpener{}, nil)

	results, err := pp.Preprocess(context.Background(), src, "t.c")
	require.NoError(t, err)
	require.Contains(t, results, "")
	require.Contains(t, results, "FEATURE")
	assert.Contains(t, results[""], "return 0;")
	assert.Contains(t, results["FEATURE"], "return 1;")
}

func TestPreprocessInlinesIncludes(t *testing.T) {
	opener := stubOpener{"header.h": "#define GREETING 1\n"}
	src := "#include \"header.h\"\nint g = GREETING;\n"
	sink := NewMemorySink()
	pp := NewPreprocessor(&Settings{}, sink, tok.NewTokenizer(), identityCanon{}, opener, nil)

	results, err := pp.Preprocess(context.Background(), src, "t.c")
	require.NoError(t, err)
	assert.Contains(t, results[""], "int g = 1;")
}

func TestPreprocessUserDefinesSkipsEnumeration(t *testing.T) {
	src := "#ifdef FEATURE\nint on(void) { return 1; }\n#endif\n"
	sink := NewMemorySink()
	pp := NewPreprocessor(&Settings{UserDefines: "FEATURE"}, sink, tok.NewTokenizer(), identityCanon{}, stubOpener{}, nil)

	results, err := pp.Preprocess(context.Background(), src, "t.c")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results["FEATURE"], "return 1;")
}
