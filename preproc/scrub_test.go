package preproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrubLineComment(t *testing.T) {
	out := scrubComments("int x; // trailing\nint y;\n", "t.c", nil, nil)
	assert.Equal(t, "int x; \nint y;\n", out)
}

func TestScrubBlockCommentPreservesNewlines(t *testing.T) {
	out := scrubComments("a/*\nb\nc*/d\n", "t.c", nil, nil)
	assert.Equal(t, "a\n\n d\n", out)
}

func TestScrubLeavesStringLiteralsAlone(t *testing.T) {
	out := scrubComments(`char *s = "// not a comment";` + "\n", "t.c", nil, nil)
	assert.Equal(t, `char *s = "// not a comment";`+"\n", out)
}

func TestScrubInlineSuppression(t *testing.T) {
	sink := NewMemorySink()
	settings := &Settings{InlineSuppressions: true, Suppressions: sink}
	out := scrubComments("// cppcheck-suppress nullPointer\nint *p = 0;\n", "t.c", sink, settings)
	assert.Equal(t, "\nint *p = 0;\n", out)
}
