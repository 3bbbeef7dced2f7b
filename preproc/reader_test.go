package preproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormaliseRawFoldsNewlines(t *testing.T) {
	out := normaliseRaw("a\r\nb\rc\n")
	assert.Equal(t, "a\nb\nc\n", out)
}

func TestNormaliseRawJoinsBackslashContinuation(t *testing.T) {
	out := normaliseRaw("int x =\\\n1;\n")
	assert.Equal(t, "int x =1;\n\n", out)
}

func TestNormaliseRawSpacesHashParen(t *testing.T) {
	out := normaliseRaw("#if(A)\n")
	assert.Equal(t, "#if (A)\n", out)
}

func TestNormaliseRawSquashesWhitespace(t *testing.T) {
	out := normaliseRaw("int   x\t\ty;\n")
	assert.Equal(t, "int x y;\n", out)
}
