package preproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormaliseDirectivesStripsRedundantParens(t *testing.T) {
	out := normaliseDirectives("#if (FOO)\n")
	assert.Equal(t, "#if FOO\n", out)
}

func TestNormaliseDirectivesRewritesDefinedOnly(t *testing.T) {
	out := normaliseDirectives("#if defined ( FOO )\n")
	assert.Equal(t, "#ifdef FOO\n", out)
}

func TestNormaliseDirectivesRewritesNotDefinedOnly(t *testing.T) {
	out := normaliseDirectives("#if ! defined(FOO)\n")
	assert.Equal(t, "#ifndef FOO\n", out)
}

func TestNormaliseDirectivesKeepsCompoundDefined(t *testing.T) {
	out := normaliseDirectives("#if defined(A) && defined(B)\n")
	assert.Equal(t, "#if defined(A) && defined(B)\n", out)
}

func TestRemoveAsmBlocks(t *testing.T) {
	out := removeAsmBlocks("x();\nasm(\"nop\");\ny();\n")
	assert.Equal(t, "x();\n\ny();\n", out)
}

func TestStripOuterParens(t *testing.T) {
	assert.Equal(t, "A", stripOuterParens("((A))"))
	// Not fully wrapped by a single matching pair, so left untouched.
	assert.Equal(t, "(A) || (B)", stripOuterParens("(A) || (B)"))
}
