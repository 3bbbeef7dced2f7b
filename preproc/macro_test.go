package preproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefineLineObjectMacro(t *testing.T) {
	m, ok := parseDefineLine("MAX 100")
	require.True(t, ok)
	assert.Equal(t, "MAX", m.Name)
	assert.Equal(t, "100", m.Body)
	assert.False(t, m.IsFunc)
}

func TestParseDefineLineEmptyBody(t *testing.T) {
	m, ok := parseDefineLine("DEBUG_FLAG")
	require.True(t, ok)
	assert.Equal(t, "", m.Body)
}

func TestParseDefineLineFunctionMacro(t *testing.T) {
	m, ok := parseDefineLine("SQUARE(x) ((x) * (x))")
	require.True(t, ok)
	assert.True(t, m.IsFunc)
	assert.Equal(t, []string{"x"}, m.Params)
	assert.Equal(t, "((x) * (x))", m.Body)
}

func TestParseDefineLineVariadic(t *testing.T) {
	m, ok := parseDefineLine("LOG(fmt, ...) printf(fmt, __VA_ARGS__)")
	require.True(t, ok)
	assert.True(t, m.Variadic)
	assert.Equal(t, []string{"fmt"}, m.Params)
}

func TestDefineWithUnspacedParenIsFunctionLike(t *testing.T) {
	m, _ := parseDefineLine("F(x) x")
	assert.True(t, m.IsFunc)
}

func TestParseUndefLine(t *testing.T) {
	name, ok := parseUndefLine("  FOO  ")
	require.True(t, ok)
	assert.Equal(t, "FOO", name)
}

func TestIsNopar(t *testing.T) {
	nopar, ok := parseDefineLine("F() 1")
	require.True(t, ok)
	assert.True(t, nopar.IsNopar())

	withParams, _ := parseDefineLine("SQUARE(x) ((x) * (x))")
	assert.False(t, withParams.IsNopar())

	objectLike, _ := parseDefineLine("MAX 100")
	assert.False(t, objectLike.IsNopar())
}
