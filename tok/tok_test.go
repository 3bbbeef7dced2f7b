package tok

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, src string) *Token {
	t.Helper()
	tz := NewTokenizer()
	head, err := tz.Tokenize(src, "test.c", "", true)
	require.NoError(t, err)
	return head
}

func TestTokenizeIdentifiersAndNumbers(t *testing.T) {
	head := tokenize(t, "( FOO + 12 )")
	require.NotNil(t, head)
	assert.Equal(t, "(", head.Str)
	assert.True(t, Match(head, "( %var% + %num% )"))
}

func TestMatchAlternation(t *testing.T) {
	head := tokenize(t, "A , B ) C")
	assert.True(t, Match(head.TokAt(1), ",|)"))
	assert.True(t, Match(head.TokAt(3), ",|)"))
	assert.False(t, Match(head, ",|)"))
}

func TestFindMatch(t *testing.T) {
	head := tokenize(t, "int x ) foo (")
	found := FindMatch(head, ")")
	require.NotNil(t, found)
	assert.Equal(t, ")", found.Str)
	assert.True(t, Match(found, ") %var% ("))
}

func TestDeleteThisAndDeleteNext(t *testing.T) {
	head := tokenize(t, "A B C D")
	head.DeleteNext() // remove B
	assert.Equal(t, "A", head.Str)
	assert.Equal(t, "C", head.next.Str)

	head.DeleteThis() // A folds into C
	assert.Equal(t, "C", head.Str)
	assert.Equal(t, "D", head.next.Str)
}

func TestSimplifyCalculationsFoldsArithmetic(t *testing.T) {
	head := tokenize(t, "( 1 + 2 )")
	tz := NewTokenizer()
	tz.SimplifyCalculations(head)
	assert.Equal(t, "3", head.Str)
	assert.Nil(t, head.next)
}

func TestSimplifyCalculationsChain(t *testing.T) {
	head := tokenize(t, "1 || 0")
	tz := NewTokenizer()
	tz.SimplifyCalculations(head)
	assert.Equal(t, "1", head.Str)
	assert.Nil(t, head.next)
}
