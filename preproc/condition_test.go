package preproc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manan288/cppcheck/tok"
)

func TestEvaluateConditionBareIdent(t *testing.T) {
	tz := tok.NewTokenizer()
	assert.True(t, EvaluateCondition(tz, "FOO", map[string]string{"FOO": ""}))
	assert.False(t, EvaluateCondition(tz, "FOO", map[string]string{}))
}

func TestEvaluateConditionNegation(t *testing.T) {
	tz := tok.NewTokenizer()
	assert.True(t, EvaluateCondition(tz, "!FOO", map[string]string{}))
	assert.False(t, EvaluateCondition(tz, "!FOO", map[string]string{"FOO": ""}))
}

func TestEvaluateConditionDefinedCombination(t *testing.T) {
	tz := tok.NewTokenizer()
	cfg := map[string]string{"A": ""}
	assert.True(t, EvaluateCondition(tz, "defined(A) || defined(B)", cfg))
	assert.False(t, EvaluateCondition(tz, "defined(A) && defined(B)", cfg))
}

func TestEvaluateConditionValueComparison(t *testing.T) {
	tz := tok.NewTokenizer()
	cfg := map[string]string{"VERSION": "2"}
	assert.True(t, EvaluateCondition(tz, "VERSION == 2", cfg))
	assert.False(t, EvaluateCondition(tz, "VERSION == 3", cfg))
}

func TestEvaluateConditionUndefinedNameIsZero(t *testing.T) {
	tz := tok.NewTokenizer()
	assert.False(t, EvaluateCondition(tz, "UNDEFINED_FLAG", map[string]string{}))
}
