package preproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumerateConfigurationsIfdef(t *testing.T) {
	src := "#ifdef FOO\nint x;\n#endif\n"
	configs := EnumerateConfigurations(src, "t.c", &Settings{}, nil)
	assert.ElementsMatch(t, []string{"", "FOO"}, configs)
}

func TestEnumerateConfigurationsNestedGroups(t *testing.T) {
	src := "#ifdef A\n#ifdef B\nint x;\n#endif\n#endif\n"
	configs := EnumerateConfigurations(src, "t.c", &Settings{}, nil)
	assert.ElementsMatch(t, []string{"", "A", "A;B"}, configs)
}

func TestEnumerateConfigurationsElifChain(t *testing.T) {
	src := "#if defined(A)\nx();\n#elif defined(B)\ny();\n#else\nz();\n#endif\n"
	configs := EnumerateConfigurations(src, "t.c", &Settings{}, nil)
	assert.ElementsMatch(t, []string{"", "A", "B"}, configs)
}

func TestEnumerateConfigurationsNameEqualsDigits(t *testing.T) {
	src := "#if VERSION == 2\nx();\n#endif\n"
	configs := EnumerateConfigurations(src, "t.c", &Settings{}, nil)
	assert.ElementsMatch(t, []string{"", "VERSION=2"}, configs)
}

func TestEnumerateConfigurationsUnhandledIsDropped(t *testing.T) {
	src := "#if (A + B) > 3\nx();\n#endif\n"
	configs := EnumerateConfigurations(src, "t.c", &Settings{}, nil)
	assert.ElementsMatch(t, []string{""}, configs)
}

func TestEnumerateConfigurationsIfndefEnumeratesTheName(t *testing.T) {
	src := "#ifdef A\nx();\n#else\ny();\n#endif\n#ifndef B\nz();\n#endif\n"
	configs := EnumerateConfigurations(src, "t.c", &Settings{}, nil)
	assert.ElementsMatch(t, []string{"", "A", "B"}, configs)
}

func TestEnumerateConfigurationsUnbalancedParensAborts(t *testing.T) {
	src := "#if (A\nx();\n#endif\n"
	sink := NewMemorySink()
	configs := EnumerateConfigurations(src, "t.c", &Settings{}, sink)
	assert.Empty(t, configs)
	assert.Len(t, sink.Errors(), 1)
}
