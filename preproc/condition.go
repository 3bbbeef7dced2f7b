package preproc

import (
	"strings"

	"github.com/manan288/cppcheck/tok"
)

// EvaluateCondition is Component F, the Condition Simplifier (§4.F). It
// decides whether an `#if`/`#elif` condition holds for a given
// configuration (a NAME -> VALUE map built from the ";"-joined config
// string, empty VALUE meaning "defined with no value"), the same
// responsibility cppcheck's simplifyCondition/match_cfg_def pair have:
// substitute every `defined(NAME)` and bare macro name for a numeric
// literal, fold the resulting arithmetic down with SimplifyCalculations,
// and read off a truth value.
//
// A macro that is defined but holds no value is treated as true in this
// boolean context (`#if SOME_FLAG` where SOME_FLAG was `#define`d with
// an empty body) — the empty-value rule the macro table encodes
// separately (§4.H) but which also has to hold here, since the
// condition simplifier runs independently of macro expansion.
func EvaluateCondition(tokeniser Tokeniser, cond string, cfg map[string]string) bool {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return false
	}

	// Fast paths, mirroring simplifyCondition's own shortcuts for the two
	// overwhelmingly common shapes, so the common case never touches the
	// tokeniser at all.
	if isIdentWord(cond) {
		return macroTruthy(cfg, cond)
	}
	if strings.HasPrefix(cond, "!") && isIdentWord(strings.TrimSpace(cond[1:])) {
		return !macroTruthy(cfg, strings.TrimSpace(cond[1:]))
	}
	if name, ok := asDefinedOnly(cond); ok {
		_, defined := cfg[name]
		return defined
	}
	if name, ok := asNotDefinedOnly(cond); ok {
		_, defined := cfg[name]
		return !defined
	}

	head, err := tokeniser.Tokenize(cond, "<condition>", "", true)
	if err != nil || head == nil {
		return false
	}

	substituteDefined(head, cfg)
	substituteMacroNames(head, cfg)
	tokeniser.SimplifyCalculations(head)

	if head.Next() != nil {
		// Did not fold to a single literal — an expression shape this
		// reduced simplifier does not know how to evaluate. Treat it as
		// true rather than silently discarding the branch it guards.
		return true
	}
	return head.Str != "0"
}

// substituteDefined rewrites every "defined ( NAME )" and "defined NAME"
// run into a single "1"/"0" literal token according to cfg membership.
func substituteDefined(head *tok.Token, cfg map[string]string) {
	for t := head; t != nil; t = t.Next() {
		if t.Str != "defined" {
			continue
		}
		if tok.Match(t, "defined ( %var% )") {
			name := t.StrAt(2)
			_, defined := cfg[name]
			t.Str = boolLit(defined)
			t.Kind = tok.Number
			t.DeleteNext()
			t.DeleteNext()
			t.DeleteNext()
			continue
		}
		if tok.Match(t, "defined %var%") {
			name := t.StrAt(1)
			_, defined := cfg[name]
			t.Str = boolLit(defined)
			t.Kind = tok.Number
			t.DeleteNext()
		}
	}
}

// substituteMacroNames replaces every remaining identifier with its
// configured value (or "1" if defined with no value, or "0" if not
// defined at all).
func substituteMacroNames(head *tok.Token, cfg map[string]string) {
	for t := head; t != nil; t = t.Next() {
		if !t.IsName() {
			continue
		}
		val, defined := cfg[t.Str]
		switch {
		case defined && val != "":
			t.Str = val
		case defined:
			t.Str = "1"
		default:
			t.Str = "0"
		}
		t.Kind = tok.Number
	}
}

// macroTruthy reports whether NAME evaluates true in a bare boolean
// condition: undefined is false, defined-with-no-value is true (the
// empty-value rule), defined-with-a-value uses the value's own
// truthiness.
func macroTruthy(cfg map[string]string, name string) bool {
	val, defined := cfg[name]
	if !defined {
		return false
	}
	if val == "" {
		return true
	}
	return val != "0"
}

func boolLit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
