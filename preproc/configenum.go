package preproc

import (
	"fmt"
	"sort"
	"strings"
)

// condAtom is one `NAME`, `NAME=VALUE`, `defined(NAME)` or negated
// equivalent appearing in an `#if`/`#elif` condition.
type condAtom struct {
	Name   string
	Value  string // non-empty for "NAME==VALUE" atoms
	Negate bool
}

// confFrame is one level of #if/#ifdef nesting while enumerating
// configurations: atoms accumulates every positive requirement in scope,
// from the outermost enclosing directive down to this one.
type confFrame struct {
	atoms []condAtom
}

// EnumerateConfigurations is Component E, the Configuration Enumerator
// (§4.E). It walks every `#ifdef`/`#ifndef`/`#if`/`#elif`/`#else`/`#endif`
// in src and returns the distinct build configurations it can discover,
// each a sorted `;`-joined list of `NAME` / `NAME=VALUE` atoms (the same
// shape cppcheck's getcfgs produces), always including the empty base
// configuration. Conditions it cannot resolve to a disjunction of
// conjunctions of named atoms (arbitrary parenthesised boolean expressions, relational
// operators other than `==`, macro-valued conditions) are left
// unhandled: they still open and close a nesting frame, so configuration
// discovery continues correctly inside them, but they do not themselves
// contribute a new configuration — matching the source's "drop what it
// cannot classify" behaviour.
func EnumerateConfigurations(src, filename string, settings *Settings, sink ErrorSink) []string {
	configs := map[string]struct{}{"": {}}
	stack := []confFrame{{}}

	lines := strings.Split(src, "\n")
	for lineNo, line := range lines {
		if sink != nil && lineNo%4096 == 0 {
			sink.ReportProgress(filename, "getcfgs", lineNo*100/len(lines))
		}
		word, rest, ok := directiveWord(strings.TrimSpace(line))
		if !ok {
			continue
		}

		top := stack[len(stack)-1]

		switch word {
		case "ifdef":
			name := strings.TrimSpace(rest)
			atoms := appendAtom(top.atoms, condAtom{Name: name})
			stack = append(stack, confFrame{atoms: atoms})
			addConfig(configs, atoms)

		case "ifndef":
			// Enumerating "the name itself" (not its negation) as a
			// configuration is deliberate: getcfgs's from_negation path
			// wants to know a build exists with NAME defined even
			// though this branch assumes it isn't. The frame pushed for
			// the branch body keeps the outer atoms unchanged, since
			// nothing here is positively required.
			name := strings.TrimSpace(rest)
			addConfig(configs, appendAtom(top.atoms, condAtom{Name: name}))
			stack = append(stack, confFrame{atoms: top.atoms})

		case "if":
			if !parensBalanced(rest) {
				reportUnbalancedParens(sink, filename, lineNo+1, rest)
				return nil
			}
			pushConditionFrame(&stack, configs, top.atoms, rest, settings, sink, filename, lineNo+1)

		case "elif":
			if len(stack) > 1 {
				if !parensBalanced(rest) {
					reportUnbalancedParens(sink, filename, lineNo+1, rest)
					return nil
				}
				stack = stack[:len(stack)-1]
				parent := stack[len(stack)-1]
				pushConditionFrame(&stack, configs, parent.atoms, rest, settings, sink, filename, lineNo+1)
			}

		case "else":
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
				parent := stack[len(stack)-1]
				stack = append(stack, confFrame{atoms: parent.atoms})
			}

		case "endif":
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	out := make([]string, 0, len(configs))
	for c := range configs {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// parensBalanced reports whether cond has matching '(' and ')', the same
// check getcfgs runs on a condition's text before attempting to
// simplify it.
func parensBalanced(cond string) bool {
	depth := 0
	for i := 0; i < len(cond); i++ {
		switch cond[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// reportUnbalancedParens mirrors getcfgs's fatal handling of a
// mismatched-parenthesis #if/#elif condition: the caller aborts
// enumeration entirely rather than returning a partial or guessed
// configuration list.
func reportUnbalancedParens(sink ErrorSink, filename string, line int, cond string) {
	if sink == nil {
		return
	}
	id := fmt.Sprintf("%s%d", errUnbalancedParensLineFmt, line)
	sink.ReportErr(FileLocation{File: filename, Line: line}, SeverityError, errUnbalancedParens.Error()+" in this line: "+cond, id)
}

func pushConditionFrame(stack *[]confFrame, configs map[string]struct{}, outer []condAtom, cond string, settings *Settings, sink ErrorSink, filename string, line int) {
	cond = stripOuterParens(normaliseDefinedSpacing(strings.TrimSpace(cond)))
	disjuncts, ok := parseDisjunction(cond)
	if !ok {
		if settings.DebugWarnings && sink != nil {
			sink.ReportErr(FileLocation{File: filename, Line: line}, SeverityDebug,
				"unhandled configuration expression: '"+cond+"'", ErrDebug)
		}
		*stack = append(*stack, confFrame{atoms: outer})
		return
	}

	var frameAtoms []condAtom
	for i, atoms := range disjuncts {
		merged := appendAtoms(outer, atoms)
		addConfig(configs, merged)
		if i == 0 {
			frameAtoms = merged
		}
	}
	*stack = append(*stack, confFrame{atoms: frameAtoms})
}

// parseDisjunction splits cond on top-level "||" and each side on
// top-level "&&", parsing every atom. It fails as a whole if any atom in
// any disjunct cannot be parsed.
func parseDisjunction(cond string) ([][]condAtom, bool) {
	if cond == "" {
		return nil, false
	}
	var result [][]condAtom
	for _, disjunct := range splitTopLevel(cond, "||") {
		var atoms []condAtom
		for _, atomText := range splitTopLevel(disjunct, "&&") {
			atom, ok := parseAtom(strings.TrimSpace(atomText))
			if !ok {
				return nil, false
			}
			atoms = append(atoms, atom)
		}
		result = append(result, atoms)
	}
	return result, true
}

func splitTopLevel(s, sep string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i+len(sep) <= len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && s[i:i+len(sep)] == sep {
			parts = append(parts, s[start:i])
			i += len(sep) - 1
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func parseAtom(s string) (condAtom, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return condAtom{}, false
	}
	negate := false
	if strings.HasPrefix(s, "!") {
		negate = true
		s = strings.TrimSpace(s[1:])
	}
	if name, ok := asDefinedOnly(s); ok {
		return condAtom{Name: name, Negate: negate}, true
	}
	if eq := strings.Index(s, "=="); eq >= 0 {
		if negate {
			return condAtom{}, false
		}
		name := strings.TrimSpace(s[:eq])
		value := strings.TrimSpace(s[eq+2:])
		if isIdentWord(name) && isAllDigits(value) {
			return condAtom{Name: name, Value: value}, true
		}
		return condAtom{}, false
	}
	if isIdentWord(s) {
		return condAtom{Name: s, Negate: negate}, true
	}
	return condAtom{}, false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigitByte(s[i]) {
			return false
		}
	}
	return true
}

func appendAtom(atoms []condAtom, a condAtom) []condAtom {
	out := make([]condAtom, len(atoms), len(atoms)+1)
	copy(out, atoms)
	return append(out, a)
}

func appendAtoms(outer, atoms []condAtom) []condAtom {
	out := make([]condAtom, len(outer), len(outer)+len(atoms))
	copy(out, outer)
	return append(out, atoms...)
}

// addConfig builds the canonical ";"-joined configuration key for atoms
// (negated atoms contribute nothing — a config names what IS defined,
// the same way cppcheck's deflist, not ndeflist, drives getcfgs) and
// records it.
func addConfig(configs map[string]struct{}, atoms []condAtom) {
	var names []string
	for _, a := range atoms {
		if a.Negate {
			continue
		}
		if a.Value != "" {
			names = append(names, a.Name+"="+a.Value)
		} else {
			names = append(names, a.Name)
		}
	}
	sort.Strings(names)
	configs[strings.Join(names, ";")] = struct{}{}
}
