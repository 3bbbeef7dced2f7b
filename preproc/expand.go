package preproc

import "strings"

// ExpandMacros is Component H's expansion half (§4.H). Given the code
// GetCode selected for one configuration, it walks the text once,
// maintaining a macroTable that #define/#undef lines update in document
// order, and replaces every macro invocation it finds with its expanded
// body. Object-like macros substitute directly; function-like macros
// have their argument list parsed with paren/string awareness
// (findMatchingParen, splitTopLevelCommas), their parameters substituted into the body (with `#`
// stringification, `##` token paste, and `__VA_ARGS__`/comma-elision for
// variadic macros), and the result rescanned so a macro whose expansion
// itself invokes another macro keeps expanding — as long as the inner
// invocation's argument count actually matches, mirroring the source's
// arity check rather than expanding blindly.
//
// A macro name currently being expanded is added to a per-branch
// disabled set for the duration of that expansion, so self-referential
// macros terminate instead of recursing forever; this is a flat
// approximation of the source's hideset, adequate for the macros this
// preprocessor is asked to expand.
//
// An unterminated string or character literal encountered while
// rescanning a line is unrecoverable — there is no way to tell where
// the literal was meant to end — so it aborts the whole configuration:
// the macro table built up so far is dropped and ExpandMacros returns
// "", reporting noQuoteCharPair through sink.
func ExpandMacros(src, filename string, sink ErrorSink, settings *Settings) string {
	table := macroTable{}
	var out strings.Builder

	fileStack := []string{filename}
	curFile := filename
	lineNo := 1
	inAsm := false

	lines := strings.Split(src, "\n")
	for li := 0; li < len(lines); li++ {
		line := lines[li]
		trimmed := strings.TrimSpace(line)

		if inAsm {
			out.WriteString(line)
			if li != len(lines)-1 {
				out.WriteByte('\n')
			}
			if trimmed == "#pragma endasm" {
				inAsm = false
			}
			lineNo++
			continue
		}

		if word, rest, ok := directiveWord(trimmed); ok {
			handled := true
			switch word {
			case "define":
				if m, ok := parseDefineLine(rest); ok {
					table.define(m)
				}
			case "undef":
				if name, ok := parseUndefLine(rest); ok {
					table.undef(name)
				}
			case "file":
				name := strings.Trim(strings.TrimSpace(rest), `"`)
				fileStack = append(fileStack, name)
				curFile = name
			case "endfile":
				if len(fileStack) > 1 {
					fileStack = fileStack[:len(fileStack)-1]
					curFile = fileStack[len(fileStack)-1]
				}
			case "pragma":
				if strings.TrimSpace(rest) == "asm" {
					inAsm = true
					out.WriteString(line)
				}
			default:
				handled = false
			}
			if handled {
				if li != len(lines)-1 {
					out.WriteByte('\n')
				}
				lineNo++
				continue
			}
		}

		expanded, consumedExtraLines, err := expandLine(line, lines, li, table, nil, curFile, lineNo, sink)
		if err != nil {
			if sink != nil {
				sink.ReportErr(FileLocation{File: curFile, Line: lineNo}, SeverityError, err.Error(), ErrNoQuoteCharPair)
			}
			table = nil
			return ""
		}
		out.WriteString(expanded)
		li += consumedExtraLines
		if li != len(lines)-1 {
			out.WriteByte('\n')
		}
		lineNo += 1 + consumedExtraLines
		continue
	}

	return out.String()
}

// expandLine expands macro invocations on one logical line, pulling in
// further raw lines from the buffer when a function-like call's argument
// list continues past the line's own newline; it returns the expanded
// text and how many extra source lines it consumed (already re-joined
// into the argument text and blanked from the caller's own iteration by
// virtue of not re-emitting them — the caller advances lineNo but does
// not re-walk them).
func expandLine(line string, all []string, idx int, table macroTable, disabled map[string]bool, file string, lineNo int, sink ErrorSink) (string, int, error) {
	text := line
	extra := 0
	// Pull in following lines eagerly if this line ends mid call; a
	// cheap heuristic (unbalanced '(') is enough since string/char
	// literals containing a lone '(' are vanishingly rare in practice
	// and findMatchingParen still validates balance properly.
	for unbalancedParens(text) && idx+1+extra < len(all) {
		extra++
		text = text + "\n" + all[idx+extra]
	}
	expanded, err := expandText(text, table, disabled)
	return expanded, extra, err
}

func unbalancedParens(s string) bool {
	depth := 0
	inStr, inChr := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inStr:
			if c == '\\' {
				i++
			} else if c == '"' {
				inStr = false
			}
		case inChr:
			if c == '\\' {
				i++
			} else if c == '\'' {
				inChr = false
			}
		case c == '"':
			inStr = true
		case c == '\'':
			inChr = true
		case c == '(':
			depth++
		case c == ')':
			depth--
		}
	}
	return depth > 0
}

// expandText performs one rescanning pass of macro substitution over
// text, which may be raw source or the body of an outer macro
// expansion. It fails with errUnterminatedLiteral the moment it meets a
// quote it cannot close, since there is then no reliable way to tell
// where the intended token stream resumes.
func expandText(text string, table macroTable, disabled map[string]bool) (string, error) {
	var out strings.Builder
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '"' || c == '\'':
			end, terminated := skipLiteral(text, i)
			if !terminated {
				return "", errUnterminatedLiteral
			}
			out.WriteString(text[i:end])
			i = end
		case isAlphaByte(c) || c == '_':
			start := i
			for i < len(text) && (isAlphaByte(text[i]) || isDigitByte(text[i]) || text[i] == '_') {
				i++
			}
			name := text[start:i]
			if disabled[name] {
				out.WriteString(name)
				continue
			}
			m, ok := table.lookup(name)
			if !ok {
				out.WriteString(name)
				continue
			}
			if !m.IsFunc {
				nextDisabled := withDisabled(disabled, name)
				body, err := expandText(m.Body, table, nextDisabled)
				if err != nil {
					return "", err
				}
				out.WriteString(body)
				continue
			}
			// Function-like: only a call if '(' follows, skipping
			// whitespace/newlines.
			j := i
			for j < len(text) && (isSpaceOrControl(text[j]) || text[j] == '\n') {
				j++
			}
			if j >= len(text) || text[j] != '(' {
				out.WriteString(name)
				continue
			}
			closeIdx := findMatchingParen(text, j)
			if closeIdx < 0 {
				out.WriteString(name)
				continue
			}
			args := splitTopLevelCommas(text[j+1 : closeIdx])
			if len(args) == 1 && strings.TrimSpace(args[0]) == "" {
				args = nil
			}
			replacement, ok, err := expandFunctionCall(m, args, table, disabled)
			if err != nil {
				return "", err
			}
			if !ok {
				out.WriteString(text[start:closeIdx])
				i = closeIdx
				continue
			}
			nextDisabled := withDisabled(disabled, name)
			expandedRepl, err := expandText(replacement, table, nextDisabled)
			if err != nil {
				return "", err
			}
			out.WriteString(expandedRepl)
			i = closeIdx + 1
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String(), nil
}

func withDisabled(disabled map[string]bool, name string) map[string]bool {
	next := make(map[string]bool, len(disabled)+1)
	for k := range disabled {
		next[k] = true
	}
	next[name] = true
	return next
}

// skipLiteral returns the index just past the string/char literal
// starting at i, and false if the file ends before the opening quote is
// closed.
func skipLiteral(s string, i int) (int, bool) {
	delim := s[i]
	j := i + 1
	for j < len(s) && s[j] != delim {
		if s[j] == '\\' && j+1 < len(s) {
			j++
		}
		j++
	}
	if j >= len(s) {
		return len(s), false
	}
	return j + 1, true
}

// findMatchingParen returns the index of the ')' matching the '(' at
// openIdx, skipping over nested parens and string/char literals. An
// unterminated literal inside the argument list is treated as running
// to end of text, the same tolerant fallback splitTopLevelCommas uses, since the
// abort for that case already happens one level up in expandText's own
// scan of the source line.
func findMatchingParen(s string, openIdx int) int {
	depth := 0
	for i := openIdx; i < len(s); i++ {
		switch s[i] {
		case '"', '\'':
			end, _ := skipLiteral(s, i)
			i = end - 1
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevelCommas splits an argument list's inner text on commas
// that sit outside nested parens and string/char literals.
func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\'':
			end, _ := skipLiteral(s, i)
			i = end - 1
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// expandFunctionCall substitutes args into m's body per the parameter
// list, honouring stringification, token paste, and __VA_ARGS__, and
// reports ok=false when the arity does not match (in which case the
// call is left untouched, per the source's own conservative behaviour).
func expandFunctionCall(m macroDef, args []string, table macroTable, disabled map[string]bool) (string, bool, error) {
	named := len(m.Params)
	if m.Variadic {
		if len(args) < named {
			return "", false, nil
		}
	} else if len(args) != named {
		return "", false, nil
	}

	raw := map[string]string{}
	expanded := map[string]string{}
	for i, p := range m.Params {
		raw[p] = strings.TrimSpace(args[i])
		exp, err := expandText(raw[p], table, disabled)
		if err != nil {
			return "", false, err
		}
		expanded[p] = exp
	}
	variadicRaw := ""
	if m.Variadic {
		var extras []string
		for i := named; i < len(args); i++ {
			extras = append(extras, strings.TrimSpace(args[i]))
		}
		variadicRaw = strings.Join(extras, ", ")
	}
	variadicExpanded, err := expandText(variadicRaw, table, disabled)
	if err != nil {
		return "", false, err
	}

	return substituteBody(m.Body, raw, expanded, variadicRaw, variadicExpanded), true, nil
}

// substituteBody performs the token-level substitution the C standard
// describes for macro replacement lists: `#param` stringifies the raw
// argument, `a ## b` pastes its neighbours without expanding them first,
// `__VA_ARGS__` becomes the joined variadic tail, and
// `, ## __VA_ARGS__` drops its leading comma when no variadic argument
// was supplied. Every other parameter reference substitutes its
// macro-expanded form.
func substituteBody(body string, raw, expanded map[string]string, variadicRaw, variadicExpanded string) string {
	toks := tokeniseBody(body)
	var kept []bodyTok
	pastedPrev := false

	for i := 0; i < len(toks); i++ {
		t := toks[i]

		if t.text == "," && lookaheadIsElidedVarArgs(toks, i+1) && variadicRaw == "" {
			i = skipElidedVarArgs(toks, i+1)
			pastedPrev = false
			continue
		}

		if t.text == "#" && !t.isWord {
			j := nextNonSpace(toks, i+1)
			if j < len(toks) && toks[j].isWord {
				if v, ok := raw[toks[j].text]; ok {
					kept = append(kept, bodyTok{text: stringifyArg(v)})
					i = j
					pastedPrev = false
					continue
				}
				if toks[j].text == "__VA_ARGS__" {
					kept = append(kept, bodyTok{text: stringifyArg(variadicRaw)})
					i = j
					pastedPrev = false
					continue
				}
			}
		}

		if t.isWord {
			useRaw := pastedPrev || lookaheadIsPaste(toks, i+1)
			pastedPrev = false

			if t.text == "__VA_ARGS__" {
				if useRaw {
					kept = append(kept, bodyTok{text: variadicRaw})
				} else {
					kept = append(kept, bodyTok{text: variadicExpanded})
				}
				continue
			}
			if v, ok := raw[t.text]; ok {
				if useRaw {
					kept = append(kept, bodyTok{text: v})
				} else {
					kept = append(kept, bodyTok{text: expanded[t.text]})
				}
				continue
			}
		}

		if isPasteMarker(t) {
			trimTrailingSpace(&kept)
			i = nextNonSpace(toks, i+1) - 1
			pastedPrev = true
			continue
		}

		if !t.isWord && strings.TrimSpace(t.text) == "" {
			pastedPrev = false
		}

		kept = append(kept, t)
	}

	var out strings.Builder
	for _, t := range kept {
		out.WriteString(t.text)
	}
	return out.String()
}

type bodyTok struct {
	text   string
	isWord bool
}

func isPasteMarker(t bodyTok) bool { return !t.isWord && t.text == "##" }

func trimTrailingSpace(kept *[]bodyTok) {
	for len(*kept) > 0 && !(*kept)[len(*kept)-1].isWord && strings.TrimSpace((*kept)[len(*kept)-1].text) == "" {
		*kept = (*kept)[:len(*kept)-1]
	}
}

func nextNonSpace(toks []bodyTok, i int) int {
	for i < len(toks) && !toks[i].isWord && strings.TrimSpace(toks[i].text) == "" {
		i++
	}
	return i
}

func lookaheadIsPaste(toks []bodyTok, i int) bool {
	i = nextNonSpace(toks, i)
	return i < len(toks) && isPasteMarker(toks[i])
}

func lookaheadIsElidedVarArgs(toks []bodyTok, i int) bool {
	i = nextNonSpace(toks, i)
	if i >= len(toks) || !isPasteMarker(toks[i]) {
		return false
	}
	i = nextNonSpace(toks, i+1)
	return i < len(toks) && toks[i].isWord && toks[i].text == "__VA_ARGS__"
}

func skipElidedVarArgs(toks []bodyTok, i int) int {
	i = nextNonSpace(toks, i)
	i = nextNonSpace(toks, i+1)
	return i
}

// tokeniseBody splits a macro body into identifier, "##", "#", and
// whitespace-run tokens, copying everything else through byte by byte so
// substituteBody can reassemble exact text.
func tokeniseBody(body string) []bodyTok {
	var toks []bodyTok
	i := 0
	for i < len(body) {
		c := body[i]
		switch {
		case isAlphaByte(c) || c == '_':
			start := i
			for i < len(body) && (isAlphaByte(body[i]) || isDigitByte(body[i]) || body[i] == '_') {
				i++
			}
			toks = append(toks, bodyTok{text: body[start:i], isWord: true})
		case c == ' ' || c == '\t' || c == '\n':
			start := i
			for i < len(body) && (body[i] == ' ' || body[i] == '\t' || body[i] == '\n') {
				i++
			}
			toks = append(toks, bodyTok{text: body[start:i]})
		case c == '#' && i+1 < len(body) && body[i+1] == '#':
			toks = append(toks, bodyTok{text: "##"})
			i += 2
		case c == '"' || c == '\'':
			end, _ := skipLiteral(body, i)
			toks = append(toks, bodyTok{text: body[i:end]})
			i = end
		default:
			toks = append(toks, bodyTok{text: string(c)})
			i++
		}
	}
	return toks
}

func stringifyArg(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}
