package preproc

import (
	"strings"
)

// normaliseDirectives is Component C, the Directive Normaliser (§4.C). It
// runs once per translation unit, after scrubComments, and rewrites each
// `#if`/`#elif` line's condition text into the canonical shape the
// configuration enumerator and condition simplifier expect: redundant
// parentheses stripped, `defined A` rewritten to `defined(A)`, and whole
// conditions of the shape `defined(X)` / `!defined(X)` folded into
// `#ifdef X` / `#ifndef X`. It also removes inline `asm(...)` blocks,
// which cppcheck's preprocessor treats as noise regardless of directive
// context.
func normaliseDirectives(src string) string {
	src = removeAsmBlocks(src)

	lines := strings.Split(src, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		word, rest, ok := directiveWord(trimmed)
		if !ok {
			continue
		}
		switch word {
		case "if", "elif":
			cond := normaliseDefinedSpacing(strings.TrimSpace(rest))
			cond = stripOuterParens(cond)
			if word == "if" {
				if ident, ok := asDefinedOnly(cond); ok {
					lines[i] = "#ifdef " + ident
					continue
				}
				if ident, ok := asNotDefinedOnly(cond); ok {
					lines[i] = "#ifndef " + ident
					continue
				}
			}
			lines[i] = "#" + word + " " + cond
		}
	}
	return strings.Join(lines, "\n")
}

// directiveWord splits a trimmed line of the form "# word rest..." into
// word and rest. Only lines beginning with '#' are directives; the '#'
// may be followed by arbitrary spacing (normaliseRaw already drops the
// spaces right after '#').
func directiveWord(trimmed string) (word, rest string, ok bool) {
	if !strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	body := strings.TrimSpace(trimmed[1:])
	sp := strings.IndexAny(body, " \t")
	if sp < 0 {
		return body, "", true
	}
	return body[:sp], body[sp+1:], true
}

// normaliseDefinedSpacing rewrites "defined IDENT" and "defined ( IDENT )"
// into "defined(IDENT)", matching replaceIfDefined's spacing pass.
func normaliseDefinedSpacing(cond string) string {
	var out strings.Builder
	fields := tokeniseWords(cond)
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if f != "defined" {
			out.WriteString(f)
			continue
		}
		j := i + 1
		for j < len(fields) && fields[j] == " " {
			j++
		}
		if j < len(fields) && fields[j] == "(" {
			k := j + 1
			for k < len(fields) && fields[k] == " " {
				k++
			}
			if k < len(fields) && isIdentWord(fields[k]) {
				m := k + 1
				for m < len(fields) && fields[m] == " " {
					m++
				}
				if m < len(fields) && fields[m] == ")" {
					out.WriteString("defined(" + fields[k] + ")")
					i = m
					continue
				}
			}
		} else if j < len(fields) && isIdentWord(fields[j]) {
			out.WriteString("defined(" + fields[j] + ")")
			i = j
			continue
		}
		out.WriteString(f)
	}
	return out.String()
}

// tokeniseWords splits cond into a flat stream of identifier runs,
// single punctuation characters, and single-space separators, so
// normaliseDefinedSpacing can look ahead past whitespace while still
// being able to reproduce it verbatim for text it leaves untouched.
func tokeniseWords(cond string) []string {
	var words []string
	i := 0
	for i < len(cond) {
		c := cond[i]
		switch {
		case c == ' ':
			words = append(words, " ")
			i++
		case isAlphaByte(c) || c == '_':
			start := i
			for i < len(cond) && (isAlphaByte(cond[i]) || isDigitByte(cond[i]) || cond[i] == '_') {
				i++
			}
			words = append(words, cond[start:i])
		default:
			words = append(words, string(c))
			i++
		}
	}
	return words
}

func isIdentWord(s string) bool {
	if s == "" {
		return false
	}
	if !isAlphaByte(s[0]) && s[0] != '_' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isAlphaByte(s[i]) && !isDigitByte(s[i]) && s[i] != '_' {
			return false
		}
	}
	return true
}

// asDefinedOnly reports whether cond is exactly "defined(IDENT)".
func asDefinedOnly(cond string) (string, bool) {
	if strings.HasPrefix(cond, "defined(") && strings.HasSuffix(cond, ")") {
		ident := cond[len("defined(") : len(cond)-1]
		if isIdentWord(ident) {
			return ident, true
		}
	}
	return "", false
}

// asNotDefinedOnly reports whether cond is exactly "!defined(IDENT)".
func asNotDefinedOnly(cond string) (string, bool) {
	if strings.HasPrefix(cond, "!") {
		return asDefinedOnly(strings.TrimSpace(cond[1:]))
	}
	return "", false
}

// stripOuterParens repeatedly removes one layer of parentheses that
// wraps the whole condition, to a fixed point: "((A))" -> "A".
func stripOuterParens(cond string) string {
	for {
		if len(cond) < 2 || cond[0] != '(' || cond[len(cond)-1] != ')' {
			return cond
		}
		depth := 0
		spansWhole := true
		for i := 0; i < len(cond); i++ {
			switch cond[i] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 && i != len(cond)-1 {
					spansWhole = false
				}
			}
		}
		if !spansWhole {
			return cond
		}
		cond = strings.TrimSpace(cond[1 : len(cond)-1])
	}
}

// removeAsmBlocks strips "asm ( ... ) ;"-shaped blocks (balanced
// parentheses, optional trailing semicolon) from the whole translation
// unit, preserving embedded newlines so line numbers stay stable.
func removeAsmBlocks(src string) string {
	var out strings.Builder
	i := 0
	for i < len(src) {
		if isAsmKeywordAt(src, i) {
			j := i + 3
			for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
				j++
			}
			if j < len(src) && src[j] == '(' {
				depth := 0
				k := j
				for k < len(src) {
					if src[k] == '(' {
						depth++
					} else if src[k] == ')' {
						depth--
						if depth == 0 {
							k++
							break
						}
					}
					k++
				}
				if depth == 0 {
					for _, ch := range src[i:k] {
						if ch == '\n' {
							out.WriteByte('\n')
						}
					}
					if k < len(src) && src[k] == ';' {
						k++
					}
					i = k
					continue
				}
			}
		}
		out.WriteByte(src[i])
		i++
	}
	return out.String()
}

func isAsmKeywordAt(src string, i int) bool {
	if i+3 > len(src) || src[i:i+3] != "asm" {
		return false
	}
	if i > 0 && (isAlphaByte(src[i-1]) || isDigitByte(src[i-1]) || src[i-1] == '_') {
		return false
	}
	end := i + 3
	if end < len(src) && (isAlphaByte(src[end]) || isDigitByte(src[end]) || src[end] == '_') {
		return false
	}
	return true
}
