package preproc

import "strings"

// selFrame tracks one level of #if/#ifdef nesting while selecting code
// for a single configuration.
type selFrame struct {
	parentActive bool // was the enclosing frame emitting code
	taken        bool // has any branch at this level matched yet
	active       bool // is the *current* branch emitting code
}

// ParseConfigString turns a ";"-joined configuration ("A;B=2") into the
// NAME -> VALUE map EvaluateCondition and GetCode both consume. A NAME
// with no "=" maps to the empty string, meaning "defined, no value".
func ParseConfigString(config string) map[string]string {
	cfg := map[string]string{}
	if config == "" {
		return cfg
	}
	for _, part := range strings.Split(config, ";") {
		if part == "" {
			continue
		}
		if eq := strings.IndexByte(part, '='); eq >= 0 {
			cfg[part[:eq]] = part[eq+1:]
		} else {
			cfg[part] = ""
		}
	}
	return cfg
}

// GetCode is Component G, the Configuration Selector (§4.G). Given the
// fully normalised, include-resolved source (still carrying `#file`/
// `#endfile` sentinels and every conditional directive) and one
// configuration produced by EnumerateConfigurations, it returns the code
// that configuration builds: lines inside a branch that does not match
// are blanked (never deleted, so line numbers stay stable for later
// diagnostics), directive lines themselves are blanked once acted on,
// and an `#error` reached in a live branch aborts the whole
// configuration — GetCode returns "" immediately, the same as the
// source's getcode, and only reports the preprocessorErrorDirective
// diagnostic when the caller passed explicit user defines (an #error
// hit while enumerating every configuration blind is expected noise;
// one hit while building the configuration the user actually asked for
// is not). `#file`/`#endfile` sentinels are kept verbatim regardless of
// branch state, since removing them corrupts line numbers for every
// nested include that follows. Text between `#pragma asm` and `#pragma
// endasm` is passed through untouched, markers included, so the macro
// expander (§4.H) knows to leave it alone.
func GetCode(tokeniser Tokeniser, src, config, mainFilename string, sink ErrorSink, settings *Settings) string {
	cfg := ParseConfigString(config)

	fileStack := []string{mainFilename}
	curFile := mainFilename

	stack := []selFrame{{parentActive: true, taken: true, active: true}}
	inAsm := false

	lines := strings.Split(src, "\n")
	out := make([]string, len(lines))

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		top := stack[len(stack)-1]

		if inAsm {
			out[i] = line
			if trimmed == "#pragma endasm" {
				inAsm = false
			}
			continue
		}

		word, rest, ok := directiveWord(trimmed)
		if !ok {
			if top.active {
				out[i] = line
			}
			continue
		}

		switch word {
		case "file":
			name := strings.Trim(strings.TrimSpace(rest), `"`)
			fileStack = append(fileStack, name)
			curFile = name
			out[i] = line

		case "endfile":
			if len(fileStack) > 1 {
				fileStack = fileStack[:len(fileStack)-1]
				curFile = fileStack[len(fileStack)-1]
			}
			out[i] = line

		case "ifdef", "ifndef", "if":
			active := top.active
			var matched bool
			switch word {
			case "ifdef":
				_, matched = cfg[strings.TrimSpace(rest)]
			case "ifndef":
				_, defined := cfg[strings.TrimSpace(rest)]
				matched = !defined
			case "if":
				matched = EvaluateCondition(tokeniser, rest, cfg)
			}
			stack = append(stack, selFrame{
				parentActive: active,
				taken:        matched,
				active:       active && matched,
			})
			out[i] = ""

		case "elif":
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
				parent := stack[len(stack)-1]
				matched := !top.taken && EvaluateCondition(tokeniser, rest, cfg)
				stack = append(stack, selFrame{
					parentActive: parent.active,
					taken:        top.taken || matched,
					active:       parent.active && matched,
				})
			}
			out[i] = ""

		case "else":
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
				parent := stack[len(stack)-1]
				stack = append(stack, selFrame{
					parentActive: parent.active,
					taken:        true,
					active:       parent.active && !top.taken,
				})
			}
			out[i] = ""

		case "endif":
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			out[i] = ""

		case "error":
			if top.active {
				if settings.hasUserDefines() {
					sink.ReportErr(FileLocation{File: curFile, Line: i + 1}, SeverityError,
						strings.TrimSpace(rest), ErrPreprocessorDirective)
				}
				return ""
			}
			out[i] = ""

		case "warning":
			if top.active {
				sink.ReportErr(FileLocation{File: curFile, Line: i + 1}, SeverityWarning,
					strings.TrimSpace(rest), ErrPreprocessorDirective)
			}
			out[i] = ""

		case "pragma":
			if strings.TrimSpace(rest) == "asm" && top.active {
				inAsm = true
				out[i] = line
			} else {
				out[i] = ""
			}

		case "define", "undef":
			// Left in place for the macro expander (§4.H) to consume in
			// document order; it strips these lines itself once the
			// macro table has been updated. A live object-like #define
			// also enters cfg, so later conditions see it.
			if top.active {
				out[i] = line
				if word == "define" {
					if m, ok := parseDefineLine(rest); ok && !m.IsFunc {
						cfg[m.Name] = m.Body
					}
				}
			}

		default:
			out[i] = ""
		}
	}

	return strings.Join(out, "\n")
}
