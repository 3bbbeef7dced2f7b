// Package preproc implements the C/C++ preprocessor front-end described by
// the surrounding tooling: normalisation of a raw translation unit,
// enumeration of the distinct #ifdef configurations it can be built under,
// and per-configuration macro expansion. It is deliberately narrow — CLI
// wiring, diagnostics rendering, file discovery, and the downstream
// tokeniser live outside this package, reached only through the small
// interfaces declared here.
package preproc

import (
	"github.com/manan288/cppcheck/tok"
)

// Severity mirrors the handful of severities the core ever reports.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityStyle
	SeverityDebug
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityStyle:
		return "style"
	case SeverityDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// FileLocation is a (file, line) pair, deliberately without column
// precision — the core does not track columns, per spec.
type FileLocation struct {
	File string
	Line int
}

// ErrorSink is the minimum diagnostic-reporting capability the core
// requires of its caller (§6). ReportProgress is a cooperative
// cancellation point invoked periodically from the configuration
// enumerator; implementations that want to abort a run should also watch
// the ctx passed to Preprocessor.Preprocess.
type ErrorSink interface {
	ReportErr(loc FileLocation, severity Severity, message, id string)
	ReportProgress(filename, stage string, percent int)
}

// SuppressionSink records an inline `// cppcheck-suppress ID` marker.
// AddSuppression returns a non-empty message if the suppression is a
// duplicate or otherwise malformed; the caller reports it as a
// cppcheckError.
type SuppressionSink interface {
	AddSuppression(id, file string, line int) (message string)
}

// Settings carries the caller-controlled knobs the core consults. It is
// intentionally a struct, not an interface, since every field is a plain
// value or a small callback — there is exactly one implementation shape in
// practice, matching how andrewchambers-cc's Preprocessor takes concrete
// configuration rather than a Settings interface.
type Settings struct {
	// UserDefines is a semicolon-separated list of user-supplied defines
	// (as passed to a real compiler's -D flags, joined together). When
	// non-empty, configuration enumeration is skipped entirely: the
	// caller has already chosen one shape.
	UserDefines string
	// InlineSuppressions enables scanning comments for
	// "cppcheck-suppress ID" markers.
	InlineSuppressions bool
	// DebugWarnings enables the "debug" diagnostic for configurations
	// that could not be classified as identifiers or NAME=DIGITS pairs.
	DebugWarnings bool
	// Enabled reports whether a diagnostic id is enabled (gates
	// missingInclude, which is a style-severity diagnostic that many
	// callers disable by default). A nil Enabled behaves as "always
	// enabled".
	Enabled func(id string) bool
	// Suppressions receives inline suppression markers. May be nil, in
	// which case markers are parsed but discarded.
	Suppressions SuppressionSink
}

func (s *Settings) isEnabled(id string) bool {
	if s == nil || s.Enabled == nil {
		return true
	}
	return s.Enabled(id)
}

func (s *Settings) hasUserDefines() bool {
	return s != nil && s.UserDefines != ""
}

// PathCanonicaliser normalises filesystem paths for the include
// deduplication and diagnostic-formatting logic (§6).
type PathCanonicaliser interface {
	SimplifyPath(path string) string
	ToNativeSeparators(path string) string
}

// FileOpener is the byte-oriented file access capability the include
// resolver needs (§6): given a resolved path, return its contents.
type FileOpener interface {
	Open(path string) (string, error)
}

// Tokeniser is the narrow external collaborator the condition simplifier
// delegates arithmetic and pattern matching to (§4.F, §6). Its only
// production implementation in this repo is *tok.Tokenizer; the interface
// exists so the condition simplifier stays decoupled from lexer internals
// the way the original delegates to a shared Tokenizer/Token API.
type Tokeniser interface {
	Tokenize(src, filename, cfg string, isCpp bool) (*tok.Token, error)
	SimplifyCalculations(head *tok.Token)
}
