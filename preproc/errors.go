package preproc

import "github.com/pkg/errors"

// Error kinds are ids, not Go types (§7) — they travel through ErrorSink
// as plain strings so callers can match on them without importing this
// package's error variables.
const (
	ErrSyntax                  = "syntaxError"
	ErrPreprocessorDirective   = "preprocessorErrorDirective"
	ErrMissingInclude          = "missingInclude"
	ErrCppcheck                = "cppcheckError"
	ErrDebug                   = "debug"
	ErrNoQuoteCharPair         = "noQuoteCharPair"
	errUnbalancedParensLineFmt = "preprocessor"
)

// errUnbalancedParens describes an #if/#elif condition with mismatched
// parentheses; EnumerateConfigurations reports its message through the
// ErrorSink and returns an empty configuration list rather than
// propagating a Go error, matching the source's fatal-but-contained
// handling (§7).
var errUnbalancedParens = errors.New("mismatching number of '(' and ')'")

// errUnterminatedLiteral is returned internally by expandText when a
// quote is never closed; ExpandMacros reports it through the ErrorSink
// as ErrNoQuoteCharPair and returns "" for the whole configuration,
// since there is no reliable way to resume scanning past it.
var errUnterminatedLiteral = errors.New("no pair for quote character, can't process file")
