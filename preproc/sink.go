package preproc

import "fmt"

// Diagnostic is one message recorded by MemorySink, kept in report order.
type Diagnostic struct {
	Location FileLocation
	Severity Severity
	Message  string
	ID       string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: (%s) %s [%s]", d.Location.File, d.Location.Line, d.Severity, d.Message, d.ID)
}

// MemorySink is the default ErrorSink/SuppressionSink pair used by tests
// and by the CLI before it renders diagnostics to the terminal. It never
// drops a diagnostic. AddSuppression rejects an exact duplicate with a
// message, which the comment scrubber reports as a cppcheckError.
type MemorySink struct {
	Diagnostics []Diagnostic
	progress    []string
	seen        map[string]bool
}

// NewMemorySink returns a ready-to-use MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{seen: map[string]bool{}}
}

func (m *MemorySink) ReportErr(loc FileLocation, severity Severity, message, id string) {
	m.Diagnostics = append(m.Diagnostics, Diagnostic{Location: loc, Severity: severity, Message: message, ID: id})
}

func (m *MemorySink) ReportProgress(filename, stage string, percent int) {
	m.progress = append(m.progress, fmt.Sprintf("%s: %s %d%%", filename, stage, percent))
}

// AddSuppression records id as suppressed for file:line and rejects an
// exact duplicate the same way cppcheck's suppression list does.
func (m *MemorySink) AddSuppression(id, file string, line int) string {
	key := fmt.Sprintf("%s:%d:%s", file, line, id)
	if m.seen[key] {
		return "Suppression '" + id + "' already exists"
	}
	m.seen[key] = true
	return ""
}

// Errors filters Diagnostics down to SeverityError entries.
func (m *MemorySink) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range m.Diagnostics {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}
