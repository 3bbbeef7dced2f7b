package preproc

import "context"

// Preprocessor ties the eight components together into the two-phase
// entry point described in §6: normalise once, enumerate the
// configurations the translation unit can be built under, then produce
// selected-and-expanded code for each one on demand.
type Preprocessor struct {
	Settings     *Settings
	Sink         ErrorSink
	Tokeniser    Tokeniser
	PathCanon    PathCanonicaliser
	Opener       FileOpener
	IncludePaths []string
}

// NewPreprocessor wires the default collaborators (the settings and
// sink are mandatory; a nil PathCanon degrades canonicalisation to a
// plain case-fold, and a nil Tokeniser panics on first use since the
// condition simplifier cannot function without one).
func NewPreprocessor(settings *Settings, sink ErrorSink, tokeniser Tokeniser, canon PathCanonicaliser, opener FileOpener, includePaths []string) *Preprocessor {
	return &Preprocessor{
		Settings:     settings,
		Sink:         sink,
		Tokeniser:    tokeniser,
		PathCanon:    canon,
		Opener:       opener,
		IncludePaths: includePaths,
	}
}

// Normalise runs components A through D (raw reading, comment/string
// scrubbing, directive normalisation, and include resolution) and
// returns the single flattened translation unit every configuration is
// then selected and expanded from.
func (p *Preprocessor) Normalise(ctx context.Context, src, filename string) (string, error) {
	raw := normaliseRaw(src)
	scrubbed := scrubComments(raw, filename, p.Sink, p.Settings)
	normalised := normaliseDirectives(scrubbed)
	return resolveIncludes(ctx, normalised, filename, p.IncludePaths, p.Opener, p.PathCanon, p.Sink, p.Settings, map[string]struct{}{})
}

// Configurations runs component E over already-normalised source. When
// Settings carries explicit user defines, configuration enumeration is
// skipped entirely and that single configuration is returned instead,
// matching the source's -D-overrides-everything behaviour.
func (p *Preprocessor) Configurations(normalised, filename string) []string {
	if p.Settings.hasUserDefines() {
		return []string{p.Settings.UserDefines}
	}
	return EnumerateConfigurations(normalised, filename, p.Settings, p.Sink)
}

// Build runs components F through H for a single configuration:
// selecting the branches config activates, then expanding every macro
// left in the result.
func (p *Preprocessor) Build(normalised, config, filename string) string {
	selected := GetCode(p.Tokeniser, normalised, config, filename, p.Sink, p.Settings)
	return ExpandMacros(selected, filename, p.Sink, p.Settings)
}

// Preprocess is the convenience entry point most callers want: normalise
// once, discover every configuration, and build code for each of them.
// The returned map is keyed by the same ";"-joined configuration string
// EnumerateConfigurations produces.
func (p *Preprocessor) Preprocess(ctx context.Context, src, filename string) (map[string]string, error) {
	normalised, err := p.Normalise(ctx, src, filename)
	if err != nil {
		return nil, err
	}

	configs := p.Configurations(normalised, filename)
	result := make(map[string]string, len(configs))
	for i, cfg := range configs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p.Sink != nil {
			p.Sink.ReportProgress(filename, "getcode", (i+1)*100/len(configs))
		}
		result[cfg] = p.Build(normalised, cfg, filename)
	}
	return result, nil
}
