package preproc

import (
	"context"
	"path"
	"path/filepath"
	"strings"
)

// resolveIncludes is Component D, the Include Resolver (§4.D). It walks
// src line by line, and for each `#include "..."` or `#include <...>`
// directive it can locate on the search path, inlines the target file's
// (recursively resolved) contents wrapped in `#file "path"` / `#endfile`
// sentinels — the same bookkeeping cppcheck's handleIncludes uses so the
// later stages can still attribute a line to its original file. A file
// already inlined once (tracked in handled, keyed by its canonicalised,
// lowercased path) is not inlined again; its #include line is simply
// blanked, preserving line counts.
func resolveIncludes(
	ctx context.Context,
	src, filename string,
	searchPaths []string,
	opener FileOpener,
	canon PathCanonicaliser,
	sink ErrorSink,
	settings *Settings,
	handled map[string]struct{},
) (string, error) {
	lines := strings.Split(src, "\n")
	var out []string

	for lineNo, line := range lines {
		if lineNo%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return "", err
			}
		}

		trimmed := strings.TrimSpace(line)
		word, rest, ok := directiveWord(trimmed)
		if !ok || word != "include" {
			out = append(out, line)
			continue
		}

		target, quoted, ok := parseIncludeTarget(rest)
		if !ok {
			out = append(out, "")
			continue
		}

		resolved, content, found := locateInclude(target, quoted, filename, searchPaths, opener)
		if !found {
			if settings.isEnabled(ErrMissingInclude) {
				sink.ReportErr(FileLocation{File: filename, Line: lineNo + 1}, SeverityStyle,
					"Include file: \""+target+"\" not found.", ErrMissingInclude)
			}
			out = append(out, "")
			continue
		}

		key := canonKey(resolved, canon)
		if _, seen := handled[key]; seen {
			out = append(out, "")
			continue
		}
		handled[key] = struct{}{}

		nested, err := resolveIncludes(ctx, content, resolved, searchPaths, opener, canon, sink, settings, handled)
		if err != nil {
			return "", err
		}

		out = append(out, `#file "`+resolved+`"`)
		out = append(out, nested)
		out = append(out, "#endfile")
	}

	return strings.Join(out, "\n"), nil
}

// parseIncludeTarget extracts the file name from an `#include` line's
// remainder, which is already the text following "include ".
func parseIncludeTarget(rest string) (target string, quoted bool, ok bool) {
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 {
		return "", false, false
	}
	switch rest[0] {
	case '"':
		end := strings.IndexByte(rest[1:], '"')
		if end < 0 {
			return "", false, false
		}
		return rest[1 : 1+end], true, true
	case '<':
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			return "", false, false
		}
		return rest[1:end], false, true
	}
	return "", false, false
}

// locateInclude resolves target against the including file's directory
// (quoted includes only) and then the configured search paths, in order,
// returning the first path that opens successfully.
func locateInclude(target string, quoted bool, fromFile string, searchPaths []string, opener FileOpener) (resolved, content string, found bool) {
	var candidates []string
	if quoted {
		candidates = append(candidates, path.Join(path.Dir(filepath.ToSlash(fromFile)), target))
	}
	for _, sp := range searchPaths {
		candidates = append(candidates, path.Join(filepath.ToSlash(sp), target))
	}
	if !quoted && len(searchPaths) == 0 {
		candidates = append(candidates, target)
	}

	for _, c := range candidates {
		if body, err := opener.Open(c); err == nil {
			return c, body, true
		}
	}
	return "", "", false
}

func canonKey(resolved string, canon PathCanonicaliser) string {
	p := resolved
	if canon != nil {
		p = canon.SimplifyPath(p)
	}
	return strings.ToLower(p)
}
