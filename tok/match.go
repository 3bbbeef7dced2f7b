package tok

import "strings"

// Match implements the small subset of cppcheck's Token::Match pattern
// language that the condition simplifier needs: space-separated literal
// words, the wildcards %var%, %num%, %any%, and a single level of `|`
// alternation within a word (e.g. ",|)").
func Match(t *Token, pattern string) bool {
	words := strings.Fields(pattern)
	cur := t
	for _, w := range words {
		if cur == nil {
			return false
		}
		if !matchWord(cur, w) {
			return false
		}
		cur = cur.next
	}
	return true
}

func matchWord(t *Token, word string) bool {
	if strings.Contains(word, "|") {
		for _, alt := range strings.Split(word, "|") {
			if matchAtom(t, alt) {
				return true
			}
		}
		return false
	}
	return matchAtom(t, word)
}

func matchAtom(t *Token, atom string) bool {
	switch atom {
	case "%var%":
		return t.IsName()
	case "%num%":
		return t.IsNumber()
	case "%any%":
		return true
	case "":
		return true
	default:
		return t.Str == atom
	}
}

// SimpleMatch matches only literal words, no wildcards — kept distinct from
// Match for readability at call sites, exactly as cppcheck distinguishes
// Token::simpleMatch from Token::Match even though the implementations
// could be shared.
func SimpleMatch(t *Token, pattern string) bool {
	cur := t
	for _, w := range strings.Fields(pattern) {
		if cur == nil || cur.Str != w {
			return false
		}
		cur = cur.next
	}
	return true
}

// FindMatch scans forward from t (inclusive) for the first token at which
// pattern matches, or nil if none is found.
func FindMatch(t *Token, pattern string) *Token {
	for cur := t; cur != nil; cur = cur.next {
		if Match(cur, pattern) {
			return cur
		}
	}
	return nil
}
