package store

import (
	"strings"

	"github.com/dfmod/rawc/internal/lexer"
)

// HasFragmentPrefix reports whether fragments begins with prefix, fragment
// by fragment. Used by OT_REMOVE_TAG / REMOVE_SPEC_TAG (§4.4.1, §4.5) and by
// SEL_BY_TAG (§4.4.2), all of which remove/match on a fragment-list prefix.
func HasFragmentPrefix(fragments, prefix []string) bool {
	if len(prefix) > len(fragments) {
		return false
	}
	for i, p := range prefix {
		if fragments[i] != p {
			return false
		}
	}
	return true
}

// FragmentsEqual reports whether two fragment lists are identical. Used by
// SEL_BY_TAG_PRECISE, which requires exact equality rather than a prefix.
func FragmentsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// RemoveMatching returns tokens with every entry whose leading fragments
// equal target removed, and the count removed.
func RemoveMatching(tokens []lexer.Token, target []string) ([]lexer.Token, int) {
	out := make([]lexer.Token, 0, len(tokens))
	removed := 0
	for _, t := range tokens {
		if HasFragmentPrefix(t.Fragments, target) {
			removed++
			continue
		}
		out = append(out, t)
	}
	return out, removed
}

// ApplyConvert performs the shared convert-block find-and-replace (§4.4.3):
// for each token whose leading fragments equal master, the remaining
// fragments are joined with ':' into an argument string; if target occurs
// in that string, every occurrence is replaced with replacement, the result
// is re-split on ':' with empty fragments dropped, and the token's argument
// fragments become that list. Mutates tokens in place (fragment count may
// change per matching token, token count does not).
func ApplyConvert(tokens []lexer.Token, master []string, target, replacement string) {
	for i := range tokens {
		frags := tokens[i].Fragments
		if !HasFragmentPrefix(frags, master) {
			continue
		}
		argStart := len(master)
		argString := strings.Join(frags[argStart:], ":")
		if !strings.Contains(argString, target) {
			continue
		}
		replaced := strings.ReplaceAll(argString, target, replacement)
		newArgs := splitColonDropEmpty(replaced)
		tokens[i].Fragments = append(append([]string{}, master...), newArgs...)
	}
}

func splitColonDropEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ":") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
