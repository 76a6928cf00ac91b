package compiler

import (
	"strings"

	"github.com/dfmod/rawc/internal/lexer"
	"github.com/dfmod/rawc/internal/store"
)

// insertAt inserts tok into tokens at index i.
func insertAt(tokens []lexer.Token, i int, tok lexer.Token) []lexer.Token {
	tokens = append(tokens, lexer.Token{})
	copy(tokens[i+1:], tokens[i:])
	tokens[i] = tok
	return tokens
}

// insertAllAt inserts add into tokens starting at index i, preserving order.
func insertAllAt(tokens []lexer.Token, i int, add []lexer.Token) []lexer.Token {
	out := make([]lexer.Token, 0, len(tokens)+len(add))
	out = append(out, tokens[:i]...)
	out = append(out, add...)
	out = append(out, tokens[i:]...)
	return out
}

// gotoTagIndex implements GO_TO_TAG's prefix-string match (§4.5, §9(c)): the
// first token whose fragments, joined by ':', have prefix as a string
// prefix (not a fragment-list prefix — this is the documented vanilla-
// semantics quirk, distinct from store.HasFragmentPrefix).
func gotoTagIndex(tokens []lexer.Token, prefix string) (int, bool) {
	for i, t := range tokens {
		if strings.HasPrefix(strings.Join(t.Fragments, ":"), prefix) {
			return i, true
		}
	}
	return 0, false
}

// removeMatchingClamped deletes every token whose leading fragments equal
// target, returning the new slice and the cursor decremented by the number
// removed, clamped to 0 (§4.5 OT_REMOVE_TAG).
func removeMatchingClamped(tokens []lexer.Token, target []string, cursor int) ([]lexer.Token, int) {
	out, removed := store.RemoveMatching(tokens, target)
	cursor -= removed
	if cursor < 0 {
		cursor = 0
	}
	return out, cursor
}
