package compiler

import (
	"strconv"
	"strings"

	"github.com/dfmod/rawc/internal/lexer"
)

// substituteArgs implements argument substitution (§4.5.1) for a directive
// body taken from a COPY_TAGS_FROM or USE_OBJECT_TEMPLATE call: every `|`
// inside an argument becomes `:`, then every fragment of every token has
// `!ARG<i>` replaced by args[i-1], highest i first so `!ARG10` is resolved
// before `!ARG1` strips its prefix.
func substituteArgs(tokens []lexer.Token, args []string) []lexer.Token {
	if len(args) == 0 {
		return cloneTokens(tokens)
	}
	rewritten := make([]string, len(args))
	for i, a := range args {
		rewritten[i] = strings.ReplaceAll(a, "|", ":")
	}

	out := make([]lexer.Token, len(tokens))
	for ti, tok := range tokens {
		frags := make([]string, len(tok.Fragments))
		for fi, f := range tok.Fragments {
			frags[fi] = substituteFragment(f, rewritten)
		}
		out[ti] = lexer.Token{Fragments: frags}
	}
	return out
}

func substituteFragment(f string, args []string) string {
	for i := len(args); i >= 1; i-- {
		f = strings.ReplaceAll(f, "!ARG"+strconv.Itoa(i), args[i-1])
	}
	return f
}

func cloneTokens(tokens []lexer.Token) []lexer.Token {
	out := make([]lexer.Token, len(tokens))
	for i, t := range tokens {
		frags := append([]string(nil), t.Fragments...)
		out[i] = lexer.Token{Fragments: frags}
	}
	return out
}
