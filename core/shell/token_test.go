package shell

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func words(tokens []Token) []string {
	var out []string
	for _, tok := range tokens {
		out = append(out, tok.Text)
	}
	return out
}

func kinds(tokens []Token) []TokenKind {
	var out []TokenKind
	for _, tok := range tokens {
		out = append(out, tok.Kind)
	}
	return out
}

func TestTokenizeQuotes(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{`echo "a b" c`, []string{"echo", "a b", "c"}},
		{`echo 'a  b'`, []string{"echo", "a  b"}},
		{`echo ""`, []string{"echo", ""}},
		// Unterminated quotes consume to end of input without error.
		{`echo "abc`, []string{"echo", "abc"}},
		{`echo 'abc`, []string{"echo", "abc"}},
		// Backslash shields the next character inside double quotes
		// only; both characters are kept.
		{`echo "a\"b"`, []string{"echo", `a\"b`}},
		{`echo 'a\'`, []string{"echo", `a\`}},
		// Quoted operators are plain words.
		{`echo "a|b" '&'`, []string{"echo", "a|b", "&"}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got := Tokenize(tc.in, 0)
			assert.Equal(t, tc.want, words(got))
			for _, tok := range got {
				assert.Equal(t, Word, tok.Kind)
			}
		})
	}
}

func TestTokenizeOperatorsNeedNoWhitespace(t *testing.T) {
	got := Tokenize("cmd>out", 0)
	assert.Equal(t, []string{"cmd", ">", "out"}, words(got))
	assert.Equal(t, []TokenKind{Word, RedirectOut, Word}, kinds(got))

	got = Tokenize("a<b|c&", 0)
	assert.Equal(t, []TokenKind{Word, RedirectIn, Word, Pipe, Word, Background}, kinds(got))
	assert.Equal(t, []string{"a", "<", "b", "|", "c", "&"}, words(got))
}

func TestTokenizeWhitespace(t *testing.T) {
	assert.Empty(t, Tokenize("", 0))
	assert.Empty(t, Tokenize(" \t \n", 0))
	assert.Equal(t, []string{"a", "b"}, words(Tokenize("  a \t b  ", 0)))
}

func TestTokenizeTruncatesAtLimit(t *testing.T) {
	got := Tokenize("a b c d e", 3)
	assert.Equal(t, []string{"a", "b", "c"}, words(got))
}

func ExampleTokenize() {
	for _, tok := range Tokenize(`sort <"my file.txt" | uniq`, 0) {
		fmt.Printf("%s %q\n", tok.Kind, tok.Text)
	}

	// Output: word "sort"
	// < "<"
	// word "my file.txt"
	// | "|"
	// word "uniq"
}
