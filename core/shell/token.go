package shell

import "strings"

// TokenKind classifies a lexed token.
type TokenKind int

const (
	// Word is a program name, argument or filename.
	Word TokenKind = iota
	// RedirectIn is the "<" operator.
	RedirectIn
	// RedirectOut is the ">" operator.
	RedirectOut
	// Pipe is the "|" operator.
	Pipe
	// Background is the "&" marker.
	Background
)

func (k TokenKind) String() string {
	switch k {
	case Word:
		return "word"
	case RedirectIn:
		return "<"
	case RedirectOut:
		return ">"
	case Pipe:
		return "|"
	case Background:
		return "&"
	default:
		return "invalid"
	}
}

// Token is a single lexical token. Text holds the word's characters for
// Word tokens and the operator's character otherwise.
type Token struct {
	Kind TokenKind
	Text string
}

// DefaultMaxTokens bounds the token stream when no limit is configured.
const DefaultMaxTokens = 256

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func operatorKind(c byte) (TokenKind, bool) {
	switch c {
	case '<':
		return RedirectIn, true
	case '>':
		return RedirectOut, true
	case '|':
		return Pipe, true
	case '&':
		return Background, true
	default:
		return 0, false
	}
}

// Tokenize lexes one statement into tokens.
//
// Runs of whitespace separate tokens. Each of < > | & is always its own
// one-character operator token, even with no surrounding whitespace.
// Single- and double-quoted spans become Word tokens with quotes
// stripped; inside double quotes a backslash escapes the next character;
// an unterminated quote consumes to the end of the input. The stream is
// silently truncated at limit tokens (limit <= 0 means
// DefaultMaxTokens).
func Tokenize(statement string, limit int) []Token {
	if limit <= 0 {
		limit = DefaultMaxTokens
	}

	var tokens []Token
	i := 0
	for i < len(statement) && len(tokens) < limit {
		for i < len(statement) && isSpace(statement[i]) {
			i++
		}
		if i >= len(statement) {
			break
		}

		c := statement[i]
		switch {
		case c == '\'' || c == '"':
			var text string
			text, i = lexQuoted(statement, i)
			tokens = append(tokens, Token{Kind: Word, Text: text})

		default:
			if kind, ok := operatorKind(c); ok {
				tokens = append(tokens, Token{Kind: kind, Text: string(c)})
				i++
				break
			}
			start := i
			for i < len(statement) {
				c := statement[i]
				if isSpace(c) {
					break
				}
				if _, ok := operatorKind(c); ok {
					break
				}
				i++
			}
			tokens = append(tokens, Token{Kind: Word, Text: statement[start:i]})
		}
	}
	return tokens
}

// lexQuoted scans a quoted span starting at the opening quote and
// returns the unquoted text plus the index just past the closing quote
// (or past the end of the input if the quote is unterminated).
func lexQuoted(statement string, start int) (string, int) {
	quote := statement[start]
	i := start + 1

	// Inside double quotes a backslash shields the next character from
	// terminating the span; both characters are kept verbatim.
	var sb strings.Builder
	for i < len(statement) && statement[i] != quote {
		if statement[i] == '\\' && quote == '"' && i+1 < len(statement) {
			sb.WriteByte(statement[i])
			i++
		}
		sb.WriteByte(statement[i])
		i++
	}
	if i < len(statement) {
		i++ // closing quote
	}
	return sb.String(), i
}
