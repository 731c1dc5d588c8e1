package shell

import (
	"fmt"
	"strings"
)

// StatementSeparator splits one input line into independent statements.
const StatementSeparator = ";"

// DefaultMaxArgs bounds a single Command's argument list when no limit
// is configured.
const DefaultMaxArgs = 128

// SyntaxError reports a malformed statement. The statement is abandoned
// without spawning anything; the session keeps running.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.Msg
}

func syntaxErrorf(format string, a ...interface{}) *SyntaxError {
	return &SyntaxError{Msg: fmt.Sprintf(format, a...)}
}

// Command is one parsed simple command.
type Command struct {
	// Args holds the argument list; Args[0] is the program or builtin
	// name. An empty list makes the Command inert (a no-op, not an
	// error).
	Args []string
	// Infile is the "< file" redirection target, empty if absent.
	Infile string
	// Outfile is the "> file" redirection target, empty if absent.
	Outfile string
	// Background reports a trailing (or stray, see Warnings) "&".
	Background bool
	// Warnings holds non-fatal parse diagnostics, e.g. an "&" that was
	// not the last token.
	Warnings []string
}

// Empty reports whether the Command has no arguments and therefore
// nothing to run.
func (c *Command) Empty() bool {
	return len(c.Args) == 0
}

// Statement is one unit of execution: a bare Command, or a two-command
// pipeline when Right is non-nil.
type Statement struct {
	Left  *Command
	Right *Command
}

// Pipeline reports whether the statement is a two-command pipeline.
func (s *Statement) Pipeline() bool {
	return s.Right != nil
}

// Background reports whether either side of the statement requested
// background execution.
func (s *Statement) Background() bool {
	if s.Left != nil && s.Left.Background {
		return true
	}
	return s.Right != nil && s.Right.Background
}

// SplitStatements splits a raw input line on the statement separator,
// trims whitespace and drops empty pieces. It runs before the tokenizer,
// so a ";" inside quotes still separates statements.
func SplitStatements(line string) []string {
	var out []string
	for _, piece := range strings.Split(line, StatementSeparator) {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

// ParseStatement builds a Statement from one statement's tokens.
//
// Only the first Pipe token is structural: it splits the tokens into the
// pipeline's left and right sides. A pipe at the first or last token
// position is a syntax error, as is a side whose argument list comes out
// empty. Any later Pipe tokens are handed to the command builder as
// ordinary tokens and end up as literal "|" arguments; the shell does
// not support multi-stage pipelines.
func ParseStatement(tokens []Token, maxArgs int) (*Statement, error) {
	pipeAt := -1
	for i, tok := range tokens {
		if tok.Kind == Pipe {
			pipeAt = i
			break
		}
	}

	if pipeAt < 0 {
		cmd, err := parseCommand(tokens, maxArgs)
		if err != nil {
			return nil, err
		}
		return &Statement{Left: cmd}, nil
	}

	if pipeAt == 0 || pipeAt == len(tokens)-1 {
		return nil, syntaxErrorf("misplaced pipe")
	}

	left, err := parseCommand(tokens[:pipeAt], maxArgs)
	if err != nil {
		return nil, err
	}
	right, err := parseCommand(tokens[pipeAt+1:], maxArgs)
	if err != nil {
		return nil, err
	}
	if left.Empty() || right.Empty() {
		return nil, syntaxErrorf("misplaced pipe")
	}
	return &Statement{Left: left, Right: right}, nil
}

// parseCommand builds one Command from a token range.
func parseCommand(tokens []Token, maxArgs int) (*Command, error) {
	if maxArgs <= 0 {
		maxArgs = DefaultMaxArgs
	}

	cmd := &Command{}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Kind {
		case RedirectIn:
			if i+1 >= len(tokens) {
				return nil, syntaxErrorf("expected filename after '<'")
			}
			i++
			cmd.Infile = tokens[i].Text

		case RedirectOut:
			if i+1 >= len(tokens) {
				return nil, syntaxErrorf("expected filename after '>'")
			}
			i++
			cmd.Outfile = tokens[i].Text

		case Background:
			if i != len(tokens)-1 {
				cmd.Warnings = append(cmd.Warnings,
					"'&' not at end of command, treating as background")
			}
			cmd.Background = true

		default:
			// Word, and any Pipe past the structural one; both
			// contribute their text as an argument.
			if len(cmd.Args) >= maxArgs {
				return nil, syntaxErrorf("too many arguments")
			}
			cmd.Args = append(cmd.Args, tok.Text)
		}
	}
	return cmd, nil
}
