package core

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/mattn/go-isatty"

	"github.com/minsh-dev/minsh/core/config"
	"github.com/minsh-dev/minsh/core/logger"
	"github.com/minsh-dev/minsh/core/shell"
)

// Session is one interactive shell session: a line-reading driver, the
// executor state shared by every statement, and the session-wide signal
// policy.
type Session struct {
	config   *config.Configuration
	signals  *SignalManager
	auditLog *logger.Log
	readline *readline.Instance

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	lastStatus int
	exiting    bool
	toClose    listCloser
}

// NewSession wires a session to the process's standard streams.
func NewSession(configuration *config.Configuration) (*Session, error) {
	s := &Session{
		config: configuration,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	auditFd, err := configuration.OpenAuditLog()
	if err != nil {
		return nil, err
	}
	if auditFd != nil {
		s.auditLog = logger.New(auditFd)
		s.toClose = append(s.toClose, auditFd)
	}

	cfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(os.Stdin),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		FuncIsTerminal: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd())
		},
	}
	if err := cfg.Init(); err != nil {
		s.toClose.Close()
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		s.toClose.Close()
		return nil, err
	}
	s.readline = rl
	s.toClose = append(s.toClose, rl)

	s.signals = NewSignalManager(os.Stdout)
	return s, nil
}

// Prompt renders the configured prompt, expanding \u, \h, \w and \$.
func (s *Session) Prompt() string {
	prompt := s.config.Prompt

	prompt = strings.ReplaceAll(prompt, `\u`, os.Getenv("USER"))

	host, _ := os.Hostname()
	prompt = strings.ReplaceAll(prompt, `\h`, host)

	pwd, _ := os.Getwd()
	home := s.config.Home()
	if home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, pwd)

	if os.Geteuid() == 0 {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}

// Run reads lines until end of input or an exit builtin. The prompt is
// only drawn when standard input is a terminal.
func (s *Session) Run() error {
	for !s.exiting {
		s.readline.SetPrompt(s.Prompt())
		line, err := s.readline.Readline()

		switch {
		case err == io.EOF:
			return nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			continue // Ctrl-C at the prompt, redraw.

		case err != nil:
			return err

		case len(line) == 0:
			continue // empty line

		default:
			s.RunLine(line)
		}
	}
	return nil
}

// RunLine splits one input line into statements and executes them left
// to right. Statements are independent: a syntax or spawn failure in one
// never prevents the ones after it, and each foreground statement fully
// completes before the next begins. The returned status is the last
// statement's.
func (s *Session) RunLine(line string) int {
	for _, raw := range shell.SplitStatements(line) {
		if s.exiting {
			break // exit discards the rest of the line
		}

		tokens := shell.Tokenize(raw, s.config.MaxTokens)
		st, err := shell.ParseStatement(tokens, s.config.MaxArgs)
		if err != nil {
			fmt.Fprintf(s.stderr, "minsh: %v\n", err)
			s.audit(&logger.Entry{Statement: raw, Status: StatusSyntax, Error: err.Error()})
			s.lastStatus = StatusSyntax
			continue
		}

		s.lastStatus = s.runStatement(raw, st)
	}
	return s.lastStatus
}

// LastStatus is the exit status of the most recent statement.
func (s *Session) LastStatus() int {
	return s.lastStatus
}

func (s *Session) audit(e *logger.Entry) {
	if err := s.auditLog.Record(e); err != nil {
		fmt.Fprintf(s.stderr, "minsh: audit log: %v\n", err)
	}
}

func (s *Session) Close() error {
	if s.signals != nil {
		s.signals.Close()
	}
	return s.toClose.Close()
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
