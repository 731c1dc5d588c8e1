package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pborman/getopt/v2"
)

// AllBuiltins holds a list of all registered shell builtins. Builtins
// run inside the session process and are recognized only as the first
// word of a non-piped command.
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Session, args []string) int
}

type ShellBuiltinFunc func(s *Session, args []string) int

func (f ShellBuiltinFunc) Main(s *Session, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// Cd is the cd shell builtin. Without an argument it changes to the
// session's home directory. Failure leaves the working directory
// untouched and never ends the session.
func Cd(s *Session, args []string) int {
	switch len(args) {
	case 1:
		args = append(args, s.config.Home())
		fallthrough
	case 2:
		if err := os.Chdir(args[1]); err != nil {
			fmt.Fprintf(s.stderr, "%s: %v\n", args[0], err)
			return StatusFailure
		}
	default:
		fmt.Fprintf(s.stderr, "%s: too many arguments\n", args[0])
		return StatusFailure
	}
	return StatusOK
}

// Exit ends the whole session with status 0, ignoring its arguments and
// any statements still pending on the same line.
func Exit(s *Session, args []string) int {
	s.exiting = true
	return StatusOK
}

// Pwd prints the working directory. By default (or with -L) it keeps
// the logical path from $PWD when that still names the working
// directory; -P resolves every symbolic link. -L overrides -P.
func Pwd(s *Session, args []string) int {
	opts := getopt.New()
	logical := opts.Bool('L', "print the value kept by the shell (default)")
	physical := opts.Bool('P', "resolve all symbolic links")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.stderr
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: pwd [-LP]")
		opts.PrintOptions(w)
		return StatusFailure
	}

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(s.stderr, "%s: %v\n", args[0], err)
		return StatusFailure
	}
	if *physical && !*logical {
		if resolved, err := filepath.EvalSymlinks(wd); err == nil {
			wd = resolved
		}
	} else if pwd := os.Getenv("PWD"); pwd != "" && sameDir(pwd, wd) {
		wd = pwd
	}
	fmt.Fprintln(s.stdout, wd)
	return StatusOK
}

// sameDir reports whether both paths name the same directory.
func sameDir(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// Help lists the builtins.
func Help(s *Session, args []string) int {
	w := s.stdout
	fmt.Fprintln(w, "minsh, a minimal shell")
	fmt.Fprintln(w, "These commands are defined internally; everything else is spawned.")
	fmt.Fprintln(w)

	var builtins []string
	for k := range AllBuiltins {
		builtins = append(builtins, k)
	}
	sort.Strings(builtins)

	fmt.Fprintln(w, strings.Join(builtins, "\n"))
	return StatusOK
}

func init() {
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["pwd"] = ShellBuiltinFunc(Pwd)
	AllBuiltins["help"] = ShellBuiltinFunc(Help)
}
