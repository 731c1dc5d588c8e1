package core

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/minsh-dev/minsh/core/logger"
	"github.com/minsh-dev/minsh/core/shell"
)

// Shell-conventional exit statuses.
const (
	StatusOK       = 0
	StatusFailure  = 1
	StatusSyntax   = 2
	StatusNotFound = 127
)

// runStatement executes one parsed statement and returns its exit
// status. Failures are reported on the session's error stream and never
// tear the session down.
func (s *Session) runStatement(raw string, st *shell.Statement) int {
	for _, cmd := range []*shell.Command{st.Left, st.Right} {
		if cmd == nil {
			continue
		}
		for _, w := range cmd.Warnings {
			fmt.Fprintf(s.stderr, "minsh: warning: %s\n", w)
		}
	}

	if st.Pipeline() {
		return s.runPipeline(raw, st)
	}
	return s.runCommand(raw, st.Left)
}

// runCommand executes a single non-piped command: a builtin when argv[0]
// names one, otherwise a spawned process.
func (s *Session) runCommand(raw string, c *shell.Command) int {
	if c.Empty() {
		return StatusOK
	}

	if builtin, ok := AllBuiltins[c.Args[0]]; ok {
		status := builtin.Main(s, c.Args)
		s.audit(&logger.Entry{Statement: raw, Args: c.Args, Status: status})
		return status
	}

	cmd := exec.Command(c.Args[0], c.Args[1:]...)
	cmd.Stdin = s.stdin
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr

	files, err := applyRedirections(cmd, c.Infile, c.Outfile)
	if err != nil {
		fmt.Fprintf(s.stderr, "minsh: %v\n", err)
		s.audit(&logger.Entry{Statement: raw, Args: c.Args, Status: StatusFailure, Error: err.Error()})
		return StatusFailure
	}

	err = cmd.Start()
	closeFiles(files)
	if err != nil {
		status := spawnStatus(err)
		fmt.Fprintf(s.stderr, "minsh: %v\n", err)
		s.audit(&logger.Entry{Statement: raw, Args: c.Args, Status: status, Error: err.Error()})
		return status
	}

	pid := cmd.Process.Pid
	if c.Background {
		s.signals.Track(pid, c.Args[0])
		fmt.Fprintf(s.stdout, "[bg] pid %d\n", pid)
		s.audit(&logger.Entry{Statement: raw, Args: c.Args, Pids: []int{pid}, Background: true})
		return StatusOK
	}

	status := waitStatus(cmd.Wait())
	s.audit(&logger.Entry{Statement: raw, Args: c.Args, Pids: []int{pid}, Status: status})
	return status
}

// runPipeline executes a two-command pipeline over one OS pipe. Builtins
// are not recognized inside pipelines; both sides are spawned.
func (s *Session) runPipeline(raw string, st *shell.Statement) int {
	left, right := st.Left, st.Right

	pr, pw, err := os.Pipe()
	if err != nil {
		fmt.Fprintf(s.stderr, "minsh: pipe: %v\n", err)
		s.audit(&logger.Entry{Statement: raw, Args: left.Args, RightArgs: right.Args, Status: StatusFailure, Error: err.Error()})
		return StatusFailure
	}

	lcmd := exec.Command(left.Args[0], left.Args[1:]...)
	lcmd.Stdin = s.stdin
	lcmd.Stdout = pw
	lcmd.Stderr = s.stderr

	rcmd := exec.Command(right.Args[0], right.Args[1:]...)
	rcmd.Stdin = pr
	rcmd.Stdout = s.stdout
	rcmd.Stderr = s.stderr

	// The pipe owns each side's inward-facing stream, so only the left
	// side's input and the right side's output redirections can take
	// effect; the other two are parsed but inert. A side whose file
	// cannot be opened (or whose program cannot be found) fails alone:
	// the other side still runs against the pipe, which the closed
	// session ends terminate promptly.
	lfiles, lerr := applyRedirections(lcmd, left.Infile, "")
	rfiles, rerr := applyRedirections(rcmd, "", right.Outfile)

	if lerr == nil {
		lerr = lcmd.Start()
	}
	if rerr == nil {
		rerr = rcmd.Start()
	}

	// Both pipe ends must be closed here no matter what: the right
	// process only sees end-of-input once the session's copies are gone.
	pr.Close()
	pw.Close()
	closeFiles(lfiles)
	closeFiles(rfiles)

	entry := &logger.Entry{Statement: raw, Args: left.Args, RightArgs: right.Args}
	for _, fail := range []error{lerr, rerr} {
		if fail != nil {
			fmt.Fprintf(s.stderr, "minsh: %v\n", fail)
			if entry.Error == "" {
				entry.Error = fail.Error()
			}
		}
	}
	if lerr == nil {
		entry.Pids = append(entry.Pids, lcmd.Process.Pid)
	}
	if rerr == nil {
		entry.Pids = append(entry.Pids, rcmd.Process.Pid)
	}

	if st.Background() && len(entry.Pids) > 0 {
		if lerr == nil {
			s.signals.Track(lcmd.Process.Pid, left.Args[0])
		}
		if rerr == nil {
			s.signals.Track(rcmd.Process.Pid, right.Args[0])
		}
		if len(entry.Pids) == 2 {
			fmt.Fprintf(s.stdout, "[bg] pids %d %d\n", entry.Pids[0], entry.Pids[1])
		} else {
			fmt.Fprintf(s.stdout, "[bg] pid %d\n", entry.Pids[0])
		}
		entry.Background = true
		s.audit(entry)
		return StatusOK
	}

	// The right side's status stands for the whole statement; the left
	// side is still collected so it never lingers as a zombie.
	if lerr == nil {
		waitStatus(lcmd.Wait())
	}
	var status int
	if rerr == nil {
		status = waitStatus(rcmd.Wait())
	} else {
		status = spawnStatus(rerr)
	}

	entry.Status = status
	s.audit(entry)
	return status
}

// spawnStatus maps a pre-spawn failure onto a shell exit status: 127
// when the program could not be found, 1 otherwise.
func spawnStatus(err error) int {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return StatusNotFound
	}
	return StatusFailure
}

// applyRedirections binds file redirections onto the command. The
// returned files stay open until the child has started; the caller
// closes them via closeFiles.
func applyRedirections(cmd *exec.Cmd, infile, outfile string) ([]*os.File, error) {
	var files []*os.File

	if infile != "" {
		f, err := os.Open(infile)
		if err != nil {
			return files, err
		}
		cmd.Stdin = f
		files = append(files, f)
	}

	if outfile != "" {
		f, err := os.OpenFile(outfile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
		if err != nil {
			return files, err
		}
		cmd.Stdout = f
		files = append(files, f)
	}

	return files, nil
}

func closeFiles(files []*os.File) {
	for _, f := range files {
		f.Close()
	}
}

// waitStatus converts a Wait error into a shell exit status.
func waitStatus(err error) int {
	if err == nil {
		return StatusOK
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal())
		}
		return exitErr.ExitCode()
	}
	return StatusFailure
}
