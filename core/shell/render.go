package shell

import (
	"fmt"
	"strings"
)

// String renders the command in a stable single-line form used by
// debugging output and golden tests.
func (c *Command) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "args=%q", c.Args)
	if c.Infile != "" {
		fmt.Fprintf(&sb, " in=%q", c.Infile)
	}
	if c.Outfile != "" {
		fmt.Fprintf(&sb, " out=%q", c.Outfile)
	}
	if c.Background {
		sb.WriteString(" bg")
	}
	for _, w := range c.Warnings {
		fmt.Fprintf(&sb, " warn=%q", w)
	}
	return sb.String()
}

func (s *Statement) String() string {
	if s.Pipeline() {
		return s.Left.String() + " | " + s.Right.String()
	}
	return s.Left.String()
}
