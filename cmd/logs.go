package cmd

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/minsh-dev/minsh/core/logger"
)

var onlyFailures bool

var (
	timeColor   = color.New(color.FgCyan)
	statusColor = color.New(color.FgGreen)
	errColor    = color.New(color.FgRed, color.Bold)
	bgColor     = color.New(color.FgYellow)
)

// logsCmd prints the session audit log.
var logsCmd = &cobra.Command{
	Use:     "logs",
	Aliases: []string{"log"},
	Short:   "Print the session audit log.",
	Args:    cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}
		if configuration.AuditLog == "" {
			return errors.New("auditing is disabled in the configuration")
		}

		fd, err := configuration.ReadAuditLog()
		if err != nil {
			return err
		}
		defer fd.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 8, 8, 2, ' ', 0)
		defer w.Flush()

		return logger.ReadLog(fd, func(e *logger.Entry) {
			if onlyFailures && e.Error == "" && e.Status == 0 {
				return
			}

			status := statusColor.Sprintf("%d", e.Status)
			if e.Status != 0 {
				status = errColor.Sprintf("%d", e.Status)
			}
			if e.Background {
				status = bgColor.Sprint("bg")
			}

			ts := time.UnixMicro(e.TimestampMicros).Format(time.RFC3339)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				timeColor.Sprint(ts),
				status,
				strings.TrimSpace(e.Statement),
				errColor.Sprint(e.Error))
		})
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().BoolVar(&onlyFailures, "failures", false, "Only show failed statements.")
}
