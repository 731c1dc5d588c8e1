package cmd

import (
	"github.com/spf13/cobra"

	"github.com/minsh-dev/minsh/core"
)

// runCmd starts an interactive session; it is also the root command's
// default behavior.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive session on this terminal.",
	Args:  cobra.ExactArgs(0),
	RunE:  runSession,
}

func runSession(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	configuration, err := loadConfig()
	if err != nil {
		return err
	}

	session, err := core.NewSession(configuration)
	if err != nil {
		return err
	}
	defer session.Close()

	return session.Run()
}

func init() {
	rootCmd.AddCommand(runCmd)
}
