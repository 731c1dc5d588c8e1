package cmd

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/minsh-dev/minsh/core/config"
)

var cfgPath string

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	// A shell should start without ceremony; fall back to the built-in
	// defaults when no config.yaml has been written yet.
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "minsh",
	Short: "A minimal interactive shell.",
	Long: `minsh reads one line at a time and runs ;-separated statements,
each a command or a two-stage pipeline, with <, > redirections and
trailing & for background execution.`,
	RunE: runSession,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
}
