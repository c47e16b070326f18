/*
Package commands holds the navigator command line.
*/
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	envFile    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "navigator",
	Short: "Finds the cube and drives next to it",
	Long: `navigator runs the cube search and go-to-pose procedures on a
differential-drive robot, either one-shot from the command line or behind
an authenticated HTTP API with a live state stream.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default configs/config.yml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "env file loaded before the config (default ./.env when present)")
}
