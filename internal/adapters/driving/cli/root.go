// Package cli defines the command line interface.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	// Version is set by goreleaser ldflags.
	version = "dev"

	// Verbose enables debug logging.
	verbose bool

	// configPath points at an optional TOML configuration file.
	configPath string
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "graphact",
	Short: "HTTP gateway dispatching named actions to Microsoft Graph",
	Long: `Graphact exposes a single HTTP endpoint that dispatches named actions
(mail, calendar, OneDrive and Teams operations) to the Microsoft Graph API,
authenticating with client credentials.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML configuration file")
}
