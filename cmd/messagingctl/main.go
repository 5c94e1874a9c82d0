package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "messagingctl",
	Short: "Operations tool for the messaging service",
	Long: `messagingctl runs one-off maintenance tasks against the messaging store.

Examples:
  messagingctl migrate                      # Create or update the MySQL schema
  messagingctl cleanup --older-than-days 7  # Delete old notifications
  messagingctl token --user u-1             # Mint a bearer token for local testing`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(tokenCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}
