// Package main provides the mindcare CLI: it talks to the backend API
// for trails, executions and stats, and keeps the device-local
// progression cursor that drives guided sessions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configDir is set by the --config-dir flag.
var configDir string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mindcare",
	Short: "MindCare is a daily well-being trails companion",
	Long: `MindCare tracks daily micro-habit "trail" exercises. The CLI lists
the trail catalog, records completed exercises, shows aggregate stats,
and runs guided countdown sessions that advance the local progression.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default: ~/.mindcare)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(trailsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(sessionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("mindcare v0.1.0")
	},
}
