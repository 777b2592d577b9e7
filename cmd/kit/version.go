package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prototype-kit/kit"
)

var (
	// Version is the current kit version (overridden by ldflags at build time)
	Version = kit.Version
	// Build can be set via ldflags at compile time
	Build = "dev"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			outputJSON(map[string]string{
				"version": Version,
				"build":   Build,
			})
		} else {
			fmt.Printf("kit version %s (%s)\n", Version, Build)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
