package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prototype-kit/kit/internal/config"
)

var (
	jsonOutput   bool
	noInstall    bool
	versionRange string
)

func init() {
	// Initialize viper configuration
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noInstall, "no-install", false, "Skip npm install steps")
	rootCmd.PersistentFlags().StringVar(&versionRange, "version-range", "", "Kit version to target (default: latest)")

	// --version flag on the root command, same behavior as the version subcommand
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}

var rootCmd = &cobra.Command{
	Use:   "kit",
	Short: "kit - GOV.UK prototype kit CLI",
	Long:  `Scaffold, serve and upgrade template-based prototype projects.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("kit version %s (%s)\n", Version, Build)
			return
		}
		// No subcommand - show help
		_ = cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Apply viper configuration if flags weren't explicitly set
		// Priority: flags > viper (config file + env vars) > defaults
		if !cmd.Flags().Changed("json") {
			jsonOutput = config.GetBool("json")
		}
		if !cmd.Flags().Changed("no-install") {
			noInstall = config.GetBool("no-install")
		}
		if !cmd.Flags().Changed("version-range") && versionRange == "" {
			versionRange = config.GetString("version-range")
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
