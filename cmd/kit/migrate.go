package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/prototype-kit/kit"
	"github.com/prototype-kit/kit/internal/bootstrap"
	"github.com/prototype-kit/kit/internal/migrate"
	"github.com/prototype-kit/kit/internal/project"
)

// MigrateLockName guards against two migrations of the same project at once.
const MigrateLockName = ".kit-migrate.lock"

var (
	stageTwoToken   string
	detectedVersion string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [project-dir]",
	Short: "Upgrade a prototype project to the current kit version",
	Long: `Upgrade a previously created prototype project to the current kit version.

This command:
- Checks the project is recognizable and its git tree is clean
- Installs the target kit version into the project
- Re-runs itself through the installed copy, so the migration steps that
  execute are the ones shipped with the target version
- Applies the applicable migration steps in order, stopping at the first
  failure

A failed migration leaves the completed steps' changes on disk; use git to
inspect or discard them.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		root := kit.Getwd()
		if len(args) == 1 {
			root = args[0]
		}

		// Stage two: we are the installed copy, run the engine directly.
		if stageTwoToken != "" {
			if !bootstrap.ValidToken(stageTwoToken) {
				fmt.Fprintf(os.Stderr, "Error: invalid internal invocation\n")
				os.Exit(1)
			}
			runStageTwo(root)
			return
		}

		result := kit.PreflightChecks(root)
		if !result.OK {
			if jsonOutput {
				outputJSON(result)
			} else {
				for _, reason := range result.Reasons {
					fmt.Fprintf(os.Stderr, "Error: %s\n", reason)
				}
				fmt.Fprintf(os.Stderr, "Hint: run 'kit migrate' from a prototype project with a clean git tree\n")
			}
			os.Exit(1)
		}

		if dryRun {
			printPlan(root)
			return
		}

		lock := flock.New(filepath.Join(root, MigrateLockName))
		locked, err := lock.TryLock()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: acquiring migrate lock: %v\n", err)
			os.Exit(1)
		}
		if !locked {
			fmt.Fprintf(os.Stderr, "Error: another migration of this project is in progress\n")
			os.Exit(1)
		}

		// The install below pins the manifest's kit entry to the target
		// version, so the version the project is migrating from has to be
		// read before it runs and carried into stage two.
		detected, err := kit.DetectedVersion(root)
		if err != nil {
			_ = lock.Unlock()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		if err := kit.PrepareMigration(ctx, root, versionRange); err != nil {
			_ = lock.Unlock()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "Hint: check that npm is installed and the network is reachable\n")
			os.Exit(1)
		}

		installed, err := bootstrap.InstalledVersion(root)
		if err != nil {
			_ = lock.Unlock()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "Hint: check that npm is installed and the network is reachable\n")
			os.Exit(1)
		}
		if !jsonOutput {
			color.Green("✓ Installed %s %s", project.KitPackage, installed)
		}

		code, err := bootstrap.Handoff(ctx, root, bootstrap.HandoffOptions{
			DetectedVersion: detected,
			JSON:            jsonOutput,
		})
		_ = lock.Unlock()
		if code != 0 {
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(code)
		}
	},
}

// runStageTwo applies the migration plan in-process. Only reached through the
// sentinel flag, so bootstrap already happened and the lock is held by stage
// one. The plan is selected against the version stage one detected before the
// install rewrote the manifest.
func runStageTwo(root string) {
	report, err := kit.MigrateFrom(root, detectedVersion)
	if err != nil {
		if report != nil {
			printReport(report)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Hint: see %s in the project, then 'git status' to inspect partial changes\n",
			migrate.MigrateLogName)
		os.Exit(1)
	}

	if jsonOutput {
		outputJSON(report)
		return
	}
	printReport(report)
	if len(report.Results) == 0 {
		color.Green("✓ Project already up to date (detected %s)", report.DetectedVersion)
	} else {
		color.Green("✓ Migrated from %s to %s", report.DetectedVersion, report.TargetVersion)
	}
}

func printReport(report *kit.Report) {
	if jsonOutput {
		return
	}
	for _, res := range report.Results {
		switch {
		case res.Err != nil:
			color.Red("✗ %s: %v", res.Description, res.Err)
		case len(res.Changed) == 0:
			fmt.Printf("  %s: no changes\n", res.Description)
		default:
			color.Green("✓ %s", res.Description)
			for _, f := range res.Changed {
				fmt.Printf("    %s\n", f)
			}
		}
	}
}

// printPlan shows the steps this binary would select, without bootstrapping.
// The real run may differ if the installed target version ships a different
// catalogue.
func printPlan(root string) {
	p, err := project.Load(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	detected := p.DetectedVersion()
	plan := migrate.PlanFor(detected)

	if jsonOutput {
		steps := make([]map[string]string, 0, len(plan))
		for _, s := range plan {
			steps = append(steps, map[string]string{
				"name":        s.Name,
				"description": s.Description,
			})
		}
		outputJSON(map[string]interface{}{
			"detected_version": detected,
			"target_version":   migrate.ToolVersion,
			"steps":            steps,
		})
		return
	}

	fmt.Printf("Detected version: %s\n", detected)
	fmt.Printf("Target version:   %s\n", migrate.ToolVersion)
	if len(plan) == 0 {
		color.Green("✓ Nothing to do")
		return
	}
	fmt.Printf("Steps that would run:\n")
	for _, s := range plan {
		fmt.Printf("  - %s\n", s.Description)
	}
}

func init() {
	migrateCmd.Flags().Bool("dry-run", false, "Show the migration plan without changing anything")
	migrateCmd.Flags().StringVar(&stageTwoToken, "internal-stage-two", "", "")
	_ = migrateCmd.Flags().MarkHidden("internal-stage-two")
	migrateCmd.Flags().StringVar(&detectedVersion, "detected-version", "", "")
	_ = migrateCmd.Flags().MarkHidden("detected-version")
	rootCmd.AddCommand(migrateCmd)
}
