package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/prototype-kit/kit"
	"github.com/prototype-kit/kit/internal/bootstrap"
	"github.com/prototype-kit/kit/internal/config"
	"github.com/prototype-kit/kit/internal/scaffold"
)

var createCmd = &cobra.Command{
	Use:   "create [dir]",
	Short: "Create a new prototype project",
	Long: `Create a new prototype project in the given directory (default: current
directory). Prompts for a service name and starter template unless --name is
given, then writes the starter files, initializes git and installs
dependencies.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		serviceName, _ := cmd.Flags().GetString("name")
		templateName, _ := cmd.Flags().GetString("template")
		port, _ := cmd.Flags().GetInt("port")
		noGit, _ := cmd.Flags().GetBool("no-git")

		if !cmd.Flags().Changed("template") {
			templateName = config.GetString("template")
		}
		if !cmd.Flags().Changed("port") {
			port = config.GetInt("port")
		}

		// Interactive form when no name was given on the command line
		if serviceName == "" {
			var err error
			serviceName, templateName, err = askCreateOptions(templateName)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				fmt.Fprintf(os.Stderr, "Hint: pass --name to run non-interactively\n")
				os.Exit(1)
			}
		}

		opts := kit.ScaffoldOptions{
			ServiceName: serviceName,
			Port:        port,
			Template:    templateName,
		}
		if err := kit.Scaffold(dir, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if !noGit {
			if err := gitInit(dir); err != nil {
				color.Yellow("⚠ git init failed: %v", err)
			}
		}

		if !noInstall {
			if err := npmInstall(dir); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				fmt.Fprintf(os.Stderr, "Hint: run 'npm install' in %s manually\n", dir)
				os.Exit(1)
			}
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"dir":          dir,
				"service_name": serviceName,
				"template":     templateName,
				"installed":    !noInstall,
			})
			return
		}
		color.Green("✓ Created %q in %s", serviceName, dir)
		fmt.Printf("\nNext steps:\n")
		if noInstall {
			fmt.Printf("  cd %s && npm install && kit serve\n", dir)
		} else {
			fmt.Printf("  cd %s && kit serve\n", dir)
		}
	},
}

// askCreateOptions collects the service name and starter template
// interactively.
func askCreateOptions(defaultTemplate string) (name, template string, err error) {
	templates, err := scaffold.Templates()
	if err != nil {
		return "", "", err
	}

	options := make([]huh.Option[string], 0, len(templates))
	for _, t := range templates {
		options = append(options, huh.NewOption(fmt.Sprintf("%s - %s", t.Name, t.Description), t.Name))
	}

	template = defaultTemplate
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Service name").
				Description("Shown in the service header, e.g. 'Apply for a juggling licence'").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("service name cannot be empty")
					}
					return nil
				}).
				Value(&name),
			huh.NewSelect[string]().
				Title("Starter template").
				Options(options...).
				Value(&template),
		),
	)
	if err := form.Run(); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(name), template, nil
}

// gitInit makes the new project a git repository. Best effort: a missing git
// binary degrades to a warning, never a failed create.
func gitInit(dir string) error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git not found in PATH")
	}
	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func npmInstall(dir string) error {
	fmt.Printf("Installing dependencies, this can take a minute...\n")
	cmd := exec.Command("npm", "install")
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	filter := bootstrap.NewNoiseFilter(os.Stderr)
	cmd.Stderr = filter

	err := cmd.Run()
	_ = filter.Flush()
	if err != nil {
		return fmt.Errorf("npm install failed: %w", err)
	}
	return nil
}

func init() {
	createCmd.Flags().String("name", "", "Service name (skips the interactive prompt)")
	createCmd.Flags().String("template", "default", "Starter template")
	createCmd.Flags().Int("port", 0, "Port the prototype serves on")
	createCmd.Flags().Bool("no-git", false, "Skip git init")
	rootCmd.AddCommand(createCmd)
}
