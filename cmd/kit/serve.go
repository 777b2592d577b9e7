package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/prototype-kit/kit"
	"github.com/prototype-kit/kit/internal/config"
	"github.com/prototype-kit/kit/internal/project"
)

// ServeLogName is the rotating log the serve command tees child output into.
const ServeLogName = "kit-serve.log"

var serveCmd = &cobra.Command{
	Use:   "serve [project-dir]",
	Short: "Run the prototype locally",
	Long: `Run the prototype's dev server, restarting it when app/config.json
changes. Child output is shown and also written to ` + ServeLogName + ` in the
project root.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := kit.Getwd()
		if len(args) == 1 {
			root = args[0]
		}
		if !kit.IsKitProject(root) {
			fmt.Fprintf(os.Stderr, "Error: %s is not a prototype project\n", root)
			fmt.Fprintf(os.Stderr, "Hint: run 'kit create' to start a new prototype\n")
			os.Exit(1)
		}

		want := configuredPort(root)
		if cmd.Flags().Changed("port") {
			want, _ = cmd.Flags().GetInt("port")
		}
		port, err := pickPort(want)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		logw := &lumberjack.Logger{
			Filename:   filepath.Join(root, ServeLogName),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
		defer func() { _ = logw.Close() }()

		color.Green("✓ Serving on http://localhost:%d", port)
		if err := serveLoop(root, port, logw); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// configuredPort reads the project's declared port, falling back to the tool
// configuration.
func configuredPort(root string) int {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(project.ConfigFile))) // #nosec G304 - path rooted in project dir
	if err == nil {
		if port := gjson.GetBytes(data, "port").Int(); port > 0 {
			return int(port)
		}
	}
	return config.GetInt("port")
}

// pickPort returns the first free port at or above want.
func pickPort(want int) (int, error) {
	for port := want; port < want+50; port++ {
		ln, err := net.Listen("tcp", net.JoinHostPort("localhost", strconv.Itoa(port)))
		if err != nil {
			continue
		}
		_ = ln.Close()
		if port != want {
			color.Yellow("⚠ Port %d is in use, using %d", want, port)
		}
		return port, nil
	}
	return 0, fmt.Errorf("no free port found between %d and %d", want, want+49)
}

// serveLoop runs the dev server, restarting it whenever app/config.json is
// rewritten. Returns when the user interrupts or the child cannot be
// restarted.
func serveLoop(root string, port int, logw io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting config watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors replace files, which drops a watch on the
	// file itself.
	configPath := filepath.Join(root, filepath.FromSlash(project.ConfigFile))
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(configPath), err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	for {
		child, done, err := startDevServer(root, port, logw)
		if err != nil {
			return err
		}

		restart := false
	wait:
		for {
			select {
			case event := <-watcher.Events:
				if event.Name == configPath && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					color.Yellow("⚠ %s changed, restarting", project.ConfigFile)
					restart = true
					_ = child.Process.Kill()
					<-done
					break wait
				}
			case err := <-watcher.Errors:
				fmt.Fprintf(os.Stderr, "Warning: config watcher: %v\n", err)
			case <-interrupt:
				_ = child.Process.Kill()
				<-done
				return nil
			case err := <-done:
				if err != nil {
					return fmt.Errorf("dev server exited: %w", err)
				}
				return nil
			}
		}
		if !restart {
			return nil
		}
	}
}

func startDevServer(root string, port int, logw io.Writer) (*exec.Cmd, chan error, error) {
	cmd := exec.Command("npm", "run", "dev")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "PORT="+strconv.Itoa(port))
	out := io.MultiWriter(os.Stdout, logw)
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("starting dev server: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	return cmd, done, nil
}

func init() {
	serveCmd.Flags().Int("port", 0, "Port to serve on (default: project config)")
	rootCmd.AddCommand(serveCmd)
}
