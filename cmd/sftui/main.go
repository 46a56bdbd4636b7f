package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sftui/sftui/pkg/sshconfig"
	"github.com/sftui/sftui/pkg/tui"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "sftui",
		Usage: "dual-pane terminal SFTP client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "connect to this ~/.ssh/config host at startup",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logFile, err := setupLogging()
	if err != nil {
		return err
	}
	defer logFile.Close()

	cfg, err := sshconfig.Load()
	if err != nil {
		return fmt.Errorf("failed to read ssh config: %w", err)
	}

	// An unknown alias still dials: the alias doubles as the hostname,
	// matching ssh's own behavior.
	var autoHost *sshconfig.Host
	if name := c.String("host"); name != "" {
		host, ok := cfg.Lookup(name)
		if !ok {
			host = sshconfig.Host{Alias: name}
		}
		if host.User == "" {
			host.User = os.Getenv("USER")
		}
		autoHost = &host
	}

	model := tui.NewAppModel(cfg.Hosts(), autoHost)
	defer model.Manager().Disconnect()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		slog.Error("Error running program", "error", err)
		return err
	}
	return nil
}

// setupLogging sends log and slog output to ~/.sftui/debug.log; the TUI
// owns the terminal, so nothing may write to stdout or stderr while it
// runs.
func setupLogging() (*os.File, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	dataDir := filepath.Join(homeDir, ".sftui")
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logFile, err := os.OpenFile(
		filepath.Join(dataDir, "debug.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0600,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log.SetOutput(logFile)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, nil)))

	return logFile, nil
}
