package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jaminalder/tic-tac-based/internal/config"
	"github.com/jaminalder/tic-tac-based/internal/logger"
	"github.com/jaminalder/tic-tac-based/internal/tui"
)

func main() {
	path := flag.String("config", "./config.yml", "path to the config file")
	logPath := flag.String("log", "", "write logs to this file")
	flag.Parse()

	cfg := config.MustLoad(*path)

	// The terminal belongs to the UI, so logs go to a file or nowhere.
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *logPath != "" {
		f, err := tea.LogToFile(*logPath, "tui")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		log = logger.New(f, cfg.LogLevel, cfg.LogFormat)
	}

	m := tui.New(
		tui.WithLogger(log),
		tui.WithOverlayDelay(cfg.Session.OverlayDelay),
	)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
