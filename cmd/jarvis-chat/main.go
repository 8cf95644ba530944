package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/comigor/jarvis-chat/internal/config"
	"github.com/comigor/jarvis-chat/internal/logger"
	"github.com/comigor/jarvis-chat/internal/store"
	"github.com/comigor/jarvis-chat/internal/transport"
	"github.com/comigor/jarvis-chat/internal/tui"
)

var (
	configPath string
	serverURL  string
	logLevel   string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "jarvis-chat",
	Short: "Terminal client for the Jarvis chat backend",
	Long: `jarvis-chat is a terminal chat client. It sends each question to the
backend, types the answer out in the transcript and keeps a sidebar of past
questions grouped by day.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to config.yaml (also CONFIG_PATH)")
	rootCmd.Flags().StringVar(&serverURL, "server", "", "backend base URL")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "file to write logs to")
}

func run(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		os.Setenv("CONFIG_PATH", configPath)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if serverURL != "" {
		cfg.Server.BaseURL = serverURL
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}

	// The UI owns the terminal, so logs go to a file
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	logger.SetOutput(f)
	logger.SetLevel(cfg.Log.Level)

	prefs := store.Open(cfg.Store.Path)
	defer func() {
		if err := prefs.Close(); err != nil {
			logger.L.Warn("closing preference store", "error", err)
		}
	}()

	logger.L.Info("starting client", slog.String("server", cfg.Server.BaseURL))
	model := tui.New(context.Background(), tui.Options{
		Backend:      transport.NewClient(cfg.Server.BaseURL, nil),
		Prefs:        prefs,
		TypingSpeed:  cfg.UI.TypingSpeed,
		SidebarWidth: cfg.UI.SidebarWidth,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		logger.L.Error("program exited", "error", err)
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
