package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ybazarbay/bizhub/internal/app"
	"github.com/ybazarbay/bizhub/internal/model"
	"github.com/ybazarbay/bizhub/internal/store"
)

// New builds the root command that launches the terminal client.
func New() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:          "bizhub",
		Short:        "Terminal client for the bizhub community platform",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			return setupLogging(verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configFile)
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ~/.config/bizhub/config.yaml)")

	cmd.AddCommand(NewVersionCommand())
	return cmd
}

// setupLogging sends logrus output to a file in the data directory.
// The TUI owns stdout, so nothing may log there.
func setupLogging(verbose bool) error {
	dir := model.DefaultDataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory %s: %w", dir, err)
	}

	logPath := filepath.Join(dir, "bizhub.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", logPath, err)
	}

	logrus.SetOutput(f)
	logrus.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	return nil
}

// run loads configuration, opens the local store, and starts the UI.
func run(configFile string) error {
	if configFile == "" {
		configFile = model.DefaultConfigPath()
	}

	cfg, err := model.LoadConfig(configFile)
	if err != nil {
		return err
	}

	dbPath := filepath.Join(model.DefaultDataDir(), "bizhub.db")
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening local store: %w", err)
	}
	defer st.Close()

	logrus.WithFields(logrus.Fields{
		"config": configFile,
		"db":     dbPath,
	}).Info("starting bizhub")

	p := tea.NewProgram(app.New(cfg, configFile, st), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}
