package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/studybuddy/studybuddy/internal/api"
	"github.com/studybuddy/studybuddy/internal/config"
	"github.com/studybuddy/studybuddy/internal/session"
	"github.com/studybuddy/studybuddy/internal/store"
	"github.com/studybuddy/studybuddy/internal/tracker"
)

var rootCmd = &cobra.Command{
	Use:   "studybuddy",
	Short: "Study Buddy - personal task scheduler CLI",
	Long:  `Study Buddy is a client for the Study Buddy task service: register an account, log in, and manage your scheduled study tasks from the terminal.`,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	apiAddr   string
	configDir string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api", "", "Task service address (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "Config directory (default ~/.config/studybuddy)")

	// Add subcommands
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(tuiCmd)
}

// app wires the client components together for one command invocation.
type app struct {
	cfg        *config.Config
	creds      *store.Store
	sessions   *session.Manager
	controller *tracker.Controller
}

func newApp() (*app, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, err
	}
	if apiAddr != "" {
		cfg.APIURL = apiAddr
	}
	if err := cfg.EnsureDir(); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	creds, err := store.New(cfg.CredentialsPath())
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.APIURL)
	client.SetTimeout(cfg.Timeout)

	sessions, err := session.NewManager(client, creds)
	if err != nil {
		creds.Close()
		return nil, err
	}

	return &app{
		cfg:        cfg,
		creds:      creds,
		sessions:   sessions,
		controller: tracker.NewController(sessions, client),
	}, nil
}

func (a *app) Close() error {
	return a.creds.Close()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
