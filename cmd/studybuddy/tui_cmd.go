package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/studybuddy/studybuddy/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive task view",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.sessions.IsAuthenticated() {
		return fmt.Errorf("not logged in; run 'studybuddy login' first")
	}

	view := tui.New(a.controller)
	if err := view.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
