package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the task service",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and discard the stored session",
	RunE:  runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a session is active",
	RunE:  runStatus,
}

var (
	authUsername string
	authEmail    string
	authPassword string
)

func init() {
	registerCmd.Flags().StringVar(&authUsername, "username", "", "Account username (required)")
	registerCmd.Flags().StringVar(&authEmail, "email", "", "Account email (required)")
	registerCmd.Flags().StringVar(&authPassword, "password", "", "Account password (required)")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringVar(&authEmail, "email", "", "Account email (required)")
	loginCmd.Flags().StringVar(&authPassword, "password", "", "Account password (required)")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.sessions.Register(cmd.Context(), authUsername, authEmail, authPassword); err != nil {
		return err
	}

	fmt.Println("Registered. Run 'studybuddy login' to start a session.")
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.controller.Login(cmd.Context(), authEmail, authPassword); err != nil {
		return err
	}

	fmt.Printf("Logged in. %d task(s) loaded.\n", len(a.controller.Tasks()))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.sessions.IsAuthenticated() {
		fmt.Println("Not logged in.")
		return nil
	}
	if err := a.controller.Logout(); err != nil {
		return err
	}

	fmt.Println("Logged out.")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.sessions.IsAuthenticated() {
		fmt.Println("Logged in.")
	} else {
		fmt.Println("Not logged in.")
	}
	return nil
}
