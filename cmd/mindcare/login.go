// Login and logout commands managing the saved session token.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ThePerryDev/MindCare-sub000/internal/client"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and save the session token",
	Long: `Login exchanges the given credentials for a session token and saves
it in the CLI config file. The password is read from the terminal.

Example:
  mindcare login --username maria`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "account username (required)")
	_ = loginCmd.MarkFlagRequired("username")
}

func runLogin(cmd *cobra.Command, args []string) error {
	apiClient, cfg, err := newAPIClient()
	if err != nil {
		return err
	}

	fmt.Print("password: ")
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	token, err := apiClient.Login(cmd.Context(), loginUsername, string(passwordBytes))
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("login failed: %s", apiErr.Message)
		}
		return fmt.Errorf("login failed: %w", err)
	}

	if err := saveToken(cfg, token); err != nil {
		return err
	}

	fmt.Println("logged in")
	return nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the saved session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		apiClient, cfg, err := newAPIClient()
		if err != nil {
			return err
		}

		if err := apiClient.Logout(cmd.Context()); err != nil &&
			!errors.Is(err, client.ErrNotAuthenticated) {
			return fmt.Errorf("logout failed: %w", err)
		}

		if err := saveToken(cfg, ""); err != nil {
			return err
		}

		fmt.Println("logged out")
		return nil
	},
}
