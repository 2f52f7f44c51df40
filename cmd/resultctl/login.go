package main

import (
	"fmt"

	"results-portal/client"

	"github.com/spf13/cobra"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in as the results administrator",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored admin session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, session, err := openClient()
		if err != nil {
			return err
		}
		if err := session.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Admin username (prompted when empty)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	api, session, err := openClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	username := loginUsername
	if username == "" {
		if username, err = prompt(out, "Username"); err != nil {
			return err
		}
	}
	password, err := promptSecret(out, "Password")
	if err != nil {
		return err
	}

	flow, err := client.NewLoginFlow(api, session, nil)
	if err != nil {
		return err
	}
	answer, err := askCaptcha(out, flow.Challenge, flow.Refresh)
	if err != nil {
		return err
	}
	if err := flow.Submit(cmd.Context(), username, password, answer); err != nil {
		return err
	}
	fmt.Fprintln(out, "Login successful!")
	return nil
}
