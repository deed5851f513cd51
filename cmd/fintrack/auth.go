package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lachiem1/fintrack/internal/model"
	"github.com/spf13/cobra"
)

var (
	flagEmail string
	flagName  string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token in the system keyring",
	RunE: func(cmd *cobra.Command, _ []string) error {
		email, err := valueOrPrompt(flagEmail, "Email: ")
		if err != nil {
			return err
		}
		password, err := readSecret("Password: ")
		if err != nil {
			return err
		}
		if password == "" {
			return errors.New("empty password")
		}

		return withApp(cmd.Context(), os.Stderr, false, func(a *app) error {
			user, err := a.session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Signed in as %s <%s>.\n", displayName(user), user.Email)
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), os.Stderr, false, func(a *app) error {
			if err := a.signOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		})
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account, then sign in with it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, err := valueOrPrompt(flagName, "Name: ")
		if err != nil {
			return err
		}
		email, err := valueOrPrompt(flagEmail, "Email: ")
		if err != nil {
			return err
		}
		password, err := readSecret("Password: ")
		if err != nil {
			return err
		}
		confirm, err := readSecret("Repeat password: ")
		if err != nil {
			return err
		}
		if password == "" {
			return errors.New("empty password")
		}
		if password != confirm {
			return errors.New("passwords do not match")
		}

		return withApp(cmd.Context(), os.Stderr, false, func(a *app) error {
			reg := model.Registration{Name: name, Email: email, Password: password}
			if err := a.api.Register(cmd.Context(), reg); err != nil {
				return fmt.Errorf("register: %w", err)
			}
			user, err := a.session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Account created. Signed in as %s <%s>.\n", displayName(user), user.Email)
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), os.Stderr, false, func(a *app) error {
			a.detachStore()
			if err := a.session.Init(cmd.Context()); err != nil {
				return err
			}
			user, ok := a.session.User()
			if !ok {
				return errSignedOut
			}
			fmt.Printf("%s <%s>\n", displayName(user), user.Email)
			return nil
		})
	},
}

func displayName(user model.User) string {
	if user.Name != "" {
		return user.Name
	}
	return user.Email
}

func init() {
	loginCmd.Flags().StringVar(&flagEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&flagEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&flagName, "name", "", "Display name")

	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd, whoamiCmd)
}
