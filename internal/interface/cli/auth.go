package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/examdesk/examdesk-core/config"
	"github.com/examdesk/examdesk-core/internal/application/directory"
)

var (
	loginEmail       string
	loginPassword    string
	googleCredential string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the scheduling service",
	Long: `Authenticates and persists the session locally.

Two methods are supported:
1. Password login (default): --email and --password.
2. Google login: pass the ID credential with --google-credential
   (or @path to read it from a file).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		if googleCredential != "" {
			if !app.cfg.Features.IsEnabled(config.FeatureAuthGoogle) {
				return errors.New("google login is disabled in this deployment")
			}
			cred, err := readCredential(googleCredential)
			if err != nil {
				return err
			}
			if !app.sessions.GoogleLogin(cmd.Context(), cred) {
				return errors.New("google login failed")
			}
		} else {
			if loginEmail == "" || loginPassword == "" {
				return errors.New("--email and --password are required for password login")
			}
			if !app.sessions.LoginWithPassword(cmd.Context(), loginEmail, loginPassword) {
				return errors.New("login failed: check your credentials")
			}
		}

		user := app.sessions.Current().User
		pterm.Success.Printf("Logged in as %s (%s)\n", user.FullName(), user.Type)
		return nil
	},
}

// readCredential accepts the raw credential or @path syntax.
func readCredential(arg string) (string, error) {
	if !strings.HasPrefix(arg, "@") {
		return arg, nil
	}
	data, err := os.ReadFile(strings.TrimPrefix(arg, "@"))
	if err != nil {
		return "", fmt.Errorf("read credential file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		app.sessions.Logout(cmd.Context())
		pterm.Success.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		if !app.sessions.IsAuthenticated(cmd.Context()) {
			pterm.Info.Println("Not logged in.")
			return nil
		}

		user := app.sessions.Current().User
		pterm.DefaultSection.Println("Session")
		pterm.Info.Printf("Name:  %s\n", user.FullName())
		pterm.Info.Printf("Email: %s\n", user.Email)
		pterm.Info.Printf("Type:  %s\n", user.Type)
		pterm.Info.Printf("Role:  %s\n", user.RawRole)
		return nil
	},
}

var (
	registerFirstName string
	registerLastName  string
	registerEmail     string
	registerPassword  string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		if !app.cfg.Features.IsEnabled(config.FeatureAuthRegister) {
			return errors.New("self-service registration is disabled in this deployment")
		}

		created, err := app.directory.Register(cmd.Context(), directory.RegisterInput{
			FirstName: registerFirstName,
			LastName:  registerLastName,
			Email:     registerEmail,
			Password:  registerPassword,
		})
		if err != nil {
			return err
		}

		pterm.Success.Printf("Account created for %s. You can log in now.\n", created.Email)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	loginCmd.Flags().StringVar(&googleCredential, "google-credential", "", "Google ID credential (or @path)")

	registerCmd.Flags().StringVar(&registerFirstName, "first-name", "", "first name")
	registerCmd.Flags().StringVar(&registerLastName, "last-name", "", "last name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "account password")
}
