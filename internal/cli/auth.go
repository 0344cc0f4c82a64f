package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/existflow/launchdeck/internal/config"
	"github.com/existflow/launchdeck/internal/remote"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long: `Sign in to a hosted launchdeck server. Logging in switches the backend to remote;
use --local on logout to go back to the local database.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the server",
	Long: `Login with username (or email) and password, or passwordless with a magic link.

Examples:
  launchdeck auth login --server https://deck.example.com
  launchdeck auth login --email me@example.com
  launchdeck auth login --token 4be1...`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from the server",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account on the server",
	RunE:  runRegister,
}

var (
	authServer  string
	authEmail   string
	authToken   string
	logoutLocal bool
)

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&authServer, "server", "", "Server URL (saved to config)")
	}
	loginCmd.Flags().StringVar(&authEmail, "email", "", "Login using a magic link for this email")
	loginCmd.Flags().StringVar(&authToken, "token", "", "Verify a magic link token")
	logoutCmd.Flags().BoolVar(&logoutLocal, "local", false, "Switch back to the local database")

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
}

// authClient returns a client for the configured server and the stored session
func authClient() (*remote.Client, *remote.Session, error) {
	if authServer != "" {
		cfg.ServerURL = authServer
	}
	sess, err := remote.LoadSession(cfg.Dir())
	if err != nil {
		return nil, nil, err
	}
	return remote.New(cfg.ServerURL, sess.Token, nil), sess, nil
}

// useRemote points the config at the server once a session exists
func useRemote() error {
	cfg.Backend = config.BackendRemote
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func prompt(r *bufio.Reader, w io.Writer, label string) string {
	fmt.Fprint(w, label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

func readPassword(w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	client, sess, err := authClient()
	if err != nil {
		return err
	}
	ctx := context.Background()
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	switch {
	case authToken != "":
		fmt.Fprintln(out, "🔄 Verifying magic link token...")
		if err := client.VerifyMagicLink(ctx, sess, authToken); err != nil {
			return err
		}

	case authEmail != "":
		fmt.Fprintf(out, "🔄 Requesting magic link for %s...\n", authEmail)
		token, err := client.RequestMagicLink(ctx, authEmail)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "📬 Magic link requested!")
		if token != "" {
			fmt.Fprintf(out, "🔑 Token: %s\n", token)
		}
		input := prompt(reader, out, "Enter Magic Link Token: ")
		if input == "" {
			return fmt.Errorf("token required")
		}
		if err := client.VerifyMagicLink(ctx, sess, input); err != nil {
			return err
		}

	default:
		username := prompt(reader, out, "Username or email: ")
		password, err := readPassword(out, "Password: ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "🔄 Logging in...")
		if err := client.Login(ctx, sess, username, password); err != nil {
			return err
		}
	}

	if err := useRemote(); err != nil {
		return err
	}
	fmt.Fprintln(out, "✅ Logged in successfully!")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, sess, err := authClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if sess.Token == "" {
		fmt.Fprintln(out, "Not logged in.")
	} else {
		fmt.Fprintln(out, "🔄 Logging out...")
		if err := client.Logout(context.Background(), sess); err != nil {
			return err
		}
		fmt.Fprintln(out, "✅ Logged out successfully.")
	}

	if logoutLocal {
		cfg.Backend = config.BackendLocal
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintln(out, "Using the local database.")
	}
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	client, sess, err := authClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	username := prompt(reader, out, "Username: ")
	email := prompt(reader, out, "Email: ")
	password, err := readPassword(out, "Password: ")
	if err != nil {
		return err
	}
	confirmed, err := readPassword(out, "Confirm Password: ")
	if err != nil {
		return err
	}
	if password != confirmed {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Fprintln(out, "🔄 Creating account...")
	if err := client.Register(context.Background(), sess, username, email, password); err != nil {
		return err
	}
	if err := useRemote(); err != nil {
		return err
	}
	fmt.Fprintln(out, "✅ Account created and logged in!")
	return nil
}
