// ABOUTME: Whoami command showing the authenticated user's profile
// ABOUTME: Fetches the profile from the backend, falling back to cached identity

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paperai/polish-cli/internal/auth"
	"github.com/paperai/polish-cli/internal/client"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently logged-in user",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(ctx context.Context, w io.Writer) int {
	api, store := newGateway()
	coord := auth.New(api, store)

	if err := coord.RestoreSession(ctx); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if coord.State() != auth.StateAuthenticated {
		fmt.Fprintln(w, "Not logged in. Run 'paper-polish login'.")
		return 1
	}

	user := coord.User()
	if IsJSONOutput() {
		return printJSON(w, user)
	}
	formatProfileHuman(w, user)
	return 0
}

func formatProfileHuman(w io.Writer, user *client.UserProfile) {
	fmt.Fprintf(w, "Username: %s\n", user.Username)
	fmt.Fprintf(w, "Email:    %s", user.Email)
	if user.EmailVerified {
		fmt.Fprint(w, " (verified)")
	}
	fmt.Fprintln(w)
	if user.Nickname != "" {
		fmt.Fprintf(w, "Nickname: %s\n", user.Nickname)
	}
	fmt.Fprintf(w, "Status:   %s\n", user.Status)
	if user.LastLoginAt != nil {
		fmt.Fprintf(w, "Last login: %s\n", user.LastLoginAt.Format("2006-01-02 15:04:05"))
	}
}
