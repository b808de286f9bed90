// ABOUTME: Logout command revoking the refresh token and clearing local session state
// ABOUTME: Always clears local credentials even when the server call fails

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
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear stored credentials",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogout(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(ctx context.Context, w io.Writer) int {
	api, store := newGateway()
	coord := auth.New(api, store)
	coord.Logout(ctx)
	fmt.Fprintln(w, "Logged out.")
	return 0
}
