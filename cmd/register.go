// ABOUTME: Register command creating a new backend account
// ABOUTME: Registration does not authenticate; a separate login follows

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/paperai/polish-cli/internal/auth"
	"github.com/paperai/polish-cli/internal/client"
)

var (
	registerUsername string
	registerEmail    string
	registerPassword string
	registerNickname string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Create an account on the paper-polish backend.

Registration does not log you in; run 'paper-polish login' afterwards.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRegister(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Username (3-50 characters, letters/digits/underscore)")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Email address")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "Password (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerNickname, "nickname", "", "Display name (optional)")
}

func promptRegistration() error {
	var fields []huh.Field
	if registerUsername == "" {
		fields = append(fields, huh.NewInput().Title("Username").Value(&registerUsername))
	}
	if registerEmail == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&registerEmail))
	}
	if registerPassword == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&registerPassword))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeBase()).Run()
}

// runRegister executes the registration and returns exit code
func runRegister(ctx context.Context, w io.Writer) int {
	if err := promptRegistration(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	api, store := newGateway()
	coord := auth.New(api, store)

	_, err := coord.Register(ctx, &client.RegisterInput{
		Username:        registerUsername,
		Email:           registerEmail,
		Password:        registerPassword,
		ConfirmPassword: registerPassword,
		Nickname:        registerNickname,
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Account %s created. Log in with 'paper-polish login'.\n", registerUsername)
	return 0
}
