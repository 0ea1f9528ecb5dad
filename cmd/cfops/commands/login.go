package commands

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/rvazquezglez/clouddriver/pkg/cf"
	"github.com/rvazquezglez/clouddriver/pkg/cfclient"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		apiHost  string
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a platform API",
		Long:  "Authenticate against the platform's login endpoint and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), apiHost, username, password)
		},
	}

	cmd.Flags().StringVarP(&apiHost, "api", "a", "", "API host, e.g. api.sys.example.com")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")

	return cmd
}

func runLogin(ctx context.Context, apiHost, username, password string) error {
	if apiHost == "" {
		apiHost = viper.GetString("api")
	}

	if apiHost == "" {
		return cf.ErrAPIHostRequired
	}

	if username == "" {
		return ErrUsernameRequired
	}

	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")

		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}

		password = string(bytePassword)

		fmt.Fprintln(os.Stderr)
	}

	skipTLS := viper.GetBool("skip-tls-validation")

	client, err := cfclient.New(ctx, &cf.Config{
		Account:           viper.GetString("account"),
		APIHost:           apiHost,
		User:              username,
		Secret:            password,
		SkipTLSValidation: skipTLS,
	})
	if err != nil {
		return err
	}

	// Exercise the credentials before persisting them.
	if _, err := client.Organizations().List(ctx, cf.NewQueryParams().WithPerPage(1)); err != nil {
		return fmt.Errorf("verifying credentials: %w", err)
	}

	config := loadConfig()
	config.API = apiHost
	config.User = username
	config.Secret = password
	config.SkipTLSValidation = skipTLS

	if account := viper.GetString("account"); account != "" {
		config.Account = account
	}

	if err := saveConfig(config); err != nil {
		return err
	}

	fmt.Printf("Logged in to %s as %s\n", apiHost, username)

	return nil
}
