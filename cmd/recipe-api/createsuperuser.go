package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	superuserEmail    string
	superuserPassword string
)

var createSuperuserCmd = &cobra.Command{
	Use:     "createsuperuser",
	Short:   "Create an account with staff and superuser rights",
	Example: `  recipe-api createsuperuser --email admin@example.com --password s3cret`,
	RunE:    runCreateSuperuser,
}

func init() {
	createSuperuserCmd.Flags().StringVar(&superuserEmail, "email", "", "email address of the new superuser (required)")
	createSuperuserCmd.Flags().StringVar(&superuserPassword, "password", "", "password of the new superuser (required)")
	_ = createSuperuserCmd.MarkFlagRequired("email")
	_ = createSuperuserCmd.MarkFlagRequired("password")
}

func runCreateSuperuser(cmd *cobra.Command, _ []string) error {
	if superuserPassword == "" {
		return errors.New("--password must not be empty")
	}

	ctx := cmd.Context()
	client, db, err := connectMongo(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(ctx) }()

	// Superusers are created offline, so no login throttle is needed.
	user, err := newUserService(cfg, db, nil).CreateSuperuser(ctx, superuserEmail, superuserPassword)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Superuser %s created (id %s)\n", user.Email, user.ID)
	return nil
}
