package main

import (
	"context"
	"fmt"

	"catering_store/internal/server"
	"catering_store/internal/service"
	"catering_store/internal/utils"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the Postgres tables or Mongo indexes and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		return server.Migrate(commandContext(cmd), cfg, log)
	},
}

var promoteEmail string

var promoteAdminCmd = &cobra.Command{
	Use:   "promote-admin",
	Short: "Grant the admin role to an existing account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)

		store, err := server.OpenStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer store.Close()

		auth := service.NewAuthService(store.Users, utils.NewJWTUtil(cfg.JWTSecret, cfg.TokenTTL()), log)
		user, err := auth.PromoteToAdmin(ctx, promoteEmail)
		if err != nil {
			return fmt.Errorf("promote %s: %w", promoteEmail, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now an admin\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	promoteAdminCmd.Flags().StringVar(&promoteEmail, "email", "", "email of the account to promote")
	_ = promoteAdminCmd.MarkFlagRequired("email")
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
