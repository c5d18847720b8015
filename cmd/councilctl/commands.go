package main

import (
	"fmt"
	"strconv"

	"github.com/arnavshah/council-api-go/pkg/auth"
	"github.com/arnavshah/council-api-go/pkg/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func cleanupOrphansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-orphans",
		Short: "Delete duties whose event, student or assigner no longer exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := actingAdmin()
			if err != nil {
				return err
			}

			removed, err := app.svc.CleanupOrphans(app.ctx, admin)
			if err != nil {
				return fmt.Errorf("failed to cleanup orphaned duties: %w", err)
			}

			fmt.Printf("Removed %d orphaned duties\n", removed)
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print participation statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := actingAdmin()
			if err != nil {
				return err
			}

			stats, err := app.svc.Stats(app.ctx, admin)
			if err != nil {
				return fmt.Errorf("failed to fetch participation statistics: %w", err)
			}

			fmt.Printf("\nParticipation records: %d\n\n", stats.TotalParticipation)
			for _, status := range models.ParticipationStatuses {
				fmt.Printf("  %-10s %d\n", status, stats.StatusBreakdown[status])
			}
			fmt.Printf("\nCompletion rate: %.2f%%\n", stats.CompletionRate)
			return nil
		},
	}
}

func seedAdminCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the first admin if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = app.cfg.AdminName
			}
			if email == "" {
				email = app.cfg.AdminEmail
			}
			if password == "" {
				password = app.cfg.AdminPassword
			}

			created, err := auth.EnsureAdminExists(app.db.WithContext(app.ctx), name, email, password)
			if err != nil {
				return err
			}
			if !created {
				fmt.Println("An admin already exists; nothing to do")
				return nil
			}

			app.logger.Info("Admin seeded", zap.String("email", email))
			fmt.Printf("Created admin %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Admin display name (defaults to config)")
	cmd.Flags().StringVar(&email, "email", "", "Admin email (defaults to config)")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (defaults to config)")
	return cmd
}

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a bearer token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}

			user, err := app.svc.GetUser(app.ctx, uint(id))
			if err != nil {
				return err
			}

			token, err := app.tokens.CreateToken(user)
			if err != nil {
				return fmt.Errorf("failed to create token: %w", err)
			}

			fmt.Printf("Token for %s (%s):\n%s\n", user.Email, user.Role, token)
			return nil
		},
	}
}
