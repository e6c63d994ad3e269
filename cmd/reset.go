package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/orcamath/internal/app"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset a profile's progress (mastery, stats and lesson log)",
	RunE: func(cmd *cobra.Command, args []string) error {
		profileID, err := profileIDFlag(cmd)
		if err != nil {
			return err
		}
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			if err := svc.Reset(ctx, profileID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Progress reset for %s\n", profileID)
			return nil
		})
	},
}

func init() {
	resetCmd.Flags().String("profile", "", "Profile ID (required)")
	_ = resetCmd.MarkFlagRequired("profile")
}
