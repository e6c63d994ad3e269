package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/orcamath/internal/app"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage learner profiles",
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a learner profile",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			p, err := svc.CreateProfile(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created profile %s (%s)\n", p.Name, p.ID)
			return nil
		})
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learner profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			profiles, err := svc.ListProfiles(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(profiles) == 0 {
				fmt.Fprintln(out, "No profiles yet. Create one with: orcamath profile create <name>")
				return nil
			}
			fmt.Fprintf(out, "%-36s  %-24s  %s\n", "ID", "Name", "Created")
			fmt.Fprintln(out, strings.Repeat("─", 80))
			for _, p := range profiles {
				fmt.Fprintf(out, "%-36s  %-24s  %s\n", p.ID, p.Name, p.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		})
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <profile-id>",
	Short: "Delete a profile and all of its progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			if err := svc.DeleteProfile(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %s\n", args[0])
			return nil
		})
	},
}

func init() {
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileDeleteCmd)
}
