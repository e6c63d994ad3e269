package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/orcamath/internal/app"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics for a profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		profileID, err := profileIDFlag(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("sessions")

		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			r, err := svc.Report(ctx, profileID, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%s\n\n", r.Profile.Name)
			fmt.Fprintf(out, "Streak:            %d day(s)\n", r.Streak)
			fmt.Fprintf(out, "Exercises done:    %d\n", r.TotalCompleted)
			if r.LastPlayedAt != nil {
				fmt.Fprintf(out, "Last played:       %s\n", r.LastPlayedAt.Local().Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(out, "Skills mastered:   %d/%d\n", r.MasteredCount, len(r.Skills))
			if r.PlayableSkill != "" {
				fmt.Fprintf(out, "Next skill:        %s\n", r.PlayableSkill)
			}

			fmt.Fprintln(out, "\nSkills")
			fmt.Fprintln(out, strings.Repeat("─", 72))
			for _, s := range r.Skills {
				fmt.Fprintf(out, "  %s %-24s  %-10s  best %2d  attempts %d\n",
					s.Status.Icon(), s.Skill.ID, s.Status.Label(), s.Mastery.BestScore, s.Mastery.Attempts)
			}

			if len(r.RecentSessions) > 0 {
				fmt.Fprintln(out, "\nRecent lessons")
				fmt.Fprintln(out, strings.Repeat("─", 72))
				for _, s := range r.RecentSessions {
					fmt.Fprintf(out, "  %s  %-24s  %2d/%d  %-3s  → %s\n",
						s.FinishedAt.Local().Format("2006-01-02 15:04"), s.SkillID,
						s.Score, s.Total, strings.Repeat("★", s.Stars), s.LevelAfter)
				}
			}

			if len(r.RecentMissed) > 0 {
				fmt.Fprintln(out, "\nRecently missed")
				fmt.Fprintln(out, strings.Repeat("─", 72))
				for _, m := range r.RecentMissed {
					fmt.Fprintf(out, "  %-40s  answer: %s\n", m.Question, m.AnswerText)
				}
			}
			return nil
		})
	},
}

func init() {
	statsCmd.Flags().String("profile", "", "Profile ID (required)")
	statsCmd.Flags().Int("sessions", 10, "Recent lessons to show (0 for all)")
	_ = statsCmd.MarkFlagRequired("profile")
}
