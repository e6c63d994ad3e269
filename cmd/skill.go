package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/orcamath/internal/app"
	"github.com/abhisek/orcamath/internal/skillgraph"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Browse the skill graph",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all skills (optionally filtered by section)",
	RunE: func(cmd *cobra.Command, args []string) error {
		section, _ := cmd.Flags().GetString("section")
		profileID, err := profileIDFlag(cmd)
		if err != nil {
			return err
		}

		graph, err := loadGraph()
		if err != nil {
			return err
		}

		var sections []skillgraph.Section
		for _, sec := range graph.Sections() {
			if section == "" || strings.EqualFold(sec.Name, section) {
				sections = append(sections, sec)
			}
		}
		if len(sections) == 0 {
			return fmt.Errorf("no section named %q", section)
		}

		if profileID == "" {
			printSkills(cmd, sections, nil)
			return nil
		}
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			l, err := svc.SelectProfile(ctx, profileID)
			if err != nil {
				return err
			}
			printSkills(cmd, sections, l.Mastery.Status)
			return nil
		})
	},
}

func printSkills(cmd *cobra.Command, sections []skillgraph.Section, status func(string) skillgraph.Status) {
	out := cmd.OutOrStdout()
	n := 0
	for _, sec := range sections {
		fmt.Fprintf(out, "%s\n", sec.Name)
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, s := range sec.Skills {
			line := fmt.Sprintf("  %-24s  %-30s  %-14s", s.ID, s.Name, s.Config.Type)
			if status != nil {
				st := status(s.ID)
				line += fmt.Sprintf("  %s %s", st.Icon(), st.Label())
			}
			fmt.Fprintln(out, strings.TrimRight(line, " "))
			n++
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "%d skills\n", n)
}

var skillShowCmd = &cobra.Command{
	Use:   "show <skill-id>",
	Short: "Show one skill's generation recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		graph, err := loadGraph()
		if err != nil {
			return err
		}
		s, err := graph.Skill(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:           %s\n", s.ID)
		fmt.Fprintf(out, "Name:         %s %s\n", s.Icon, s.Name)
		if sec, ok := graph.SectionOf(s.ID); ok {
			fmt.Fprintf(out, "Section:      %s\n", sec.Name)
		}
		prereq := "(none)"
		if s.Prerequisite != "" {
			prereq = s.Prerequisite
		}
		fmt.Fprintf(out, "Prerequisite: %s\n", prereq)
		fmt.Fprintf(out, "Operation:    %s\n", s.Config.Type)
		fmt.Fprintf(out, "Operand 1:    %d..%d\n", s.Config.Operand1Range.Min, s.Config.Operand1Range.Max)
		fmt.Fprintf(out, "Operand 2:    %d..%d\n", s.Config.Operand2Range.Min, s.Config.Operand2Range.Max)
		if v, ok := s.Config.SumMax(); ok {
			fmt.Fprintf(out, "Sum max:      %d\n", v)
		}
		if v, ok := s.Config.FixedOperand(); ok {
			fmt.Fprintf(out, "Fixed:        %d\n", v)
		}
		if s.Config.Doubles() {
			fmt.Fprintln(out, "Doubles:      yes")
		}
		if deps := graph.Dependents(s.ID); len(deps) > 0 {
			ids := make([]string, len(deps))
			for i, d := range deps {
				ids[i] = d.ID
			}
			fmt.Fprintf(out, "Unlocks:      %s\n", strings.Join(ids, ", "))
		}
		return nil
	},
}

func init() {
	skillListCmd.Flags().String("section", "", "Only list skills of this section")
	skillListCmd.Flags().String("profile", "", "Show each skill's status for this profile")

	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillShowCmd)
}
