package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/orcamath/internal/problemgen"
	"github.com/abhisek/orcamath/internal/session"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print generated exercises for a skill as JSON (no database)",
	Long: `Plan lessons for a skill and print every materialized exercise as JSON.

This is a stateless developer tool: no profile, no mastery tracking. The
seed is printed so a preview can be reproduced.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("skill", "", "Skill ID (required)")
	previewCmd.Flags().Uint64("seed", 0, "Random seed (default: config seed, else time-based)")
	previewCmd.Flags().Int("count", session.LessonLength, "Number of exercises to generate")
	_ = previewCmd.MarkFlagRequired("skill")
}

type previewSlot struct {
	Slot     int                 `json:"slot"`
	Kind     session.SlotKind    `json:"kind"`
	Format   problemgen.Format   `json:"format"`
	Exercise problemgen.Exercise `json:"exercise"`
}

type previewOutput struct {
	Skill     string        `json:"skill"`
	Seed      uint64        `json:"seed"`
	Exercises []previewSlot `json:"exercises"`
}

func runPreview(cmd *cobra.Command, args []string) error {
	skillID, _ := cmd.Flags().GetString("skill")
	seed, _ := cmd.Flags().GetUint64("seed")
	count, _ := cmd.Flags().GetInt("count")
	if count <= 0 {
		return fmt.Errorf("--count must be positive, got %d", count)
	}

	graph, err := loadGraph()
	if err != nil {
		return err
	}
	skill, err := graph.Skill(skillID)
	if err != nil {
		return err
	}

	if seed == 0 {
		seed = cfg.Practice.Seed
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	planner := session.NewPlanner(problemgen.New(problemgen.NewRand(seed)))

	out := previewOutput{Skill: skill.ID, Seed: seed}
	var plan session.Plan
	for i := range count {
		if i%session.LessonLength == 0 {
			plan = planner.BuildPlan()
		}
		kind := plan[i%session.LessonLength]
		ex := planner.GenerateForSlot(kind, skill.Config)
		if err := problemgen.Validate(ex); err != nil {
			return fmt.Errorf("slot %d: %w", i+1, err)
		}
		out.Exercises = append(out.Exercises, previewSlot{
			Slot:     i + 1,
			Kind:     kind,
			Format:   ex.Format(),
			Exercise: ex,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
