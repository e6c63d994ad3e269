package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/orcamath/internal/app"
	"github.com/abhisek/orcamath/internal/problemgen"
	"github.com/abhisek/orcamath/internal/session"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Play or record lessons",
}

var lessonPlayCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a lesson on the next skill in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		profileID, err := profileIDFlag(cmd)
		if err != nil {
			return err
		}
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			l, err := svc.SelectProfile(ctx, profileID)
			if err != nil {
				return err
			}
			state, err := svc.StartLesson(l)
			if err != nil {
				return err
			}
			if err := playLesson(cmd.InOrStdin(), cmd.OutOrStdout(), state); err != nil {
				return err
			}
			out, err := svc.FinishLesson(ctx, l, state)
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), out, l.Stats.Streak)
			return nil
		})
	},
}

var lessonRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record the score of a lesson played elsewhere on the next skill",
	RunE: func(cmd *cobra.Command, args []string) error {
		profileID, err := profileIDFlag(cmd)
		if err != nil {
			return err
		}
		score, _ := cmd.Flags().GetInt("score")
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			l, err := svc.SelectProfile(ctx, profileID)
			if err != nil {
				return err
			}
			out, err := svc.RecordScore(ctx, l, score)
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), out, l.Stats.Streak)
			return nil
		})
	},
}

func init() {
	lessonPlayCmd.Flags().String("profile", "", "Profile ID (required)")
	_ = lessonPlayCmd.MarkFlagRequired("profile")

	lessonRecordCmd.Flags().String("profile", "", "Profile ID (required)")
	lessonRecordCmd.Flags().Int("score", 0, "Correct answers out of 10")
	_ = lessonRecordCmd.MarkFlagRequired("profile")
	_ = lessonRecordCmd.MarkFlagRequired("score")

	lessonCmd.AddCommand(lessonPlayCmd)
	lessonCmd.AddCommand(lessonRecordCmd)
}

// playLesson serves every slot of state, reading one answer line per
// exercise from in.
func playLesson(in io.Reader, out io.Writer, state *session.SessionState) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintf(out, "%s %s\n\n", state.Skill.Icon, state.Skill.Name)

	for !state.Done() {
		fmt.Fprintf(out, "── %d/%d ──\n", state.CurrentIndex+1, session.LessonLength)
		fmt.Fprintln(out, problemgen.Match[string](state.CurrentExercise, prompter{}))
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read answer: %w", err)
			}
			return fmt.Errorf("input closed before the lesson ended")
		}

		sub := parseSubmission(state.CurrentExercise, scanner.Text())
		verdict, err := session.HandleAnswer(state, sub)
		if err != nil {
			return err
		}
		if verdict.Correct {
			fmt.Fprintln(out, "✓ Correct!")
		} else {
			fmt.Fprintf(out, "✗ Not quite. Answer: %s\n", verdict.AnswerText)
		}
		fmt.Fprintln(out)

		if _, err := session.AdvanceSlot(state); err != nil {
			return err
		}
	}
	return nil
}

// prompter renders an exercise with its answer instructions.
type prompter struct{}

func (prompter) DirectChoice(ex *problemgen.DirectChoice) string {
	choices := make([]string, len(ex.Choices))
	for i, c := range ex.Choices {
		choices[i] = strconv.Itoa(c)
	}
	return fmt.Sprintf("%s\nChoices: %s", ex.Question, strings.Join(choices, "  "))
}

func (prompter) Comparison(ex *problemgen.Comparison) string {
	return fmt.Sprintf("Which is bigger?\n  A) %s\n  B) %s", ex.ExpressionA, ex.ExpressionB)
}

func (prompter) MultiSelect(ex *problemgen.MultiSelect) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pop every bubble equal to %d (list the numbers):", ex.TargetValue)
	for i, bubble := range ex.Bubbles {
		fmt.Fprintf(&b, "\n  %d) %s", i+1, bubble)
	}
	return b.String()
}

func (prompter) TileOrder(ex *problemgen.TileOrder) string {
	return fmt.Sprintf("Build a true equation from: %s", strings.Join(ex.Tiles, "  "))
}

func (prompter) SequenceOrder(ex *problemgen.SequenceOrder) string {
	var b strings.Builder
	b.WriteString("Order smallest to biggest (list the numbers):")
	for i, item := range ex.Items {
		fmt.Fprintf(&b, "\n  %d) %s", i+1, item)
	}
	return b.String()
}

// parseSubmission turns an answer line into a submission for ex. Input that
// does not parse yields a submission that grades incorrect.
func parseSubmission(ex problemgen.Exercise, line string) problemgen.Submission {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	switch ex.Format() {
	case problemgen.FormatComparison:
		return problemgen.SideSubmission{Side: problemgen.Side(strings.ToUpper(strings.TrimSpace(line)))}
	case problemgen.FormatMultiSelect:
		return problemgen.IndicesSubmission{Indices: oneBased(fields)}
	case problemgen.FormatTileOrder:
		return problemgen.TilesSubmission{Tiles: fields}
	case problemgen.FormatSequenceOrder:
		return problemgen.OrderSubmission{Order: oneBased(fields)}
	default:
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			n = -1
		}
		return problemgen.ChoiceSubmission{Value: n}
	}
}

// oneBased converts 1-based numbers to indices; unparsable entries become -1.
func oneBased(fields []string) []int {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			n = 0
		}
		out[i] = n - 1
	}
	return out
}

func printOutcome(out io.Writer, o *app.Outcome, streak int) {
	fmt.Fprintf(out, "Score: %d/%d  %s\n", o.Summary.Score, o.Summary.Total, strings.Repeat("★", o.Summary.Stars))
	fmt.Fprintf(out, "Skill: %s  level %s (best %d, %d attempts)\n",
		o.Mastery.SkillID, o.Mastery.Level, o.Mastery.BestScore, o.Mastery.Attempts)
	if t := o.Transition; t != nil {
		fmt.Fprintf(out, "%s: %s → %s\n", t.SkillName, t.From, t.To)
		if t.Unlocked() {
			fmt.Fprintln(out, "New skills unlocked!")
		}
	}
	fmt.Fprintf(out, "Streak: %d day(s)\n", streak)
}
