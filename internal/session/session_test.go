package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/orcamath/internal/problemgen"
	"github.com/abhisek/orcamath/internal/skillgraph"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func testSkill() skillgraph.Skill {
	sk, err := skillgraph.Default().Skill("add_within_5")
	if err != nil {
		panic(err)
	}
	return sk
}

// fixedPlanner serves a known plan and a known exercise for every slot.
type fixedPlanner struct {
	plan      Plan
	generated []SlotKind
}

func (p *fixedPlanner) BuildPlan() Plan { return p.plan }

func (p *fixedPlanner) GenerateForSlot(kind SlotKind, _ skillgraph.SkillConfig) problemgen.Exercise {
	p.generated = append(p.generated, kind)
	return &problemgen.DirectChoice{Question: "2 + 2", Answer: 4, Choices: []int{2, 3, 4, 5}}
}

func directPlan() Plan {
	var p Plan
	for i := range p {
		p[i] = KindDirectChoice
	}
	return p
}

func testState() (*SessionState, *fixedPlanner) {
	fp := &fixedPlanner{plan: directPlan()}
	return NewSessionState(fp, testSkill(), testNow), fp
}

func TestBuildPlan_Composition(t *testing.T) {
	want := map[SlotKind]int{
		KindDirectChoice:   4,
		KindMissingOperand: 2,
		KindComparison:     1,
		KindMultiSelect:    1,
		KindTileOrder:      1,
		KindSequenceOrder:  1,
	}
	for seed := range uint64(200) {
		p := NewPlanner(problemgen.New(problemgen.NewRand(seed))).BuildPlan()
		got := p.Counts()
		if len(got) != len(want) {
			t.Fatalf("seed %d: plan %v has kinds %v", seed, p, got)
		}
		for k, n := range want {
			if got[k] != n {
				t.Fatalf("seed %d: %s appears %d times, want %d", seed, k, got[k], n)
			}
		}
	}
}

func TestBuildPlan_Varies(t *testing.T) {
	seen := map[Plan]bool{}
	for seed := range uint64(50) {
		seen[NewPlanner(problemgen.New(problemgen.NewRand(seed))).BuildPlan()] = true
	}
	if len(seen) < 2 {
		t.Error("every seed produced the same plan")
	}
}

func TestComposition_MatchesLessonLength(t *testing.T) {
	total := 0
	for _, n := range Composition() {
		total += n
	}
	if total != LessonLength {
		t.Errorf("composition totals %d, want %d", total, LessonLength)
	}
	if len(AllKinds()) != 6 {
		t.Errorf("AllKinds() = %v", AllKinds())
	}
}

func TestGenerateForSlot_Dispatch(t *testing.T) {
	cfg := skillgraph.SkillConfig{
		Type:          skillgraph.OpAddition,
		Operand1Range: skillgraph.Range{Min: 0, Max: 10},
		Operand2Range: skillgraph.Range{Min: 0, Max: 10},
	}
	p := NewPlanner(problemgen.New(problemgen.NewRand(11)))

	tests := []struct {
		kind SlotKind
		want problemgen.Format
	}{
		{KindDirectChoice, problemgen.FormatDirectChoice},
		{KindMissingOperand, problemgen.FormatDirectChoice},
		{KindComparison, problemgen.FormatComparison},
		{KindTileOrder, problemgen.FormatTileOrder},
		{KindSequenceOrder, problemgen.FormatSequenceOrder},
		{SlotKind("unknown"), problemgen.FormatDirectChoice},
	}
	for _, tc := range tests {
		ex := p.GenerateForSlot(tc.kind, cfg)
		if ex.Format() != tc.want {
			t.Errorf("GenerateForSlot(%s) format = %s, want %s", tc.kind, ex.Format(), tc.want)
		}
	}

	// A missing-operand slot always carries the placeholder.
	dc := p.GenerateForSlot(KindMissingOperand, cfg).(*problemgen.DirectChoice)
	if dc.Question == "" || !strings.Contains(dc.Question, problemgen.Placeholder) {
		t.Errorf("missing-operand question = %q", dc.Question)
	}
}

func TestNewSessionState(t *testing.T) {
	state, fp := testState()

	if state.Phase != PhaseActive {
		t.Errorf("Phase = %d, want PhaseActive", state.Phase)
	}
	if state.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want 0", state.CurrentIndex)
	}
	if state.CurrentExercise == nil {
		t.Fatal("expected first exercise to be materialized")
	}
	if len(fp.generated) != 1 {
		t.Errorf("generated %d exercises, want 1", len(fp.generated))
	}
	if !state.StartTime.Equal(testNow) {
		t.Errorf("StartTime = %v", state.StartTime)
	}
}

func TestHandleAnswer_Correct(t *testing.T) {
	state, _ := testState()

	v, err := HandleAnswer(state, problemgen.ChoiceSubmission{Value: 4})
	if err != nil {
		t.Fatalf("HandleAnswer: %v", err)
	}
	if !v.Correct {
		t.Error("expected correct")
	}
	if state.Score != 1 {
		t.Errorf("Score = %d, want 1", state.Score)
	}
	if len(state.Missed) != 0 {
		t.Errorf("Missed = %v", state.Missed)
	}
	if state.Phase != PhaseFeedback {
		t.Errorf("Phase = %d, want PhaseFeedback", state.Phase)
	}
}

func TestHandleAnswer_Incorrect(t *testing.T) {
	state, _ := testState()

	v, err := HandleAnswer(state, problemgen.ChoiceSubmission{Value: 5})
	if err != nil {
		t.Fatalf("HandleAnswer: %v", err)
	}
	if v.Correct {
		t.Error("expected incorrect")
	}
	if state.Score != 0 {
		t.Errorf("Score = %d, want 0", state.Score)
	}
	if len(state.Missed) != 1 {
		t.Fatalf("Missed = %v", state.Missed)
	}
	m := state.Missed[0]
	if m.Question != "2 + 2" || m.AnswerText != "4" || m.SkillID != "add_within_5" || m.Kind != KindDirectChoice {
		t.Errorf("missed item = %+v", m)
	}
}

func TestHandleAnswer_WrongKindIsIncorrect(t *testing.T) {
	state, _ := testState()

	v, err := HandleAnswer(state, problemgen.SideSubmission{Side: problemgen.SideA})
	if err != nil {
		t.Fatalf("HandleAnswer: %v", err)
	}
	if v.Correct {
		t.Error("expected mismatched submission to be incorrect")
	}
}

func TestHandleAnswer_OncePerSlot(t *testing.T) {
	state, _ := testState()

	if _, err := HandleAnswer(state, problemgen.ChoiceSubmission{Value: 4}); err != nil {
		t.Fatal(err)
	}
	_, err := HandleAnswer(state, problemgen.ChoiceSubmission{Value: 4})
	if !errors.Is(err, ErrAlreadyAnswered) {
		t.Errorf("err = %v, want ErrAlreadyAnswered", err)
	}
	if state.Score != 1 {
		t.Errorf("Score = %d, want 1", state.Score)
	}
}

func TestAdvanceSlot_RequiresAnswer(t *testing.T) {
	state, _ := testState()

	_, err := AdvanceSlot(state)
	if !errors.Is(err, ErrNotAnswered) {
		t.Errorf("err = %v, want ErrNotAnswered", err)
	}
	if state.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want 0", state.CurrentIndex)
	}
}

func TestFullLesson(t *testing.T) {
	state, fp := testState()

	for i := range LessonLength {
		if state.CurrentIndex != i {
			t.Fatalf("CurrentIndex = %d, want %d", state.CurrentIndex, i)
		}
		answer := 4
		if i%4 == 0 {
			answer = 3 // slots 0, 4, 8 are missed
		}
		if _, err := HandleAnswer(state, problemgen.ChoiceSubmission{Value: answer}); err != nil {
			t.Fatalf("slot %d: %v", i, err)
		}
		more, err := AdvanceSlot(state)
		if err != nil {
			t.Fatalf("slot %d: %v", i, err)
		}
		if more != (i < LessonLength-1) {
			t.Fatalf("slot %d: more = %v", i, more)
		}
	}

	if !state.Done() {
		t.Fatal("expected lesson to be done")
	}
	if state.Phase != PhaseSummary {
		t.Errorf("Phase = %d, want PhaseSummary", state.Phase)
	}
	if state.CurrentExercise != nil {
		t.Error("expected no exercise after the lesson")
	}
	if len(fp.generated) != LessonLength {
		t.Errorf("generated %d exercises, want %d", len(fp.generated), LessonLength)
	}

	if _, err := HandleAnswer(state, problemgen.ChoiceSubmission{Value: 4}); !errors.Is(err, ErrLessonOver) {
		t.Errorf("HandleAnswer after lesson: err = %v, want ErrLessonOver", err)
	}
	if _, err := AdvanceSlot(state); !errors.Is(err, ErrLessonOver) {
		t.Errorf("AdvanceSlot after lesson: err = %v, want ErrLessonOver", err)
	}

	summary := BuildSummary(state, testNow.Add(3*time.Minute))
	if summary.Score != 7 || summary.Total != LessonLength {
		t.Errorf("score = %d/%d, want 7/10", summary.Score, summary.Total)
	}
	if summary.Stars != 1 {
		t.Errorf("Stars = %d, want 1", summary.Stars)
	}
	if len(summary.Missed) != 3 {
		t.Errorf("Missed = %d, want 3", len(summary.Missed))
	}
	if summary.Duration != 3*time.Minute {
		t.Errorf("Duration = %v", summary.Duration)
	}
}

func TestStars(t *testing.T) {
	tests := []struct {
		score, total, want int
	}{
		{10, 10, 3},
		{9, 10, 2},
		{8, 10, 2},
		{7, 10, 1},
		{0, 10, 1},
		{0, 0, 1},
	}
	for _, tc := range tests {
		if got := Stars(tc.score, tc.total); got != tc.want {
			t.Errorf("Stars(%d, %d) = %d, want %d", tc.score, tc.total, got, tc.want)
		}
	}
}

func TestLessonWithRealPlanner(t *testing.T) {
	p := NewPlanner(problemgen.New(problemgen.NewRand(5)))
	state := NewSessionState(p, testSkill(), testNow)

	kinds := map[SlotKind]int{}
	for !state.Done() {
		kinds[state.CurrentKind()]++
		if err := problemgen.Validate(state.CurrentExercise); err != nil {
			t.Fatalf("slot %d: %v", state.CurrentIndex, err)
		}
		if _, err := HandleAnswer(state, nil); err != nil {
			t.Fatalf("slot %d: %v", state.CurrentIndex, err)
		}
		if _, err := AdvanceSlot(state); err != nil {
			t.Fatalf("slot %d: %v", state.CurrentIndex, err)
		}
	}
	if state.Score != 0 {
		t.Errorf("Score = %d, want 0 for empty submissions", state.Score)
	}
	if len(state.Missed) != LessonLength {
		t.Errorf("Missed = %d, want %d", len(state.Missed), LessonLength)
	}
	if kinds[KindDirectChoice] != 4 || kinds[KindMissingOperand] != 2 {
		t.Errorf("kinds served = %v", kinds)
	}
}
