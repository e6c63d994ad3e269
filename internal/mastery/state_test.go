package mastery

import "testing"

func TestAdvance(t *testing.T) {
	tests := []struct {
		level Level
		score int
		want  Level
	}{
		{LevelNew, 0, LevelLearning},
		{LevelNew, 10, LevelLearning},
		{LevelLearning, 7, LevelPracticing},
		{LevelLearning, 6, LevelLearning},
		{LevelLearning, 10, LevelPracticing},
		{LevelPracticing, 8, LevelMastered},
		{LevelPracticing, 7, LevelPracticing},
		{LevelMastered, 0, LevelMastered},
		{LevelMastered, 10, LevelMastered},
	}
	for _, tc := range tests {
		if got := Advance(tc.level, tc.score); got != tc.want {
			t.Errorf("Advance(%s, %d) = %s, want %s", tc.level, tc.score, got, tc.want)
		}
	}
}

func TestAdvance_NeverRegresses(t *testing.T) {
	for level := LevelNew; level <= MaxLevel; level++ {
		for score := 0; score <= 10; score++ {
			if got := Advance(level, score); got < level {
				t.Errorf("Advance(%s, %d) = %s regressed", level, score, got)
			}
		}
	}
}

func TestThresholds_StrictlyIncreasing(t *testing.T) {
	prev := 0
	for level := LevelLearning; level <= MaxLevel; level++ {
		th, ok := Threshold(level)
		if !ok {
			t.Fatalf("no threshold for %s", level)
		}
		if th <= prev {
			t.Errorf("threshold for %s = %d, not above %d", level, th, prev)
		}
		prev = th
	}
	if _, ok := Threshold(LevelNew); ok {
		t.Error("level 0 should advance without a threshold")
	}
}

func TestStateTransition_Unlocked(t *testing.T) {
	tests := []struct {
		from, to Level
		want     bool
	}{
		{LevelLearning, LevelPracticing, true},
		{LevelNew, LevelLearning, false},
		{LevelPracticing, LevelMastered, false},
	}
	for _, tc := range tests {
		tr := &StateTransition{From: tc.from, To: tc.to}
		if got := tr.Unlocked(); got != tc.want {
			t.Errorf("%s -> %s Unlocked() = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
