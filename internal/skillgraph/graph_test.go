package skillgraph

import (
	"testing"
)

func TestDefault_Skill_Exists(t *testing.T) {
	s, err := Default().Skill("add_doubles")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "Doubles" {
		t.Errorf("got name %q, want %q", s.Name, "Doubles")
	}
	if s.Prerequisite != "add_within_10" {
		t.Errorf("got prerequisite %q, want %q", s.Prerequisite, "add_within_10")
	}
	if !s.Config.Doubles() {
		t.Error("expected doubles constraint")
	}
}

func TestDefault_Skill_NotFound(t *testing.T) {
	_, err := Default().Skill("nonexistent")
	if err == nil {
		t.Fatal("expected error for nonexistent skill, got nil")
	}
}

func TestDefault_Counts(t *testing.T) {
	g := Default()
	if g.Len() != 32 {
		t.Errorf("got %d skills, want 32", g.Len())
	}

	tests := []struct {
		section string
		want    int
	}{
		{"Addition Basics", 4},
		{"Subtraction Basics", 3},
		{"Add & Subtract Mix", 2},
		{"Bigger Numbers", 5},
		{"Multiplication", 4},
		{"Times Tables", 9},
		{"Division", 5},
	}
	sections := g.Sections()
	if len(sections) != len(tests) {
		t.Fatalf("got %d sections, want %d", len(sections), len(tests))
	}
	for i, tt := range tests {
		if sections[i].Name != tt.section {
			t.Errorf("section %d: got %q, want %q", i, sections[i].Name, tt.section)
		}
		if len(sections[i].Skills) != tt.want {
			t.Errorf("section %q: got %d skills, want %d", tt.section, len(sections[i].Skills), tt.want)
		}
	}
}

func TestDefault_SingleRoot(t *testing.T) {
	roots := Default().RootSkills()
	if len(roots) != 1 || roots[0].ID != "add_within_5" {
		t.Errorf("roots = %v, want [add_within_5]", roots)
	}
}

func TestTopologicalOrder_PrereqsFirst(t *testing.T) {
	order := Default().TopologicalOrder()
	pos := make(map[string]int, len(order))
	for i, s := range order {
		pos[s.ID] = i
	}
	for _, s := range order {
		if s.Prerequisite == "" {
			continue
		}
		if pos[s.Prerequisite] >= pos[s.ID] {
			t.Errorf("prerequisite %q (pos %d) should come before %q (pos %d)",
				s.Prerequisite, pos[s.Prerequisite], s.ID, pos[s.ID])
		}
	}
}

func TestTopologicalOrder_MatchesCurriculumForChain(t *testing.T) {
	g := Default()
	topo := g.TopologicalOrder()
	curr := g.Skills()
	for i := range curr {
		if topo[i].ID != curr[i].ID {
			t.Fatalf("position %d: topo %q, curriculum %q", i, topo[i].ID, curr[i].ID)
		}
	}
}

func TestTopologicalOrder_DAG(t *testing.T) {
	// b is listed before its prerequisite c; topological order must fix that.
	sections := []Section{{
		Name:  "Test",
		Color: "#000000",
		Skills: []Skill{
			testSkill("a", ""),
			testSkill("b", "c"),
			testSkill("c", "a"),
			testSkill("d", "a"),
		},
	}}
	g, err := New(sections)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var ids []string
	for _, s := range g.TopologicalOrder() {
		ids = append(ids, s.ID)
	}
	want := []string{"a", "c", "b", "d"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("topological order = %v, want %v", ids, want)
		}
	}
}

func TestPrerequisiteAndDependents(t *testing.T) {
	g := Default()

	p, ok := g.Prerequisite("sub_within_5")
	if !ok || p.ID != "add_within_20" {
		t.Errorf("Prerequisite(sub_within_5) = %q, %v; want add_within_20", p.ID, ok)
	}
	if _, ok := g.Prerequisite("add_within_5"); ok {
		t.Error("root skill should have no prerequisite")
	}

	deps := g.Dependents("mul_mixed")
	if len(deps) != 1 || deps[0].ID != "div_by_2" {
		t.Errorf("Dependents(mul_mixed) = %v, want [div_by_2]", deps)
	}
}

func TestSectionOf(t *testing.T) {
	sec, ok := Default().SectionOf("mul_by_7")
	if !ok {
		t.Fatal("expected section for mul_by_7")
	}
	if sec.Name != "Times Tables" || sec.Color != "#F59E0B" {
		t.Errorf("got %q %q, want Times Tables #F59E0B", sec.Name, sec.Color)
	}
}

func TestSkills_ReturnsCopy(t *testing.T) {
	g := Default()
	skills := g.Skills()
	skills[0].Name = "mutated"
	if s, _ := g.Skill(skills[0].ID); s.Name == "mutated" {
		t.Error("mutating the returned slice changed the graph")
	}
}

func testSkill(id, prereq string) Skill {
	return Skill{
		ID:           id,
		Name:         id,
		Prerequisite: prereq,
		Config: SkillConfig{
			Type:          OpAddition,
			Operand1Range: Range{Min: 1, Max: 5},
			Operand2Range: Range{Min: 1, Max: 5},
		},
	}
}
