package skillgraph

import (
	"fmt"
	"slices"
	"sort"
)

// Graph holds the skill DAG with precomputed indices. A Graph is read-only
// after construction and safe for concurrent use.
type Graph struct {
	sections   []Section
	skills     []Skill
	byID       map[string]*Skill
	sectionOf  map[string]int
	position   map[string]int
	roots      []Skill
	dependents map[string][]string
	topoOrder  []Skill
	topoIndex  map[string]int
}

// defaultGraph is built from the embedded curriculum in init().
var defaultGraph *Graph

func init() {
	sections, err := ParseCurriculum(embeddedCurriculum)
	if err != nil {
		panic(fmt.Sprintf("embedded curriculum: %v", err))
	}
	gr, err := New(sections)
	if err != nil {
		panic(fmt.Sprintf("embedded curriculum: %v", err))
	}
	defaultGraph = gr
}

// Default returns the graph built from the embedded curriculum.
func Default() *Graph {
	return defaultGraph
}

// New validates the sections and builds a graph from them.
func New(sections []Section) (*Graph, error) {
	var skills []Skill
	for _, sec := range sections {
		skills = append(skills, sec.Skills...)
	}
	if err := validateSkills(skills); err != nil {
		return nil, err
	}
	return buildGraph(sections), nil
}

// buildGraph constructs the graph from validated sections.
// It builds all indices including topological order (Kahn's algorithm).
func buildGraph(sections []Section) *Graph {
	gr := &Graph{
		sections:   sections,
		sectionOf:  make(map[string]int),
		position:   make(map[string]int),
		dependents: make(map[string][]string),
		topoIndex:  make(map[string]int),
	}

	for si, sec := range sections {
		for _, s := range sec.Skills {
			gr.position[s.ID] = len(gr.skills)
			gr.sectionOf[s.ID] = si
			gr.skills = append(gr.skills, s)
		}
	}

	gr.byID = make(map[string]*Skill, len(gr.skills))
	for i := range gr.skills {
		gr.byID[gr.skills[i].ID] = &gr.skills[i]
	}

	// Build reverse edges (dependents), in curriculum order.
	for i := range gr.skills {
		if p := gr.skills[i].Prerequisite; p != "" {
			gr.dependents[p] = append(gr.dependents[p], gr.skills[i].ID)
		}
	}

	// Topological sort (Kahn's algorithm). Ties are broken by curriculum
	// position, so a curriculum that is already ordered keeps its order.
	inDegree := make(map[string]int, len(gr.skills))
	var queue []string
	for _, s := range gr.skills {
		if s.IsRoot() {
			queue = append(queue, s.ID)
			gr.roots = append(gr.roots, s)
		} else {
			inDegree[s.ID] = 1
		}
	}

	for len(queue) > 0 {
		sort.SliceStable(queue, func(i, j int) bool {
			return gr.position[queue[i]] < gr.position[queue[j]]
		})
		id := queue[0]
		queue = queue[1:]

		gr.topoIndex[id] = len(gr.topoOrder)
		gr.topoOrder = append(gr.topoOrder, *gr.byID[id])

		for _, depID := range gr.dependents[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	return gr
}

// Skill returns a skill by ID, or error if not found.
func (g *Graph) Skill(id string) (Skill, error) {
	s, ok := g.byID[id]
	if !ok {
		return Skill{}, fmt.Errorf("skill not found: %q", id)
	}
	return *s, nil
}

// Has reports whether the graph contains a skill with the given ID.
func (g *Graph) Has(id string) bool {
	_, ok := g.byID[id]
	return ok
}

// Skills returns all skills in curriculum order.
func (g *Graph) Skills() []Skill {
	return slices.Clone(g.skills)
}

// Sections returns the curriculum sections in display order.
func (g *Graph) Sections() []Section {
	out := make([]Section, len(g.sections))
	for i, sec := range g.sections {
		out[i] = Section{Name: sec.Name, Color: sec.Color, Skills: slices.Clone(sec.Skills)}
	}
	return out
}

// SectionOf returns the section that contains the skill.
func (g *Graph) SectionOf(id string) (Section, bool) {
	si, ok := g.sectionOf[id]
	if !ok {
		return Section{}, false
	}
	sec := g.sections[si]
	return Section{Name: sec.Name, Color: sec.Color, Skills: slices.Clone(sec.Skills)}, true
}

// RootSkills returns all skills with no prerequisite.
func (g *Graph) RootSkills() []Skill {
	return slices.Clone(g.roots)
}

// Prerequisite returns the direct prerequisite of a skill, if any.
func (g *Graph) Prerequisite(id string) (Skill, bool) {
	s, ok := g.byID[id]
	if !ok || s.IsRoot() {
		return Skill{}, false
	}
	p, ok := g.byID[s.Prerequisite]
	if !ok {
		return Skill{}, false
	}
	return *p, true
}

// Dependents returns skills that directly depend on the given skill ID.
func (g *Graph) Dependents(id string) []Skill {
	depIDs := g.dependents[id]
	result := make([]Skill, 0, len(depIDs))
	for _, depID := range depIDs {
		if s, ok := g.byID[depID]; ok {
			result = append(result, *s)
		}
	}
	return result
}

// TopologicalOrder returns all skills in curriculum (topological) order.
func (g *Graph) TopologicalOrder() []Skill {
	return slices.Clone(g.topoOrder)
}

// Len returns the number of skills in the graph.
func (g *Graph) Len() int {
	return len(g.skills)
}
