package skillgraph

import (
	"fmt"
	"strings"
)

// validateSkills performs all structural checks on the given skill set.
// Returns a combined error describing all problems found, or nil if valid.
func validateSkills(skills []Skill) error {
	var errs []string

	if len(skills) == 0 {
		return fmt.Errorf("skill graph validation failed:\n  no skills defined")
	}

	idSet := make(map[string]bool, len(skills))

	// Check for duplicate IDs
	for _, s := range skills {
		if idSet[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate skill ID: %q", s.ID))
		}
		idSet[s.ID] = true
	}

	// Check for dangling and self-referencing prerequisites
	for _, s := range skills {
		if s.Prerequisite == "" {
			continue
		}
		if s.Prerequisite == s.ID {
			errs = append(errs, fmt.Sprintf("skill %q lists itself as prerequisite", s.ID))
			continue
		}
		if !idSet[s.Prerequisite] {
			errs = append(errs, fmt.Sprintf("skill %q references nonexistent prerequisite %q", s.ID, s.Prerequisite))
		}
	}

	// Check for cycles using Kahn's algorithm
	inDegree := make(map[string]int, len(skills))
	adjList := make(map[string][]string)
	for _, s := range skills {
		if s.Prerequisite != "" && idSet[s.Prerequisite] {
			inDegree[s.ID] = 1
			adjList[s.Prerequisite] = append(adjList[s.Prerequisite], s.ID)
		}
	}

	var queue []string
	for _, s := range skills {
		if inDegree[s.ID] == 0 {
			queue = append(queue, s.ID)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, depID := range adjList[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	if visited < len(skills) {
		var cycleNodes []string
		for _, s := range skills {
			if inDegree[s.ID] > 0 {
				cycleNodes = append(cycleNodes, s.ID)
			}
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving skills: %s", strings.Join(cycleNodes, ", ")))
	}

	// Check at least one root
	hasRoot := false
	for _, s := range skills {
		if s.IsRoot() {
			hasRoot = true
			break
		}
	}
	if !hasRoot {
		errs = append(errs, "no root skills found (at least one skill must have no prerequisite)")
	}

	// Check problem configs are generatable
	for _, s := range skills {
		errs = append(errs, validateConfig(s.ID, s.Config)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("skill graph validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// validateConfig checks a single SkillConfig for ranges the generator
// cannot satisfy.
func validateConfig(id string, c SkillConfig) []string {
	var errs []string
	prefix := fmt.Sprintf("skill %q", id)

	if !c.Type.Valid() {
		errs = append(errs, fmt.Sprintf("%s: unknown operation %q", prefix, c.Type))
	}
	for i, r := range []Range{c.Operand1Range, c.Operand2Range} {
		if r.Min < 0 {
			errs = append(errs, fmt.Sprintf("%s: operand%d range min must be >= 0, got %d", prefix, i+1, r.Min))
		}
		if r.Min > r.Max {
			errs = append(errs, fmt.Sprintf("%s: operand%d range [%d, %d] is empty", prefix, i+1, r.Min, r.Max))
		}
	}

	if sumMax, ok := c.SumMax(); ok {
		if c.Operand1Range.Min+c.Operand2Range.Min > sumMax {
			errs = append(errs, fmt.Sprintf("%s: sum_max %d is below the smallest possible sum %d",
				prefix, sumMax, c.Operand1Range.Min+c.Operand2Range.Min))
		}
	}

	if c.Type == OpDivision || c.Type == OpMixedMulDiv {
		divisor := c.Operand2Range.Min
		if fixed, ok := c.FixedOperand(); ok {
			divisor = fixed
		}
		if divisor <= 0 {
			errs = append(errs, fmt.Sprintf("%s: divisors must be > 0", prefix))
		}
	}
	return errs
}
