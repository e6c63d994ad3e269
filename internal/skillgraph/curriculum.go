package skillgraph

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed curriculum.json
var embeddedCurriculum []byte

// curriculumFile is the on-disk shape of a curriculum definition.
type curriculumFile struct {
	Sections []sectionJSON `json:"sections"`
}

type sectionJSON struct {
	Name   string      `json:"name"`
	Color  string      `json:"color"`
	Skills []skillJSON `json:"skills"`
}

type skillJSON struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Icon          string     `json:"icon"`
	Prerequisite  *string    `json:"prerequisite"`
	ProblemConfig configJSON `json:"problem_config"`
}

type configJSON struct {
	Type          string           `json:"type"`
	Operand1Range [2]int           `json:"operand1_range"`
	Operand2Range [2]int           `json:"operand2_range"`
	Constraints   *constraintsJSON `json:"constraints,omitempty"`
}

type constraintsJSON struct {
	SumMax       *int `json:"sum_max,omitempty"`
	Doubles      bool `json:"doubles,omitempty"`
	FixedOperand *int `json:"fixed_operand,omitempty"`
}

// curriculumSchema is the JSON schema every curriculum file must satisfy.
var curriculumSchema = map[string]any{
	"type":     "object",
	"required": []any{"sections"},
	"properties": map[string]any{
		"sections": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []any{"name", "color", "skills"},
				"properties": map[string]any{
					"name":  map[string]any{"type": "string", "minLength": 1},
					"color": map[string]any{"type": "string", "pattern": "^#[0-9A-Fa-f]{6}$"},
					"skills": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items":    skillSchema,
					},
				},
				"additionalProperties": false,
			},
		},
	},
	"additionalProperties": false,
}

var rangeSchema = map[string]any{
	"type":     "array",
	"items":    map[string]any{"type": "integer", "minimum": 0},
	"minItems": 2,
	"maxItems": 2,
}

var skillSchema = map[string]any{
	"type":     "object",
	"required": []any{"id", "name", "icon", "prerequisite", "problem_config"},
	"properties": map[string]any{
		"id":           map[string]any{"type": "string", "pattern": "^[a-z0-9_]+$"},
		"name":         map[string]any{"type": "string", "minLength": 1},
		"icon":         map[string]any{"type": "string"},
		"prerequisite": map[string]any{"type": []any{"string", "null"}},
		"problem_config": map[string]any{
			"type":     "object",
			"required": []any{"type", "operand1_range", "operand2_range"},
			"properties": map[string]any{
				"type": map[string]any{
					"enum": []any{"addition", "subtraction", "multiplication", "division", "mixed_add_sub", "mixed_mul_div"},
				},
				"operand1_range": rangeSchema,
				"operand2_range": rangeSchema,
				"constraints": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"sum_max":       map[string]any{"type": "integer", "minimum": 0},
						"doubles":       map[string]any{"type": "boolean"},
						"fixed_operand": map[string]any{"type": "integer", "minimum": 0},
					},
					"additionalProperties": false,
				},
			},
			"additionalProperties": false,
		},
	},
	"additionalProperties": false,
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// schema returns the compiled curriculum schema, compiling it on first use.
func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a plain JSON value, not Go maps with typed slices.
		defBytes, err := json.Marshal(curriculumSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
		if err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://curriculum.json"
		if err := c.AddResource(url, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(url)
	})
	return compiledSchema, compileErr
}

// ParseCurriculum validates raw curriculum JSON against the schema and
// converts it to sections. Structural checks (cycles, dangling
// prerequisites, ranges) happen in New.
func ParseCurriculum(data []byte) ([]Section, error) {
	sch, err := schema()
	if err != nil {
		return nil, fmt.Errorf("compile curriculum schema: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid curriculum JSON: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("curriculum schema validation failed: %w", err)
	}

	var file curriculumFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode curriculum: %w", err)
	}

	sections := make([]Section, 0, len(file.Sections))
	for _, sj := range file.Sections {
		sec := Section{Name: sj.Name, Color: sj.Color}
		for _, kj := range sj.Skills {
			sec.Skills = append(sec.Skills, kj.toSkill())
		}
		sections = append(sections, sec)
	}
	return sections, nil
}

// LoadFile reads, validates and builds a graph from a curriculum file.
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curriculum: %w", err)
	}
	sections, err := ParseCurriculum(data)
	if err != nil {
		return nil, err
	}
	return New(sections)
}

func (kj skillJSON) toSkill() Skill {
	s := Skill{
		ID:   kj.ID,
		Name: kj.Name,
		Icon: kj.Icon,
		Config: SkillConfig{
			Type:          Operation(kj.ProblemConfig.Type),
			Operand1Range: Range{Min: kj.ProblemConfig.Operand1Range[0], Max: kj.ProblemConfig.Operand1Range[1]},
			Operand2Range: Range{Min: kj.ProblemConfig.Operand2Range[0], Max: kj.ProblemConfig.Operand2Range[1]},
		},
	}
	if kj.Prerequisite != nil {
		s.Prerequisite = *kj.Prerequisite
	}
	if c := kj.ProblemConfig.Constraints; c != nil {
		s.Config.Constraints = &Constraints{
			SumMax:       c.SumMax,
			Doubles:      c.Doubles,
			FixedOperand: c.FixedOperand,
		}
	}
	return s
}
