package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"leansim/internal/domain"
)

// Project models a project definition file (leansim.yml).
//
// The engine operates over any valid definition; the embedded default is the
// 9-task lean-construction reference project.
type Project struct {
	Project struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description,omitempty"`
	} `yaml:"project"`
	Tasks []domain.Task `yaml:"tasks"`
}

// Validate checks scalar task parameters. Structural validation (undefined
// dependencies, cycles) is the graph's job so those faults surface under
// their own error kinds.
func (p *Project) Validate() error {
	if p.Project.Name == "" {
		return fmt.Errorf("config.project.name is required")
	}
	if len(p.Tasks) == 0 {
		return fmt.Errorf("config.tasks must list at least one task")
	}
	seen := make(map[string]bool, len(p.Tasks))
	for _, t := range p.Tasks {
		if t.ID == "" {
			return fmt.Errorf("config.tasks contains a task without id")
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate task id %q", t.ID)
		}
		seen[t.ID] = true
		if t.BaseDuration < 0 {
			return fmt.Errorf("task %s: base_duration must be >= 0", t.ID)
		}
		if t.DelayFactor < 0 {
			return fmt.Errorf("task %s: delay_factor must be >= 0", t.ID)
		}
		if t.DelayProbability < 0 || t.DelayProbability > 1 {
			return fmt.Errorf("task %s: delay_probability must be in [0,1]", t.ID)
		}
		for _, dep := range t.DependsOn {
			if dep == "" {
				return fmt.Errorf("task %s: empty dependency id", t.ID)
			}
		}
	}
	return nil
}

// FromYAML parses and validates a project definition from raw YAML bytes.
func FromYAML(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid project yaml: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// FromFile reads a YAML project definition from the given path.
func FromFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// ToYAML serializes the definition for storage or export.
func (p *Project) ToYAML() ([]byte, error) {
	return yaml.Marshal(p)
}

// Default returns the reference project definition.
func Default() *Project {
	p, err := FromYAML([]byte(defaultTemplate))
	if err != nil {
		panic(fmt.Sprintf("default project template invalid: %v", err))
	}
	return p
}

// GenerateDefault returns the default project definition YAML, for
// `leansim project init`.
func GenerateDefault() string {
	return defaultTemplate
}

const defaultTemplate = `project:
  id: lean-construction
  name: Lean Construction
  description: "Reference construction project for lean scenario comparison"

tasks:
  - id: Planejamento
    base_duration: 20
    value_added: true

  - id: Licenciamento
    base_duration: 10
    value_added: false
    delay_factor: 5
    delay_probability: 0.8
    depends_on: [Planejamento]

  - id: Mobilização
    base_duration: 5
    value_added: false
    delay_factor: 3
    delay_probability: 0.7
    depends_on: [Licenciamento]

  - id: Escavação
    base_duration: 15
    value_added: true
    depends_on: [Mobilização]

  - id: Estrutura
    base_duration: 25
    value_added: true
    depends_on: [Escavação]

  - id: Alvenaria
    base_duration: 20
    value_added: true
    depends_on: [Estrutura]

  - id: Instalações
    base_duration: 10
    value_added: true
    depends_on: [Estrutura]

  - id: Acabamentos
    base_duration: 10
    value_added: true
    depends_on: [Alvenaria, Instalações]

  - id: Inspeção
    base_duration: 5
    value_added: true
    depends_on: [Acabamentos]
`
