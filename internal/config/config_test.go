package config_test

import (
	"strings"
	"testing"

	"leansim/internal/config"
)

func TestDefaultProjectIsValid(t *testing.T) {
	p := config.Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("default project invalid: %v", err)
	}
	if len(p.Tasks) != 9 {
		t.Fatalf("expected 9 reference tasks, got %d", len(p.Tasks))
	}
	if p.Tasks[len(p.Tasks)-1].ID != "Inspeção" {
		t.Fatalf("expected terminal task Inspeção, got %s", p.Tasks[len(p.Tasks)-1].ID)
	}
}

func TestDefaultRoundTrip(t *testing.T) {
	p := config.Default()
	data, err := p.ToYAML()
	if err != nil {
		t.Fatalf("to yaml: %v", err)
	}
	q, err := config.FromYAML(data)
	if err != nil {
		t.Fatalf("from yaml: %v", err)
	}
	if len(q.Tasks) != len(p.Tasks) {
		t.Fatalf("round trip lost tasks: %d vs %d", len(q.Tasks), len(p.Tasks))
	}
}

func TestValidateRejectsBadDefinitions(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: "project:\n  id: p\ntasks:\n  - id: a\n    base_duration: 1\n",
			want: "name is required",
		},
		{
			name: "no tasks",
			yaml: "project:\n  name: p\ntasks: []\n",
			want: "at least one task",
		},
		{
			name: "duplicate id",
			yaml: "project:\n  name: p\ntasks:\n  - id: a\n    base_duration: 1\n  - id: a\n    base_duration: 2\n",
			want: "duplicate task id",
		},
		{
			name: "negative duration",
			yaml: "project:\n  name: p\ntasks:\n  - id: a\n    base_duration: -1\n",
			want: "base_duration",
		},
		{
			name: "probability out of range",
			yaml: "project:\n  name: p\ntasks:\n  - id: a\n    base_duration: 1\n    delay_factor: 2\n    delay_probability: 1.5\n",
			want: "delay_probability",
		},
	}
	for _, tc := range cases {
		_, err := config.FromYAML([]byte(tc.yaml))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestUnknownDependencyIsNotAConfigError(t *testing.T) {
	// Dependency existence is the graph's concern, so it must surface under
	// the graph's error taxonomy, not as a config validation failure.
	yaml := "project:\n  name: p\ntasks:\n  - id: a\n    base_duration: 1\n    depends_on: [ghost]\n"
	if _, err := config.FromYAML([]byte(yaml)); err != nil {
		t.Fatalf("expected config to accept undefined dependency id, got %v", err)
	}
}
