package automation

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/framesim/internal/experiment"
)

const scenarioYAML = `name: smoke
description: two quick runs
steps:
  - domain: life
    preset: small
    frames: 10
    seed: 7
    overrides:
      domain_width: 40
      domain_height: 30
      view_width: 40
      view_height: 30
    gif: %GIF%
  - domain: nbody
    frames: 5
    backend: serial
    overrides:
      particle_count: 20
      view_width: 32
      view_height: 32
    png: %PNG%
`

func writeScenario(t *testing.T) (path, gif, png string) {
	t.Helper()
	dir := t.TempDir()
	gif, png = filepath.Join(dir, "life.gif"), filepath.Join(dir, "nbody.png")
	body := strings.NewReplacer("%GIF%", gif, "%PNG%", png).Replace(scenarioYAML)
	path = filepath.Join(dir, "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path, gif, png
}

func TestRunScenario(t *testing.T) {
	path, gif, png := writeScenario(t)
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "smoke" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}

	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Metric != "population" || len(results[0].Series) != 10 {
		t.Errorf("life step: %s with %d samples", results[0].Metric, len(results[0].Series))
	}
	if results[1].Metric != "energy" || results[1].Summary.Samples != 5 {
		t.Errorf("nbody step: %s with %d samples", results[1].Metric, results[1].Summary.Samples)
	}

	for _, p := range []string{gif, png} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing output %s: %v", p, err)
		}
	}
}

func TestStepConfig(t *testing.T) {
	cfg, err := StepConfig(ScenarioStep{Domain: "nbody", Preset: "torus", Seed: 9, Overrides: map[string]float64{"g": 0.5}})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.WrapParticles || cfg.Seed != 9 || cfg.G != 0.5 {
		t.Errorf("unexpected config %+v", cfg)
	}

	if _, err := StepConfig(ScenarioStep{Domain: "life", Preset: "nope"}); err == nil {
		t.Error("expected unknown preset error")
	}
	if _, err := StepConfig(ScenarioStep{Domain: "life", Overrides: map[string]float64{"colour": 1}}); err == nil {
		t.Error("expected unknown override error")
	}
}

func TestRunScenarioStopsOnFailure(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{Domain: "life", Frames: 2, Overrides: map[string]float64{"domain_width": 16, "domain_height": 16, "view_width": 16, "view_height": 16}},
		{Domain: "life", Overrides: map[string]float64{"initial_density": 4}},
	}}
	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), nil)
	if err == nil || !strings.Contains(err.Error(), "step 2") {
		t.Fatalf("expected step 2 failure, got %v", err)
	}
	if len(results) != 1 {
		t.Errorf("first step result should be kept, got %d", len(results))
	}
}

func TestLoadScenarioEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	os.WriteFile(path, []byte("name: none\n"), 0644)
	if _, err := LoadScenario(path); err == nil {
		t.Error("expected error for a scenario without steps")
	}
}
