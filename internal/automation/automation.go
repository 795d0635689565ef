package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/framesim/internal/analysis"
	"github.com/san-kum/framesim/internal/config"
	"github.com/san-kum/framesim/internal/experiment"
	"github.com/san-kum/framesim/internal/export"
	"github.com/san-kum/framesim/internal/metrics"
	"github.com/san-kum/framesim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of headless runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario
type ScenarioStep struct {
	Domain    string             `yaml:"domain"`
	Preset    string             `yaml:"preset"`
	Frames    int                `yaml:"frames"`
	Seed      int64              `yaml:"seed"`
	Backend   string             `yaml:"backend"`
	Overrides map[string]float64 `yaml:"overrides"`
	GIF       string             `yaml:"gif"`
	PNG       string             `yaml:"png"`
}

type StepResult struct {
	Domain  string
	Frames  int
	Metric  string
	Summary analysis.Summary
	Series  []float64
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// StepConfig resolves the config of one step: preset or defaults, then
// seed, backend and overrides.
func StepConfig(step ScenarioStep) (*config.Config, error) {
	cfg := config.DefaultConfig(step.Domain)
	if step.Preset != "" {
		if cfg = config.GetPreset(step.Domain, step.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset %s/%s (available: %v)", step.Domain, step.Preset, config.ListPresets(step.Domain))
		}
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	if step.Backend != "" {
		cfg.Backend = step.Backend
	}
	if err := cfg.Apply(step.Overrides); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes all steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "domain", step.Domain, "preset", step.Preset)

		res, err := runStep(ctx, step, registry, logger)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func runStep(ctx context.Context, step ScenarioStep, registry *experiment.Registry, logger *slog.Logger) (StepResult, error) {
	cfg, err := StepConfig(step)
	if err != nil {
		return StepResult{}, err
	}
	frames := step.Frames
	if frames <= 0 {
		frames = 100
	}

	name := metrics.ForDomain(cfg.Domain).Name()
	series := metrics.NewSeries(name, name, frames)
	opts := []sim.Option{sim.WithObserver(series), sim.WithLogger(logger)}

	var rec *export.GIFRecorder
	if step.GIF != "" {
		rec = export.NewGIFRecorder(export.DefaultDelay, 0)
		opts = append(opts, sim.WithPresenter(rec))
	}

	s, err := registry.Build(cfg, opts...)
	if err != nil {
		return StepResult{}, err
	}
	defer s.Loop.Close()

	if err := s.Loop.Run(ctx, frames); err != nil {
		return StepResult{}, err
	}

	if rec != nil {
		if err := rec.Save(step.GIF); err != nil {
			return StepResult{}, err
		}
		logger.Info("wrote gif", "path", step.GIF, "frames", rec.Len())
	}
	if step.PNG != "" {
		if err := export.PNG(step.PNG, s.Loop.Snapshot()); err != nil {
			return StepResult{}, err
		}
		logger.Info("wrote png", "path", step.PNG)
	}

	hist := series.History()
	return StepResult{
		Domain:  cfg.Domain,
		Frames:  frames,
		Metric:  name,
		Summary: analysis.Summarize(hist),
		Series:  hist,
	}, nil
}
