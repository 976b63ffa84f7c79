package automation

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/san-kum/grainsim/internal/config"
	"github.com/san-kum/grainsim/internal/metrics"
	"github.com/san-kum/grainsim/internal/session"
)

// Setup prepares a fresh session built from cfg before its batch runs.
type Setup func(s *session.Session, cfg *config.Config) error

// TrialResult holds the final metric values of one run.
type TrialResult struct {
	Seed    int64
	Steps   int
	Metrics map[string]float64
}

// trial runs cfg.Steps steps on a new session and samples the default
// metrics on the prepared grid and after each step.
func trial(ctx context.Context, cfg *config.Config, setup Setup) (TrialResult, error) {
	s, err := session.New(cfg, nil)
	if err != nil {
		return TrialResult{}, err
	}
	if setup != nil {
		if err := setup(s, cfg); err != nil {
			return TrialResult{}, err
		}
	}

	rec := metrics.NewRecorder(metrics.Default(s.Kernel(), s.Statics())...)
	rec.OnStep(s.StepCount(), s.View())
	s.AddObserver(rec)

	n, err := s.Run(ctx, cfg.Steps)
	if err != nil {
		return TrialResult{}, err
	}
	return TrialResult{Seed: cfg.Seed, Steps: n, Metrics: rec.Final()}, nil
}

// RunEnsemble repeats the run described by cfg with seeds cfg.Seed,
// cfg.Seed+1, ... on separate goroutines. Each run owns its session.
func RunEnsemble(ctx context.Context, cfg *config.Config, runs int, setup Setup) ([]TrialResult, error) {
	if runs <= 0 {
		return nil, fmt.Errorf("%w: runs %d", session.ErrInvalidArgument, runs)
	}

	results := make([]TrialResult, runs)
	errs := make([]error, runs)

	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg.Clone()
			cfgCopy.Seed = cfg.Seed + int64(idx)

			results[idx], errs[idx] = trial(ctx, cfgCopy, setup)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Summary describes one metric across an ensemble.
type Summary struct {
	Mean, Std, Min, Max float64
}

// Summarize aggregates every metric present in the results, sorted by name.
func Summarize(results []TrialResult) ([]string, map[string]Summary) {
	values := make(map[string][]float64)
	for _, r := range results {
		for name, v := range r.Metrics {
			values[name] = append(values[name], v)
		}
	}

	names := make([]string, 0, len(values))
	out := make(map[string]Summary, len(values))
	for name, vs := range values {
		names = append(names, name)

		sum := Summary{Min: vs[0], Max: vs[0]}
		for _, v := range vs {
			sum.Mean += v
			sum.Min = math.Min(sum.Min, v)
			sum.Max = math.Max(sum.Max, v)
		}
		sum.Mean /= float64(len(vs))
		for _, v := range vs {
			sum.Std += (v - sum.Mean) * (v - sum.Mean)
		}
		sum.Std = math.Sqrt(sum.Std / float64(len(vs)))
		out[name] = sum
	}
	sort.Strings(names)
	return names, out
}

// Sweep varies one configuration value.
type Sweep struct {
	Param  string
	Values []int
}

// SweepResult pairs a swept value with the run it produced.
type SweepResult struct {
	Value int
	TrialResult
}

// SweepParams lists the configuration values a sweep can vary.
func SweepParams() []string {
	return []string{"probability", "seeds", "fill", "nuclei", "steps", "pins"}
}

func applyParam(cfg *config.Config, name string, v int) error {
	switch name {
	case "probability":
		cfg.Probability = v
	case "seeds":
		cfg.Seeds = v
	case "fill":
		cfg.Fill = v
	case "nuclei":
		cfg.Nucleation.Amount = v
	case "steps":
		cfg.Steps = v
	case "pins":
		cfg.Pins = v
	default:
		return fmt.Errorf("%w: sweep parameter %q (available: %v)", session.ErrInvalidArgument, name, SweepParams())
	}
	return cfg.Validate()
}

// RunSweep runs base once per swept value, in order, with the same seed.
func RunSweep(ctx context.Context, base *config.Config, sweep Sweep, setup Setup) ([]SweepResult, error) {
	results := make([]SweepResult, 0, len(sweep.Values))

	for _, v := range sweep.Values {
		cfg := base.Clone()
		if err := applyParam(cfg, sweep.Param, v); err != nil {
			return nil, err
		}

		res, err := trial(ctx, cfg, setup)
		if err != nil {
			return nil, fmt.Errorf("%s=%d: %w", sweep.Param, v, err)
		}
		results = append(results, SweepResult{Value: v, TrialResult: res})
	}

	return results, nil
}
