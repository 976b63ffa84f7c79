// Package metrics computes scalar statistics of a grain lattice and
// records them step by step.
package metrics

import "github.com/san-kum/grainsim/internal/lattice"

// Metric observes the grid after each step and reports one value.
type Metric interface {
	Name() string
	Observe(g *lattice.Grid, step int)
	Value() float64
	Reset()
}

// Recorder is a session observer that samples a fixed set of metrics after
// every step.
type Recorder struct {
	metrics []Metric
	steps   []int
	rows    [][]float64
}

func NewRecorder(metrics ...Metric) *Recorder {
	return &Recorder{metrics: metrics}
}

// OnStep samples every metric against g.
func (r *Recorder) OnStep(step int, g *lattice.Grid) {
	row := make([]float64, len(r.metrics))
	for i, m := range r.metrics {
		m.Observe(g, step)
		row[i] = m.Value()
	}
	r.steps = append(r.steps, step)
	r.rows = append(r.rows, row)
}

// Header returns the metric names in column order.
func (r *Recorder) Header() []string {
	names := make([]string, len(r.metrics))
	for i, m := range r.metrics {
		names[i] = m.Name()
	}
	return names
}

func (r *Recorder) Steps() []int      { return r.steps }
func (r *Recorder) Rows() [][]float64 { return r.rows }
func (r *Recorder) Len() int          { return len(r.rows) }

// Column returns the series recorded for the named metric.
func (r *Recorder) Column(name string) ([]float64, bool) {
	for i, m := range r.metrics {
		if m.Name() != name {
			continue
		}
		col := make([]float64, len(r.rows))
		for j, row := range r.rows {
			col[j] = row[i]
		}
		return col, true
	}
	return nil, false
}

// Final returns the last recorded value of every metric.
func (r *Recorder) Final() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Reset() {
	for _, m := range r.metrics {
		m.Reset()
	}
	r.steps = nil
	r.rows = nil
}
