package config

import "sort"

var Presets = map[string]*Config{
	"ca-basic": {
		Width: 100, Height: 100, Mode: "CA", Kernel: "MOORE", Probability: 50,
		Steps: 60, Seeds: 30, BorderThickness: 1, ClearMode: "STANDARD",
		Nucleation: NucleationConfig{Mode: "EVERYWHERE", Increment: "CONST", Amount: 10},
	},
	"ca-complex": {
		Width: 150, Height: 150, Mode: "CA", Kernel: "COMPLEX_MOORE", Probability: 70,
		Steps: 100, Seeds: 40, BorderThickness: 1, ClearMode: "STANDARD",
		Inclusion:  InclusionConfig{Shape: "CIRCLE", Size: 3, Count: 8},
		Nucleation: NucleationConfig{Mode: "EVERYWHERE", Increment: "CONST", Amount: 10},
	},
	"potts": {
		Width: 80, Height: 80, Mode: "MONTE_CARLO", Kernel: "MOORE", Probability: 50,
		Steps: 40, Fill: 12, BorderThickness: 1, ClearMode: "STANDARD",
		Nucleation: NucleationConfig{Mode: "EVERYWHERE", Increment: "CONST", Amount: 10},
	},
	"srx-borders": {
		Width: 80, Height: 80, Mode: "SRX_MONTE_CARLO", Kernel: "MOORE", Probability: 50,
		Steps: 40, Fill: 12, BorderThickness: 1, ClearMode: "STANDARD",
		Nucleation: NucleationConfig{Mode: "BORDERS", Increment: "INCREASING", Amount: 5},
		Energy:     EnergyConfig{Homogeneous: 5, Borders: true},
	},
	"srx-everywhere": {
		Width: 80, Height: 80, Mode: "SRX_MONTE_CARLO", Kernel: "MOORE", Probability: 50,
		Steps: 40, Fill: 12, BorderThickness: 1, ClearMode: "STANDARD",
		Nucleation: NucleationConfig{Mode: "EVERYWHERE", Increment: "CONST", Amount: 30},
		Energy:     EnergyConfig{Homogeneous: 5},
	},
	"dual-phase": {
		Width: 100, Height: 100, Mode: "CA", Kernel: "MOORE", Probability: 50,
		Steps: 60, Seeds: 20, BorderThickness: 2, ClearMode: "DUAL_PHASE", Pins: 3,
		Nucleation: NucleationConfig{Mode: "EVERYWHERE", Increment: "CONST", Amount: 10},
	},
}

// GetPreset returns a copy of the named preset, or nil when unknown.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
