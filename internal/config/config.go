package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/grainsim/internal/engine"
	"github.com/san-kum/grainsim/internal/neighborhood"
	"github.com/san-kum/grainsim/internal/placement"
	"github.com/san-kum/grainsim/internal/statics"
)

const (
	DefaultWidth       = 100
	DefaultHeight      = 100
	DefaultProbability = 50
	DefaultSteps       = 50
	DefaultSeeds       = 20
	DefaultFill        = 10
	DefaultThickness   = 1
	DefaultNuclei      = 10
)

// ErrInvalid indicates a configuration value out of range.
var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Width           int              `yaml:"width" json:"width"`
	Height          int              `yaml:"height" json:"height"`
	Mode            string           `yaml:"mode" json:"mode"`
	Kernel          string           `yaml:"kernel" json:"kernel"`
	Probability     int              `yaml:"probability" json:"probability"`
	Seed            int64            `yaml:"seed" json:"seed"`
	Steps           int              `yaml:"steps" json:"steps"`
	Seeds           int              `yaml:"seeds" json:"seeds"`
	Fill            int              `yaml:"fill" json:"fill"`
	Inclusion       InclusionConfig  `yaml:"inclusion" json:"inclusion"`
	BorderThickness int              `yaml:"border_thickness" json:"border_thickness"`
	Nucleation      NucleationConfig `yaml:"nucleation" json:"nucleation"`
	ClearMode       string           `yaml:"clear_mode" json:"clear_mode"`
	Pins            int              `yaml:"pins" json:"pins"`
	Energy          EnergyConfig     `yaml:"energy" json:"energy"`
}

type InclusionConfig struct {
	Shape string `yaml:"shape" json:"shape"`
	Size  int    `yaml:"size" json:"size"`
	Count int    `yaml:"count" json:"count"`
}

type NucleationConfig struct {
	Mode      string `yaml:"mode" json:"mode"`
	Increment string `yaml:"increment" json:"increment"`
	Amount    int    `yaml:"amount" json:"amount"`
}

// EnergyConfig seeds the stored energy before an SRX run. Homogeneous sets
// every cell's H when positive; Borders raises H on grain borders.
type EnergyConfig struct {
	Homogeneous int  `yaml:"homogeneous" json:"homogeneous"`
	Borders     bool `yaml:"borders" json:"borders"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Mode:        string(engine.CA),
		Kernel:      neighborhood.Moore.Name,
		Probability: DefaultProbability,
		Steps:       DefaultSteps,
		Seeds:       DefaultSeeds,
		Fill:        DefaultFill,
		Inclusion: InclusionConfig{
			Shape: string(placement.Square),
		},
		BorderThickness: DefaultThickness,
		Nucleation: NucleationConfig{
			Mode:      string(engine.Everywhere),
			Increment: string(engine.Const),
			Amount:    DefaultNuclei,
		},
		ClearMode: string(statics.Standard),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if _, err := engine.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := neighborhood.ParseKernel(c.Kernel); err != nil {
		return err
	}
	if c.Probability < 0 || c.Probability > 100 {
		return fmt.Errorf("%w: probability %d not in [0,100]", ErrInvalid, c.Probability)
	}
	if c.Steps < 0 || c.Seeds < 0 || c.Fill < 0 {
		return fmt.Errorf("%w: steps, seeds and fill must not be negative", ErrInvalid)
	}
	if c.Inclusion.Count < 0 || c.Inclusion.Size < 0 {
		return fmt.Errorf("%w: inclusion size and count must not be negative", ErrInvalid)
	}
	if c.Inclusion.Count > 0 {
		if _, err := placement.ParseShape(c.Inclusion.Shape); err != nil {
			return err
		}
	}
	if c.BorderThickness < 0 {
		return fmt.Errorf("%w: border thickness %d", ErrInvalid, c.BorderThickness)
	}
	if _, err := engine.ParseNucleationMode(c.Nucleation.Mode); err != nil {
		return err
	}
	if _, err := engine.ParseIncrement(c.Nucleation.Increment); err != nil {
		return err
	}
	if c.Nucleation.Amount < 0 {
		return fmt.Errorf("%w: nucleation amount %d", ErrInvalid, c.Nucleation.Amount)
	}
	if _, err := statics.ParseClearMode(c.ClearMode); err != nil {
		return err
	}
	if c.Pins < 0 {
		return fmt.Errorf("%w: pins %d", ErrInvalid, c.Pins)
	}
	if c.Energy.Homogeneous < 0 {
		return fmt.Errorf("%w: energy %d", ErrInvalid, c.Energy.Homogeneous)
	}
	return nil
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
