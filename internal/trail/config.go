package trail

import (
	"fmt"

	"github.com/san-kum/swingby/internal/dynamo"
)

const (
	PolicyPrecomputed = "precomputed"
	PolicyTwoTier     = "two-tier"
	PolicyAgeBanded   = "age-banded"
	PolicyRing        = "ring"
)

const (
	DefaultMaxSteps    = 20000
	DefaultBailRadius  = 50e6
	DefaultRecent      = 2000
	DefaultSparseEvery = 10
	DefaultSparseCap   = 3000
	DefaultTotal       = 10000
	DefaultKeepRecent  = 1000
	DefaultTarget      = 0.8
	DefaultCapacity    = 2000
)

// Config selects a retention policy and sizes it. Only the fields of the
// selected policy are used.
type Config struct {
	Policy string `yaml:"policy"`

	// precomputed
	MaxSteps   int     `yaml:"max_steps"`
	BailRadius float64 `yaml:"bail_radius"`

	// two-tier
	Recent      int `yaml:"recent"`
	SparseEvery int `yaml:"sparse_every"`
	SparseCap   int `yaml:"sparse_cap"`

	// age-banded
	Total      int     `yaml:"total"`
	KeepRecent int     `yaml:"keep_recent"`
	Target     float64 `yaml:"target"`

	// ring
	Capacity int `yaml:"capacity"`
}

func DefaultConfig() Config {
	return Config{
		Policy:      PolicyTwoTier,
		MaxSteps:    DefaultMaxSteps,
		BailRadius:  DefaultBailRadius,
		Recent:      DefaultRecent,
		SparseEvery: DefaultSparseEvery,
		SparseCap:   DefaultSparseCap,
		Total:       DefaultTotal,
		KeepRecent:  DefaultKeepRecent,
		Target:      DefaultTarget,
		Capacity:    DefaultCapacity,
	}
}

func Policies() []string {
	return []string{PolicyPrecomputed, PolicyTwoTier, PolicyAgeBanded, PolicyRing}
}

func positive(name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("%w: trail %s must be positive, got %d", dynamo.ErrInvalidConfig, name, v)
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Policy {
	case PolicyPrecomputed:
		if err := positive("max_steps", c.MaxSteps); err != nil {
			return err
		}
		if !(c.BailRadius > 0) {
			return fmt.Errorf("%w: trail bail_radius must be positive, got %g", dynamo.ErrInvalidConfig, c.BailRadius)
		}
	case PolicyTwoTier:
		for _, f := range []struct {
			name string
			v    int
		}{{"recent", c.Recent}, {"sparse_every", c.SparseEvery}, {"sparse_cap", c.SparseCap}} {
			if err := positive(f.name, f.v); err != nil {
				return err
			}
		}
	case PolicyAgeBanded:
		if err := positive("total", c.Total); err != nil {
			return err
		}
		if c.KeepRecent < 0 {
			return fmt.Errorf("%w: trail keep_recent must not be negative", dynamo.ErrInvalidConfig)
		}
		if !(c.Target > 0 && c.Target < 1) {
			return fmt.Errorf("%w: trail target must be in (0,1), got %g", dynamo.ErrInvalidConfig, c.Target)
		}
		if float64(c.KeepRecent) >= c.Target*float64(c.Total) {
			return fmt.Errorf("%w: trail keep_recent %d does not fit in %g of total %d",
				dynamo.ErrInvalidConfig, c.KeepRecent, c.Target, c.Total)
		}
	case PolicyRing:
		if err := positive("capacity", c.Capacity); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q (available: %v)", dynamo.ErrUnknownPolicy, c.Policy, Policies())
	}
	return nil
}

// New builds the store selected by c.
func New(c Config) (Store, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Policy {
	case PolicyPrecomputed:
		return NewPrecomputed(c.MaxSteps, c.BailRadius), nil
	case PolicyTwoTier:
		return NewTwoTier(c.Recent, c.SparseEvery, c.SparseCap), nil
	case PolicyAgeBanded:
		return NewAgeBanded(c.Total, c.KeepRecent, c.Target), nil
	default:
		return NewRing(c.Capacity), nil
	}
}
