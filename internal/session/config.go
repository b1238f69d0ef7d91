package session

import (
	"fmt"

	"github.com/san-kum/swingby/internal/dynamo"
	"github.com/san-kum/swingby/internal/integrators"
	"github.com/san-kum/swingby/internal/trail"
)

// Config is everything a session reads at Initialize. It is not consulted
// again until the next Reset.
type Config struct {
	Run        dynamo.Config
	Integrator string
	Trail      trail.Config
}

func DefaultConfig() Config {
	return Config{
		Run:        dynamo.DefaultConfig(),
		Integrator: integrators.Default,
		Trail:      trail.DefaultConfig(),
	}
}

func (c Config) Validate() error {
	if err := c.Run.Validate(); err != nil {
		return err
	}
	if _, err := integrators.New(c.Integrator); err != nil {
		return err
	}
	if err := c.Trail.Validate(); err != nil {
		return fmt.Errorf("trail: %w", err)
	}
	return nil
}
