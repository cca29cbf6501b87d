// Package config provides configuration loading and validation for
// gridrange grids: axis sizes, an optional uniform fill value, and
// optional explicit initial cell values.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/gridrange/pkg/alg/lazygrid"
)

// Sentinel validation errors.
var (
	// ErrNoDims is returned when the configuration names no axes.
	ErrNoDims = errors.New("config: grid dims must not be empty")

	// ErrNonPositiveDim is returned when an axis size is zero or negative.
	ErrNonPositiveDim = errors.New("config: grid dims must be positive")

	// ErrValuesMismatch is returned when explicit values do not cover the
	// grid exactly.
	ErrValuesMismatch = errors.New("config: values length must equal the product of dims")
)

// envPrefix namespaces environment overrides (e.g. GRIDRANGE_FILL).
const envPrefix = "GRIDRANGE"

// defaultFill is the cell value used when neither fill nor values is set.
const defaultFill = int64(0)

// GridConfig describes how to construct a grid tree. When Values is
// empty, every cell starts at Fill; otherwise Values supplies the initial
// cells in row-major order and must match the grid size exactly.
type GridConfig struct {
	Dims   []int   `mapstructure:"dims"`
	Fill   int64   `mapstructure:"fill"`
	Values []int64 `mapstructure:"values"`
}

// Load reads a grid configuration from the given file (format inferred
// from the extension) and from GRIDRANGE_-prefixed environment variables.
// An empty path loads from defaults and environment only.
func Load(path string) (*GridConfig, error) {
	viperCfg := viper.New()
	viperCfg.SetDefault("fill", defaultFill)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	if path != "" {
		viperCfg.SetConfigFile(path)

		if err := viperCfg.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &GridConfig{}
	if err := viperCfg.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration invariants.
func (c *GridConfig) Validate() error {
	if len(c.Dims) == 0 {
		return ErrNoDims
	}

	cells := 1

	for _, d := range c.Dims {
		if d <= 0 {
			return ErrNonPositiveDim
		}

		cells *= d
	}

	if len(c.Values) != 0 && len(c.Values) != cells {
		return ErrValuesMismatch
	}

	return nil
}

// NewTree constructs the configured tree. Options are forwarded to
// [lazygrid.New].
func (c *GridConfig) NewTree(opts ...lazygrid.Option) (*lazygrid.Tree, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cells := 1
	for _, d := range c.Dims {
		cells *= d
	}

	values := c.Values
	if len(values) == 0 {
		values = make([]int64, cells)

		for i := range values {
			values[i] = c.Fill
		}
	}

	tree, err := lazygrid.New(values, c.Dims, opts...)
	if err != nil {
		return nil, fmt.Errorf("build grid: %w", err)
	}

	return tree, nil
}
