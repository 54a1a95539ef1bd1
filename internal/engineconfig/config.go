// Package engineconfig loads the tunables RulesEngine otherwise hardcodes
// as package constants: the state-based-action fixed-point iteration
// bound, opening hand size, and starting life total. It follows the
// stateless viper.New() pattern (one *viper.Viper per load, never the
// package-global viper instance) rather than threading a shared
// singleton through every caller.
package engineconfig

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds every value StartGame/sba.Run would otherwise hardcode.
// Zero values are never valid; Load and Default always return a Config
// with every field populated from a default, a config file, or an
// environment variable, in that order of increasing precedence.
type Config struct {
	// SBAMaxIterations bounds sba.Run's fixed-point loop (CR 704). The
	// teacher's equivalent constant never shipped a way to raise it for a
	// ruleset with unusually long convergence chains (layered anthem
	// effects, a board full of persist creatures) without a recompile.
	SBAMaxIterations int `mapstructure:"sba_max_iterations"`

	// OpeningHandSize is the number of cards StartGame deals each player
	// before turn one (CR 103.4); some formats (Commander, Two-Headed
	// Giant front-loaded hands) deal a different count.
	OpeningHandSize int `mapstructure:"opening_hand_size"`

	// StartingLife is the life total NewPlayer assigns (CR 103.3); 20 for
	// most constructed formats, 30+ for Commander/multiplayer variants.
	StartingLife int `mapstructure:"starting_life"`
}

const envPrefix = "RULESENGINE"

// Default returns the configuration matching the engine's historical
// hardcoded constants, used whenever no config file or environment
// override is present.
func Default() *Config {
	return &Config{
		SBAMaxIterations: 64,
		OpeningHandSize:  7,
		StartingLife:     20,
	}
}

// Load reads configPath (if non-empty) as a viper-supported config file
// (YAML, JSON, TOML inferred from the extension), layers RULESENGINE_*
// environment variable overrides on top, and falls back to Default for
// any key neither source sets. A missing configPath is not an error: an
// engine with no file on disk runs on defaults and environment overrides
// alone.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("sba_max_iterations", def.SBAMaxIterations)
	v.SetDefault("opening_hand_size", def.OpeningHandSize)
	v.SetDefault("starting_life", def.StartingLife)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
