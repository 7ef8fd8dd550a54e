package cmd

import "fulfillment/internal/config"

// Config is the process configuration.
type Config = config.Config

// LoadConfig reads the configuration from defaults, the optional YAML file, .env, the
// environment and args, in that order of precedence.
func LoadConfig(args []string) (Config, error) {
	return config.Load(args)
}
