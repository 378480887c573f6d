// Package config loads service configuration with Viper.
//
// LoadConfig reads config.yml from ./cmd/<service>, ./config or the working
// directory, loads a .env file alongside it with godotenv, and applies
// environment overrides before unmarshalling:
//
//	var cfg bootstrap.Config
//	_, err := config.LoadConfig("containerd", &cfg, config.WithEnvPrefix("container"))
//
// Override keys map dots to underscores: CONTAINER_SERVER_PORT sets
// server.port.
package config
