package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/container/bootstrap"
	"github.com/kbukum/container/config"
)

const serviceName = "containerd"

type rootFlags struct {
	configFile string
	envFile    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Named-instance registry for databases, caches and objects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file (default: search ./cmd/containerd, ./config, .)")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", "", ".env file loaded before the config")

	root.AddCommand(
		newServeCmd(flags),
		newEntriesCmd(flags),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the config file and CONTAINERD_* environment overrides.
func (f *rootFlags) loadConfig() (*bootstrap.Config, error) {
	cfg := &bootstrap.Config{}
	opts := []config.LoaderOption{config.WithEnvPrefix(serviceName)}
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}
	if _, err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	return cfg, nil
}
