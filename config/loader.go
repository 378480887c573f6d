package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/container/logger"
)

// LoaderConfig holds optional overrides for LoadConfig.
type LoaderConfig struct {
	ConfigFile string
	EnvFile    string
	EnvPrefix  string
	SearchDirs []string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix sets the prefix environment overrides must carry, so
// CONTAINER_SERVER_PORT overrides server.port for prefix "container".
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// WithSearchDirs replaces the directories searched for config.yml and .env.
func WithSearchDirs(dirs ...string) LoaderOption {
	return func(lc *LoaderConfig) { lc.SearchDirs = dirs }
}

// ResolvedFiles contains the config and env file paths LoadConfig used.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

func defaultSearchDirs(serviceName string) []string {
	return []string{
		"./cmd/" + serviceName,
		"./config",
		".",
	}
}

// Resolve finds the config and env files for serviceName. Explicit paths win;
// otherwise the first config.yml and the first .env.<service> or .env found in
// the search directories are used.
func Resolve(serviceName string, lc LoaderConfig) ResolvedFiles {
	dirs := lc.SearchDirs
	if len(dirs) == 0 {
		dirs = defaultSearchDirs(serviceName)
	}

	files := ResolvedFiles{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = firstExisting(dirs, "config.yml", "config.yaml")
	}
	if files.EnvFile == "" {
		files.EnvFile = firstExisting(dirs, ".env."+serviceName, ".env")
	}
	return files
}

func firstExisting(dirs []string, names ...string) string {
	for _, name := range names {
		for _, dir := range dirs {
			path := dir + "/" + name
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// LoadConfig reads YAML config for serviceName into cfg, then applies
// environment overrides. Variables from the .env file are loaded first and
// never replace variables already set in the process.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) (ResolvedFiles, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	files := Resolve(serviceName, lc)
	log := logger.WithComponent("config")

	if files.EnvFile != "" {
		if err := godotenv.Load(files.EnvFile); err != nil {
			log.Warn("Failed to load env file", logger.Fields("file", files.EnvFile, logger.FieldError, err.Error()))
		}
	}

	v := viper.New()
	if files.ConfigFile != "" {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return files, fmt.Errorf("read config %s: %w", files.ConfigFile, err)
		}
	}

	if lc.EnvPrefix != "" {
		v.SetEnvPrefix(lc.EnvPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindPrefixedEnv(v, lc.EnvPrefix)

	if err := v.Unmarshal(cfg); err != nil {
		return files, fmt.Errorf("unmarshal config for %s: %w", serviceName, err)
	}

	log.Debug("Configuration loaded", logger.Fields("config_file", files.ConfigFile, "env_file", files.EnvFile))
	return files, nil
}

// bindPrefixedEnv sets keys for prefixed variables whose key is absent from
// the config file, which AutomaticEnv alone cannot discover. PREFIX_A_B maps to
// a.b; keys already known to viper are left to AutomaticEnv.
func bindPrefixedEnv(v *viper.Viper, prefix string) {
	if prefix == "" {
		return
	}
	known := make(map[string]bool)
	for _, k := range v.AllKeys() {
		known[k] = true
	}
	head := strings.ToUpper(prefix) + "_"
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, head) {
			continue
		}
		key := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(name, head), "_", "."))
		if !known[key] {
			v.Set(key, value)
		}
	}
}
