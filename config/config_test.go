package config

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/kbukum/container/errors"
)

type appConfig struct {
	ServiceConfig `mapstructure:",squash"`
	Server        struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"server"`
	Databases map[string]struct {
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"databases"`
}

const sampleYAML = `
name: containerd
environment: staging
logging:
  level: debug
  format: json
server:
  host: 127.0.0.1
  port: 8080
databases:
  primary:
    driver: sqlite
    dsn: app.db
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yml", sampleYAML)

	var cfg appConfig
	files, err := LoadConfig("containerd", &cfg, WithSearchDirs(dir))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if files.ConfigFile != filepath.Join(dir, "config.yml") {
		t.Errorf("unexpected config file %q", files.ConfigFile)
	}
	if cfg.Name != "containerd" || cfg.Environment != EnvStaging {
		t.Errorf("unexpected service config: %+v", cfg.ServiceConfig)
	}
	if cfg.Logging.Level != "debug" || cfg.Server.Port != 8080 {
		t.Errorf("unexpected nested values: logging=%+v server=%+v", cfg.Logging, cfg.Server)
	}
	if cfg.Databases["primary"].DSN != "app.db" {
		t.Errorf("expected map section to load, got %+v", cfg.Databases)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", sampleYAML)
	t.Setenv("CONTAINER_SERVER_PORT", "9090")
	t.Setenv("CONTAINER_DATABASES_PRIMARY_DSN", "override.db")

	var cfg appConfig
	if _, err := LoadConfig("containerd", &cfg, WithConfigFile(path), WithEnvPrefix("container")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected env to override port, got %d", cfg.Server.Port)
	}
	if cfg.Databases["primary"].DSN != "override.db" {
		t.Errorf("expected env to override dsn, got %q", cfg.Databases["primary"].DSN)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yml", sampleYAML)
	writeFile(t, dir, ".env", "CONTAINER_SERVER_HOST=0.0.0.0\n")
	t.Cleanup(func() { os.Unsetenv("CONTAINER_SERVER_HOST") })

	var cfg appConfig
	files, err := LoadConfig("containerd", &cfg, WithSearchDirs(dir), WithEnvPrefix("container"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if files.EnvFile != filepath.Join(dir, ".env") {
		t.Errorf("unexpected env file %q", files.EnvFile)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected .env to override host, got %q", cfg.Server.Host)
	}
}

func TestLoadConfigServiceEnvFileWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "A=1\n")
	writeFile(t, dir, ".env.containerd", "A=2\n")

	files := Resolve("containerd", LoaderConfig{SearchDirs: []string{dir}})
	if files.EnvFile != filepath.Join(dir, ".env.containerd") {
		t.Errorf("expected service env file, got %q", files.EnvFile)
	}
	if files.ConfigFile != "" {
		t.Errorf("expected no config file, got %q", files.ConfigFile)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	var cfg appConfig
	_, err := LoadConfig("containerd", &cfg, WithConfigFile(filepath.Join(t.TempDir(), "nope.yml")))
	if err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestServiceConfigDefaults(t *testing.T) {
	cfg := ServiceConfig{Name: "containerd"}
	cfg.ApplyDefaults()
	if cfg.Environment != EnvDevelopment || !cfg.Debug {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Logging.ServiceName != "containerd" {
		t.Errorf("expected service name propagated to logging, got %q", cfg.Logging.ServiceName)
	}

	prod := ServiceConfig{Name: "containerd", Environment: EnvProduction}
	prod.ApplyDefaults()
	if prod.Debug {
		t.Error("expected debug=false for production")
	}
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: EnvStaging}, false},
		{"missing name", ServiceConfig{Environment: EnvProduction}, true},
		{"bad environment", ServiceConfig{Name: "svc", Environment: "qa"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.ApplyDefaults()
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr && !apperrors.IsInvalidArgument(err) {
				t.Errorf("expected INVALID_ARGUMENT, got %v", err)
			}
		})
	}
}
