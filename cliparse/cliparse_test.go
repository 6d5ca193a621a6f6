// cliparse/cliparse_test.go
package cliparse

import (
	"testing"

	"github.com/spf13/pflag"
)

// parse binds the flags on a fresh set, parses args and resolves the result
func parse(args []string) (Config, error) {
	var cfg Config

	fs := pflag.NewFlagSet("seatcalc", pflag.ContinueOnError)
	BindFlags(fs, &cfg)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := Resolve(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func TestResolve_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("ADMIN_KEY_SALT", "test-salt")
	t.Setenv("ADMIN_USERNAME", "registrar")

	cfg, err := parse([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://test" {
		t.Errorf("expected database URL from env, got %q", cfg.DatabaseURL)
	}
	if cfg.AdminUsername != "registrar" {
		t.Errorf("expected admin user from env, got %q", cfg.AdminUsername)
	}
	if err := cfg.RequireServerSecrets(); err != nil {
		t.Errorf("expected secrets to be satisfied: %v", err)
	}
}

func TestResolve_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")

	cfg, err := parse([]string{"-p", "8080", "-d", "file:test.db", "--admin-salt", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.AdminKeySalt != "s1" {
		t.Errorf("expected admin salt s1, got %q", cfg.AdminKeySalt)
	}
}

func TestResolve_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADMIN_KEY_SALT", "")
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseSQLite {
		t.Errorf("expected sqlite by default, got %q", cfg.DatabaseType)
	}
	if cfg.DatabaseURL != "seatcalc.db" {
		t.Errorf("expected default sqlite file, got %q", cfg.DatabaseURL)
	}
	if cfg.AdminUsername != "admin" {
		t.Errorf("expected default admin user, got %q", cfg.AdminUsername)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected info log level, got %q", cfg.LogLevel)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("expected no allowed origins, got %v", cfg.AllowedOrigins)
	}
	if err := cfg.RequireServerSecrets(); err == nil {
		t.Error("expected missing ADMIN_KEY_SALT to be reported")
	}
}

func TestResolve_AllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("expected two origins from env, got %v", cfg.AllowedOrigins)
	}

	cfg, err = parse([]string{"--cors-origin", "https://c.example"})
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://c.example" {
		t.Errorf("CLI should override env, got %v", cfg.AllowedOrigins)
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"postgres without url", map[string]string{"DATABASE_TYPE": "postgres", "DATABASE_URL": ""}, nil},
		{"unknown database type", nil, []string{"-t", "mysql"}},
		{"bad port env", map[string]string{"PORT": "eighty"}, nil},
		{"unknown flag", nil, []string{"--nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := parse(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
