package config

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func validConfig() *Config {
	return &Config{
		Env:              "production",
		LogLevel:         "info",
		DataDir:          ".",
		PatientFile:      "credentials.txt",
		DoctorFile:       "userIdDB.txt",
		AdminFile:        "userIDB.txt",
		RegistrationFile: "admin.txt",
		AppointmentFile:  "appointments.txt",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Env != "production" {
		t.Errorf("expected default env production, got %s", cfg.Env)
	}
	if cfg.DataDir != "." {
		t.Errorf("expected default data dir '.', got %s", cfg.DataDir)
	}
	if cfg.PatientFile != "credentials.txt" {
		t.Errorf("expected default patient file credentials.txt, got %s", cfg.PatientFile)
	}
	if cfg.DoctorFile != "userIdDB.txt" {
		t.Errorf("expected default doctor file userIdDB.txt, got %s", cfg.DoctorFile)
	}
	if cfg.AdminFile != "userIDB.txt" {
		t.Errorf("expected default admin file userIDB.txt, got %s", cfg.AdminFile)
	}
	if cfg.RegistrationFile != "admin.txt" {
		t.Errorf("expected default registration file admin.txt, got %s", cfg.RegistrationFile)
	}
	if cfg.AppointmentFile != "appointments.txt" {
		t.Errorf("expected default appointment file appointments.txt, got %s", cfg.AppointmentFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/clinic")
	t.Setenv("APPOINTMENT_FILE", "appts.csv")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataDir != "/var/lib/clinic" {
		t.Errorf("expected DATA_DIR from env, got %s", cfg.DataDir)
	}
	if cfg.AppointmentFile != "appts.csv" {
		t.Errorf("expected APPOINTMENT_FILE from env, got %s", cfg.AppointmentFile)
	}
	if lvl, _ := cfg.Level(); lvl != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %s", lvl)
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}

func TestConfig_Path(t *testing.T) {
	c := validConfig()
	c.DataDir = "data"

	if got := c.Path("admin.txt"); got != filepath.Join("data", "admin.txt") {
		t.Errorf("unexpected path %s", got)
	}
	abs := filepath.Join(string(filepath.Separator), "srv", "appointments.txt")
	if got := c.Path(abs); got != abs {
		t.Errorf("absolute path should be kept, got %s", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
		{"empty patient file", func(c *Config) { c.PatientFile = "" }, true},
		{"empty appointment file", func(c *Config) { c.AppointmentFile = "" }, true},
		{"shared file", func(c *Config) { c.AdminFile = c.RegistrationFile }, true},
		{"shared after cleaning", func(c *Config) { c.DoctorFile = "./credentials.txt" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
