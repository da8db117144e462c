package config

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Env              string `mapstructure:"ENV"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
	DataDir          string `mapstructure:"DATA_DIR"`
	PatientFile      string `mapstructure:"PATIENT_FILE"`
	DoctorFile       string `mapstructure:"DOCTOR_FILE"`
	AdminFile        string `mapstructure:"ADMIN_FILE"`
	RegistrationFile string `mapstructure:"REGISTRATION_FILE"`
	AppointmentFile  string `mapstructure:"APPOINTMENT_FILE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults match the file names existing installations already use.
	v.SetDefault("ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATA_DIR", ".")
	v.SetDefault("PATIENT_FILE", "credentials.txt")
	v.SetDefault("DOCTOR_FILE", "userIdDB.txt")
	v.SetDefault("ADMIN_FILE", "userIDB.txt")
	v.SetDefault("REGISTRATION_FILE", "admin.txt")
	v.SetDefault("APPOINTMENT_FILE", "appointments.txt")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("DATA_DIR")
	v.BindEnv("PATIENT_FILE")
	v.BindEnv("DOCTOR_FILE")
	v.BindEnv("ADMIN_FILE")
	v.BindEnv("REGISTRATION_FILE")
	v.BindEnv("APPOINTMENT_FILE")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Level parses LOG_LEVEL into a zerolog level.
func (c *Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Path resolves a table file name against DATA_DIR. Absolute names are
// returned unchanged.
func (c *Config) Path(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(c.DataDir, name)
}

// Validate checks that every table has a file and that no two tables share
// one. Two kinds written to one file would corrupt each other's rows.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}

	files := []struct {
		key  string
		name string
	}{
		{"PATIENT_FILE", c.PatientFile},
		{"DOCTOR_FILE", c.DoctorFile},
		{"ADMIN_FILE", c.AdminFile},
		{"REGISTRATION_FILE", c.RegistrationFile},
		{"APPOINTMENT_FILE", c.AppointmentFile},
	}
	seen := make(map[string]string, len(files))
	for _, f := range files {
		if f.name == "" {
			return fmt.Errorf("%s must not be empty", f.key)
		}
		p := c.Path(f.name)
		if other, ok := seen[p]; ok {
			return fmt.Errorf("%s and %s both point at %s", other, f.key, p)
		}
		seen[p] = f.key
	}
	return nil
}
