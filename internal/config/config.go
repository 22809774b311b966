package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the ETL and validator runs.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Inputs   InputsConfig   `yaml:"inputs"`
	AWS      AWSConfig      `yaml:"aws"`
}

// DatabaseConfig holds the warehouse connection string.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// InputsConfig holds the three export locations. Each accepts a local path
// or an s3://bucket/key URI.
type InputsConfig struct {
	Users    string `yaml:"users"`
	Brands   string `yaml:"brands"`
	Receipts string `yaml:"receipts"`
}

// AWSConfig holds settings for S3-hosted inputs.
type AWSConfig struct {
	Region  string `yaml:"region"`
	Profile string `yaml:"profile"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides. A
// .env file is loaded first if present; a missing config file is fine as
// long as the environment supplies what the run needs.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if os.IsNotExist(err) {
		cfg = &Config{}
		cfg.applyDefaults()
	} else if err != nil {
		return nil, err
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if v := os.Getenv("USERS_INPUT"); v != "" {
		cfg.Inputs.Users = v
	}
	if v := os.Getenv("BRANDS_INPUT"); v != "" {
		cfg.Inputs.Brands = v
	}
	if v := os.Getenv("RECEIPTS_INPUT"); v != "" {
		cfg.Inputs.Receipts = v
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		cfg.AWS.Region = region
	}
	if profile := os.Getenv("AWS_PROFILE"); profile != "" {
		cfg.AWS.Profile = profile
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Inputs.Users == "" {
		c.Inputs.Users = "data/users.json"
	}
	if c.Inputs.Brands == "" {
		c.Inputs.Brands = "data/brands.json"
	}
	if c.Inputs.Receipts == "" {
		c.Inputs.Receipts = "data/receipts.json"
	}
	if c.AWS.Region == "" {
		c.AWS.Region = "us-west-2"
	}
}
