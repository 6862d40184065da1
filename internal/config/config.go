package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Auth struct {
		HeaderKey   string `yaml:"headerKey"`
		HeaderValue string `yaml:"headerValue"`
	} `yaml:"auth"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		CSVPath        string `yaml:"csvPath"`
		ReloadInterval string `yaml:"reloadInterval"`
	} `yaml:"quiz"`
	Game struct {
		MaxRounds    int    `yaml:"maxRounds"`
		RoundTimeout string `yaml:"roundTimeout"`
	} `yaml:"game"`
	Notify struct {
		EventAPIURL string `yaml:"eventApiUrl"`
		Timeout     string `yaml:"timeout"`
	} `yaml:"notify"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or
// malformed.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
