package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
}

// RedisConfig is optional: an empty Addr keeps rate-limit counters in memory.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	JWT struct {
		Secret string `yaml:"secret"`
	} `yaml:"jwt"`
	Auth struct {
		PasswordMinLen int `yaml:"password_min_len"`
	} `yaml:"auth"`
	TOTP struct {
		Issuer string `yaml:"issuer"`
	} `yaml:"totp"`
	CORS struct {
		Origin string `yaml:"origin"`
	} `yaml:"cors"`
	Email EmailConfig `yaml:"email"`
	Redis RedisConfig `yaml:"redis"`
}

func LoadConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	return LoadConfigFrom(path)
}

func LoadConfigFrom(path string) *Config {
	f, err := os.Open(path)
	if err != nil {
		panic("Failed to open " + path + ": " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse " + path + ": " + err.Error())
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Auth.PasswordMinLen == 0 {
		cfg.Auth.PasswordMinLen = 8
	}
	if cfg.TOTP.Issuer == "" {
		cfg.TOTP.Issuer = "SecureLogin"
	}
	if cfg.CORS.Origin == "" {
		cfg.CORS.Origin = "http://localhost:3001"
	}
	return &cfg
}
