package main

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/datapod/health-parser/storage"
)

type Config struct {
	DBDialect    string `yaml:"db_dialect" env:"DB_DIALECT" env-default:"postgres"`
	DBURI        string `yaml:"db_uri" env:"DB_URI"`
	SQSURI       string `yaml:"sqs_uri" env:"SQS_URI"`
	AWSRegion    string `yaml:"aws_region" env:"AWS_REGION" env-default:"ap-northeast-1"`
	TableRoot    string `yaml:"table_root" env:"TABLE_ROOT" env-default:"./tables"`
	WorkDir      string `yaml:"work_dir" env:"WORK_DIR" env-default:"/tmp/health-parser"`
	SentryDSN    string `yaml:"sentry_dsn" env:"SENTRY_DSN"`
	SentryEnv    string `yaml:"sentry_env" env:"SENTRY_ENV"`
	CacheSize    int    `yaml:"cache_size" env:"CACHE_SIZE" env-default:"64"`
	KeepVersions int    `yaml:"keep_versions" env:"KEEP_VERSIONS" env-default:"3"`

	Layout storage.Layout `yaml:"layout"`
}

// LoadConfig reads an optional YAML file, then the environment on top of it.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if cfg.KeepVersions < 1 {
		return nil, fmt.Errorf("config: KEEP_VERSIONS must be at least 1, got %d", cfg.KeepVersions)
	}
	return &cfg, nil
}
