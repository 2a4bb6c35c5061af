package objectstore

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"percept/internal/spec"
)

// Environment variables that carry object store credentials and overrides.
const (
	EnvEndpoint  = "PERCEPT_MINIO_ENDPOINT"
	EnvAccessKey = "PERCEPT_MINIO_ACCESS_KEY"
	EnvSecretKey = "PERCEPT_MINIO_SECRET_KEY"
	EnvRegion    = "PERCEPT_MINIO_REGION"
	EnvUseSSL    = "PERCEPT_MINIO_USE_SSL"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// ConfigFromEnv layers environment overrides and credentials over the
// study file's object_store section.
func ConfigFromEnv(base spec.ObjectStoreConfig) (Config, error) {
	region := base.Region
	if region == "" {
		region = "us-east-1"
	}
	useSSL, err := envBool(EnvUseSSL, base.UseSSL)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Endpoint:  envString(EnvEndpoint, base.Endpoint),
		AccessKey: envString(EnvAccessKey, ""),
		SecretKey: envString(EnvSecretKey, ""),
		Region:    envString(EnvRegion, region),
		UseSSL:    useSSL,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint is required")
	}
	if strings.TrimSpace(c.AccessKey) == "" {
		return fmt.Errorf("access key is required (set %s)", EnvAccessKey)
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return fmt.Errorf("secret key is required (set %s)", EnvSecretKey)
	}
	if strings.TrimSpace(c.Region) == "" {
		return errors.New("region is required")
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("endpoint must not include scheme: %q", c.Endpoint)
	}
	return nil
}

func envString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}
