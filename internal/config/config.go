package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"hvac-dashboard/internal/common"
)

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			GRPCPort:     9090,
			ReadTimeout:  "15s",
			WriteTimeout: "30s",
		},
		API: APIConfig{
			DefaultBaseURL: "http://localhost:8000/api",
			TenantHost:     "localhost:8000",
			Timeout:        "30s",
			RetryCount:     2,
			LoginPath:      "/auth/login/",
			SensorsPath:    "/sensors/status/",
		},
		Storage: StorageConfig{
			Backend:          "memory",
			BasePath:         "./data",
			DefaultNamespace: common.DefaultNamespace,
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		Sensors: SensorsConfig{
			Source: "api",
			Table:  "sensor_status",
		},
		Auth: AuthConfig{
			JWTIssuer: "hvac-dashboard",
			TokenTTL:  "1h",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnvString("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvInt("SERVER_PORT", c.Server.Port)
	c.Server.GRPCPort = getEnvInt("GRPC_PORT", c.Server.GRPCPort)
	c.Server.ReadTimeout = getEnvString("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvString("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)

	c.API.DefaultBaseURL = getEnvString("API_BASE_URL", c.API.DefaultBaseURL)
	c.API.TenantHost = getEnvString("TENANT_HOST", c.API.TenantHost)
	c.API.Timeout = getEnvString("API_TIMEOUT", c.API.Timeout)
	c.API.RetryCount = getEnvInt("API_RETRY_COUNT", c.API.RetryCount)
	c.API.LoginPath = getEnvString("API_LOGIN_PATH", c.API.LoginPath)
	c.API.SensorsPath = getEnvString("API_SENSORS_PATH", c.API.SensorsPath)

	c.Storage.Backend = getEnvString("STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.BasePath = getEnvString("STORAGE_BASE_PATH", c.Storage.BasePath)
	c.Storage.DefaultNamespace = getEnvString("STORAGE_DEFAULT_NAMESPACE", c.Storage.DefaultNamespace)
	c.Storage.S3.Bucket = getEnvString("S3_BUCKET", c.Storage.S3.Bucket)
	c.Storage.S3.Region = getEnvString("S3_REGION", c.Storage.S3.Region)
	c.Storage.S3.Prefix = getEnvString("S3_PREFIX", c.Storage.S3.Prefix)

	c.Sensors.Source = getEnvString("SENSORS_SOURCE", c.Sensors.Source)
	c.Sensors.DSN = getEnvString("SENSORS_DSN", c.Sensors.DSN)
	c.Sensors.Table = getEnvString("SENSORS_TABLE", c.Sensors.Table)

	c.Auth.JWTSecret = getEnvString("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.JWTIssuer = getEnvString("JWT_ISSUER", c.Auth.JWTIssuer)
	c.Auth.TokenTTL = getEnvString("TOKEN_TTL", c.Auth.TokenTTL)

	c.Logging.Level = getEnvString("LOG_LEVEL", c.Logging.Level)
	c.Logging.Output = getEnvString("LOG_OUTPUT", c.Logging.Output)
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Duration parses a duration field, falling back when it is empty or invalid
func Duration(value string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	return fallback
}

// String returns a pretty-printed JSON representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("invalid grpc port: %d", c.Server.GRPCPort)
	}

	if c.API.DefaultBaseURL == "" {
		return fmt.Errorf("api default base url is required")
	}

	if c.API.TenantHost == "" {
		return fmt.Errorf("api tenant host is required")
	}

	switch c.Storage.Backend {
	case "memory", "local":
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket is required for the s3 storage backend")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s", c.Storage.Backend)
	}

	switch c.Sensors.Source {
	case "api":
	case "sql":
		if c.Sensors.DSN == "" {
			return fmt.Errorf("sensors dsn is required for the sql source")
		}
	default:
		return fmt.Errorf("invalid sensors source: %s", c.Sensors.Source)
	}

	return nil
}
