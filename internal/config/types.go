package config

// Config holds the configuration for the dashboard server and CLI
type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server"`
	API     APIConfig     `yaml:"api" json:"api"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Sensors SensorsConfig `yaml:"sensors" json:"sensors"`
	Auth    AuthConfig    `yaml:"auth" json:"auth"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ServerConfig contains configuration for the HTTP and gRPC listeners
type ServerConfig struct {
	Host         string `yaml:"host" json:"host"`
	Port         int    `yaml:"port" json:"port"`
	GRPCPort     int    `yaml:"grpc_port" json:"grpc_port"`
	ReadTimeout  string `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout" json:"write_timeout"`
}

// APIConfig describes the upstream building-management REST API
type APIConfig struct {
	DefaultBaseURL string `yaml:"default_base_url" json:"default_base_url"`
	// TenantHost is the host used to synthesize http://{slug}.{host}/api
	TenantHost  string `yaml:"tenant_host" json:"tenant_host"`
	Timeout     string `yaml:"timeout" json:"timeout"`
	RetryCount  int    `yaml:"retry_count" json:"retry_count"`
	LoginPath   string `yaml:"login_path" json:"login_path"`
	SensorsPath string `yaml:"sensors_path" json:"sensors_path"`
}

// StorageConfig contains settings for the namespaced session storage
type StorageConfig struct {
	Backend          string   `yaml:"backend" json:"backend"` // memory, local, s3
	BasePath         string   `yaml:"base_path" json:"base_path"`
	DefaultNamespace string   `yaml:"default_namespace" json:"default_namespace"`
	S3               S3Config `yaml:"s3" json:"s3"`
}

// S3Config for S3 storage backend
type S3Config struct {
	Bucket string `yaml:"bucket" json:"bucket"`
	Region string `yaml:"region" json:"region"`
	Prefix string `yaml:"prefix" json:"prefix"`
}

// SensorsConfig selects where sensor status records come from
type SensorsConfig struct {
	Source string `yaml:"source" json:"source"` // api, sql
	DSN    string `yaml:"dsn" json:"-"`
	Table  string `yaml:"table" json:"table"`
}

// AuthConfig contains settings for locally minted development tokens
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" json:"-"`
	JWTIssuer string `yaml:"jwt_issuer" json:"jwt_issuer"`
	TokenTTL  string `yaml:"token_ttl" json:"token_ttl"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug, info, warn, error
	Output string `yaml:"output" json:"output"` // file path, empty for stdout
}
