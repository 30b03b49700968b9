package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LogLevel represents the logging level
type LogLevel string

const (
	// LogLevelDebug represents debug level logging
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo represents info level logging
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn represents warn level logging
	LogLevelWarn LogLevel = "warn"
	// LogLevelError represents error level logging
	LogLevelError LogLevel = "error"
)

// LogFormat represents the logging output format
type LogFormat string

const (
	// LogFormatJSON represents JSON format logging
	LogFormatJSON LogFormat = "json"
	// LogFormatConsole represents human-readable console format logging
	LogFormatConsole LogFormat = "console"
)

// LogConfig holds configuration for application logging
type LogConfig struct {
	// Level is the minimum log level to output
	Level LogLevel `yaml:"level"`
	// Format is the log output format (json or console)
	Format LogFormat `yaml:"format"`
	// OutputPath is the path to the log file (empty for stdout)
	OutputPath string `yaml:"output_path"`
}

// DatabaseConfig holds the PostgreSQL connection settings
type DatabaseConfig struct {
	// Host is the database server host
	Host string `yaml:"host"`
	// Port is the database server port
	Port int `yaml:"port"`
	// User is the database user
	User string `yaml:"user"`
	// Password is the database password
	Password string `yaml:"password"`
	// Name is the database name
	Name string `yaml:"name"`
	// SSLMode is the libpq sslmode parameter
	SSLMode string `yaml:"ssl_mode"`
}

// DSN builds the libpq connection string for the configured database.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// ProviderConfig holds configuration for the chain data provider
type ProviderConfig struct {
	// RPCURL is the JSON-RPC endpoint URL
	RPCURL string `yaml:"rpc_url"`
	// WebsocketURL is the streaming endpoint URL
	WebsocketURL string `yaml:"websocket_url"`
	// APIKey is appended to both URLs when the provider keys by URL suffix
	APIKey string `yaml:"api_key"`
	// ChainID is the network chain ID
	ChainID int64 `yaml:"chain_id"`
}

// Config holds the application configuration
type Config struct {
	// Database holds the PostgreSQL connection settings
	Database DatabaseConfig `yaml:"database"`
	// Provider holds the chain data provider settings
	Provider ProviderConfig `yaml:"provider"`
	// MigrationsPath is the path to the migration files
	MigrationsPath string `yaml:"migrations_path"`
	// Log holds the logging configuration
	Log LogConfig `yaml:"log"`
}

// Validate checks that the settings required to run the indexer are present.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("missing POSTGRES_HOST")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("missing POSTGRES_DATABASE")
	}
	if c.Provider.RPCURL == "" {
		return fmt.Errorf("missing PROVIDER_URL")
	}
	if c.Provider.WebsocketURL == "" {
		return fmt.Errorf("missing PROVIDER_WEBSOCKET")
	}
	return nil
}

// LoadConfig loads the application configuration from a YAML file and
// environment variables. Environment variables win when no config file is
// found; inside the YAML file ${VAR:-default} references are interpolated.
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	config := &Config{}
	var yamlData []byte
	var err error

	configPaths := []string{
		os.Getenv("CONFIG_PATH"),
		".config.yaml",
		"../.config.yaml",
	}

	for _, path := range configPaths {
		if path == "" {
			continue
		}

		if yamlData, err = os.ReadFile(path); err == nil {
			break
		}
	}

	if err != nil {
		config = loadFromEnvironment()
	} else {
		interpolatedYaml := interpolateEnvVars(string(yamlData))
		if err := yaml.Unmarshal([]byte(interpolatedYaml), config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// interpolateEnvVars replaces environment variables with their values, supporting default values
func interpolateEnvVars(content string) string {
	// Match ${VAR:-default} and $VAR formats
	re := regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z0-9_]+)`)

	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := match
		defaultValue := ""

		varName = strings.TrimPrefix(varName, "${")
		varName = strings.TrimPrefix(varName, "$")
		varName = strings.TrimSuffix(varName, "}")

		if strings.Contains(varName, ":-") {
			parts := strings.SplitN(varName, ":-", 2)
			varName = parts[0]
			defaultValue = parts[1]
		}

		if value, exists := os.LookupEnv(varName); exists && value != "" {
			return value
		}

		return defaultValue
	})
}

// loadFromEnvironment creates a config from environment variables
func loadFromEnvironment() *Config {
	baseDir := os.Getenv("APP_BASE_DIR")
	if baseDir == "" {
		currentDir, _ := os.Getwd()
		baseDir = currentDir
	}

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     int(parseEnvInt("POSTGRES_PORT", 5432)),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: os.Getenv("POSTGRES_PASS"),
			Name:     getEnv("POSTGRES_DATABASE", "holdex"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Provider: ProviderConfig{
			RPCURL:       os.Getenv("PROVIDER_URL"),
			WebsocketURL: os.Getenv("PROVIDER_WEBSOCKET"),
			APIKey:       os.Getenv("PROVIDER_KEY"),
			ChainID:      parseEnvInt("CHAIN_ID", 1),
		},
		MigrationsPath: getEnv("MIGRATIONS_PATH", filepath.Join(baseDir, "migrations")),
		Log: LogConfig{
			Level:      LogLevel(getEnv("LOG_LEVEL", string(LogLevelInfo))),
			Format:     LogFormat(getEnv("LOG_FORMAT", string(LogFormatConsole))),
			OutputPath: os.Getenv("LOG_OUTPUT_PATH"),
		},
	}
}

// loadEnvFiles tries to load environment variables from .env files in multiple locations
func loadEnvFiles() {
	customEnvPath := os.Getenv("ENV_FILE")
	if customEnvPath != "" {
		if err := godotenv.Load(customEnvPath); err == nil {
			return
		}
	}

	if err := godotenv.Load(); err == nil {
		return
	}

	// Try the parent directory, useful when running from cmd/
	_ = godotenv.Load("../.env")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// parseEnvInt parses an integer from an environment variable
func parseEnvInt(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}
