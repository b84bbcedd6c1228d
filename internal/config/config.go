package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure. It contains
// settings for the environment, the Overpass client, and the database
// connection.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// Overpass contains all Overpass API client related configurations
	Overpass struct {
		// Endpoints is the prioritized list of Overpass instances to query
		Endpoints []string `env:"OVERPASS_ENDPOINTS" env-separator:"," yaml:"endpoints" env-default:"https://overpass-api.de/api/interpreter,https://overpass.kumi.systems/api/interpreter,https://maps.mail.ru/osm/tools/overpass/api/interpreter"` //nolint: lll
		// MaxAttempts is the number of delivery attempts per endpoint before failing over
		MaxAttempts int `env:"OVERPASS_MAX_ATTEMPTS" env-default:"3" yaml:"maxAttempts"`
		// RetryBaseDelay is the base of the escalating delay between attempts (base × attempt number)
		RetryBaseDelay time.Duration `env:"OVERPASS_RETRY_BASE_DELAY" env-default:"2s" yaml:"retryBaseDelay"`
		// RequestTimeout bounds a single HTTP request to an endpoint
		RequestTimeout time.Duration `env:"OVERPASS_REQUEST_TIMEOUT" env-default:"2m" yaml:"requestTimeout"`
		// QueryTimeout is the timeout in seconds declared inside the Overpass QL query itself
		QueryTimeout int `env:"OVERPASS_QUERY_TIMEOUT" env-default:"60" yaml:"queryTimeout"`
		// UserAgent is the descriptive client identifier sent with each request
		UserAgent string `env:"OVERPASS_USER_AGENT" env-default:"scout-poi-harvester/1.0" yaml:"userAgent"`
	} `yaml:"overpass"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"scout" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`
}

// Load receives the path for a yaml config file and returns a filled Config.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
