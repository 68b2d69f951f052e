package config

import (
	"fmt"
	"reflect"
	"strings"

	"route-publisher/core/database"
	"route-publisher/core/logger"
	"route-publisher/core/publish"
	"route-publisher/core/routestore"
	"route-publisher/core/server"
	"route-publisher/core/storage"
	"route-publisher/core/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrConfiguration is returned (wrapped) by Validate.
var ErrConfiguration = utils.ErrConfiguration

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the blob storage (S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the page database connection.
	Database database.Config `mapstructure:"database"`
	// Cache holds configuration for the routing key-value store.
	Cache routestore.Config `mapstructure:"cache"`
	// Publish holds the publish/verify retry policy and routing settings.
	Publish publish.Config `mapstructure:"publish"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. CACHE_ADDRESS -> cache.address)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate reports settings that make the service unusable.
// Every returned error wraps ErrConfiguration.
func (c *Config) Validate() error {
	var problems []string

	if c.Cache.Driver == routestore.DriverRedis && c.Cache.Address == "" {
		problems = append(problems, "cache.address is required for the redis driver")
	}
	if c.Cache.Driver != routestore.DriverRedis && c.Cache.Driver != routestore.DriverMemory {
		problems = append(problems, fmt.Sprintf("unknown cache.driver %q", c.Cache.Driver))
	}
	if c.Database.Name == "" {
		problems = append(problems, "database.name is required")
	}
	if c.Storage.Bucket == "" {
		problems = append(problems, "storage.bucket is required")
	}
	if c.Publish.MaxRetries <= 0 {
		problems = append(problems, "publish.max_retries must be positive")
	}
	if c.Publish.TTLSeconds <= 0 {
		problems = append(problems, "publish.ttl_seconds must be positive")
	}
	if c.Publish.BaseDomain == "" {
		problems = append(problems, "publish.base_domain is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// bindValues walks the struct and registers every 'mapstructure' key in Viper
// with its 'default' tag value.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
