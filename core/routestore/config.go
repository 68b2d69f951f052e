package routestore

const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config holds configuration for the routing key-value store.
type Config struct {
	// Driver selects the backend (redis, memory).
	Driver string `mapstructure:"driver" default:"redis"`
	// Address is host:port or a redis:// / rediss:// URL.
	Address string `mapstructure:"address" default:"localhost:6379"`
	// Username for ACL authentication.
	Username string `mapstructure:"username" default:""`
	// Password for authentication.
	Password string `mapstructure:"password" default:""`
	// DB is the logical database index.
	DB int `mapstructure:"db" default:"0"`
	// TimeoutSeconds bounds dial, read and write operations.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5"`
}
