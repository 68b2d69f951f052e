package publish

import "time"

// Config holds the publish policy.
type Config struct {
	// BaseDomain is the parent domain of every page's primary host ({slug}.{base_domain}).
	BaseDomain string `mapstructure:"base_domain" default:"sites.localhost"`
	// MaxRetries is the number of write+verify attempts per publish.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// BaseDelayMs is the backoff before the second attempt; it doubles afterwards.
	BaseDelayMs int `mapstructure:"base_delay_ms" default:"1000"`
	// TTLSeconds is the lifetime of every route entry.
	TTLSeconds int `mapstructure:"ttl_seconds" default:"31536000"`
}

// RetryOptions converts the config into coordinator retry options.
func (c Config) RetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries: c.MaxRetries,
		BaseDelay:  time.Duration(c.BaseDelayMs) * time.Millisecond,
	}
}

// TTL returns the route entry lifetime.
func (c Config) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}
