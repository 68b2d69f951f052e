package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// PublicScheme is the scheme used when building test URLs for published hosts.
	PublicScheme string `mapstructure:"public_scheme" default:"https"`
}

const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

// IsValidScheme checks if the configured public scheme is supported.
func (c Config) IsValidScheme() bool {
	switch c.PublicScheme {
	case SchemeHTTP, SchemeHTTPS:
		return true
	default:
		return false
	}
}

// TestURL returns the URL an operator can open to see what a host serves.
func (c Config) TestURL(host string) string {
	scheme := c.PublicScheme
	if !c.IsValidScheme() {
		scheme = SchemeHTTPS
	}
	return scheme + "://" + host + "/"
}
