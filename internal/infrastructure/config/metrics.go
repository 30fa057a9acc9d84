package config

// MetricsConfig holds metrics collection and exposure configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Addr the Prometheus endpoint listens on, host:port
	Addr string `mapstructure:"addr" validate:"required_if=Enabled true"`

	Path string `mapstructure:"path"`
}
