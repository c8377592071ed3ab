package client

import (
	"time"
)

// DefaultConfigName is the distinguished property record applied to
// every client before its own record.
const DefaultConfigName = "default"

// Config is one partial property record for a scope id. Pointer fields
// distinguish "unset" from zero values; unset fields never overwrite a
// value resolved earlier. Capability-valued fields reference registered
// capabilities by name.
type Config struct {
	LogLevel        *string        `mapstructure:"log_level"`
	ConnectTimeout  *time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout     *time.Duration `mapstructure:"read_timeout"`
	FollowRedirects *bool          `mapstructure:"follow_redirects"`
	Retryer         *string        `mapstructure:"retryer"`
	ErrorDecoder    *string        `mapstructure:"error_decoder"`
	Encoder         *string        `mapstructure:"encoder"`
	Decoder         *string        `mapstructure:"decoder"`
	Contract        *string        `mapstructure:"contract"`
	QueryEncoder    *string        `mapstructure:"query_encoder"`
	Decode404       *bool          `mapstructure:"decode_404"`
	// Propagation is "none" or "unwrap".
	Propagation *string `mapstructure:"exception_propagation"`
	// Interceptors name registered interceptor capabilities, appended to
	// the scope-sourced chain in order.
	Interceptors []string `mapstructure:"interceptors"`
	// DefaultRequestHeaders are added to every request of the client.
	DefaultRequestHeaders map[string][]string `mapstructure:"default_request_headers"`
	// DefaultQueryParameters are added to every request of the client.
	DefaultQueryParameters map[string][]string `mapstructure:"default_query_parameters"`
}

// Properties is the property config source: records keyed by scope id
// plus the global source-precedence switch.
type Properties struct {
	// PreferProperties makes property records win over scope-sourced
	// capabilities for fields present in both.
	PreferProperties bool `mapstructure:"prefer_properties"`
	// DefaultConfig names the record applied to every client. Defaults
	// to "default".
	DefaultConfig string `mapstructure:"default_config"`
	// Clients maps scope ids to their records.
	Clients map[string]*Config `mapstructure:"clients"`
}

// ApplyDefaults fills unset top-level fields.
func (p *Properties) ApplyDefaults() {
	if p.DefaultConfig == "" {
		p.DefaultConfig = DefaultConfigName
	}
}

// Get returns the record for the scope id, or nil when absent.
func (p *Properties) Get(scopeID string) *Config {
	if p == nil || p.Clients == nil {
		return nil
	}
	return p.Clients[scopeID]
}

// Default returns the distinguished default record, or nil when absent.
func (p *Properties) Default() *Config {
	if p == nil {
		return nil
	}
	name := p.DefaultConfig
	if name == "" {
		name = DefaultConfigName
	}
	return p.Get(name)
}
