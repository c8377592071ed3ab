package client

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/clientkit/logger"
)

// LoaderConfig holds optional file overrides for LoadProperties.
type LoaderConfig struct {
	// ConfigFile is an explicit YAML config path.
	ConfigFile string
	// EnvFile is an explicit .env path.
	EnvFile string
	// Prefix filters environment variables, e.g. "CLIENTKIT". Empty
	// disables env binding.
	Prefix string
}

// LoaderOption customizes LoadProperties.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.Prefix = prefix }
}

// LoadProperties reads the property config source from YAML, .env and
// environment variables. Files are searched in standard locations when
// no explicit path is given; a missing file is not an error, it just
// contributes nothing.
func LoadProperties(opts ...LoaderOption) (*Properties, error) {
	lc := LoaderConfig{Prefix: "CLIENTKIT"}
	for _, opt := range opts {
		opt(&lc)
	}

	configFile := lc.ConfigFile
	if configFile == "" {
		configFile = findFirst("./config/clients.yml", "./clients.yml", "./config.yml")
	}
	envFile := lc.EnvFile
	if envFile == "" {
		envFile = findFirst("./.env", "../.env")
	}

	if envFile != "" && exists(envFile) {
		if err := godotenv.Load(envFile); err != nil {
			logger.Warn("failed to load .env file", logger.ErrorFields(envFile, err))
		}
	}

	v := viper.New()
	if configFile != "" && exists(configFile) {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("client: read config %s: %w", configFile, err)
		}
	}

	if lc.Prefix != "" {
		v.SetEnvPrefix(lc.Prefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
		// Unmarshal only sees keys viper knows about, so the top-level
		// switches are bound explicitly.
		bindEnv(v, lc.Prefix, "prefer_properties")
		bindEnv(v, lc.Prefix, "default_config")
	}

	props := &Properties{}
	if err := v.Unmarshal(props); err != nil {
		return nil, fmt.Errorf("client: unmarshal properties: %w", err)
	}
	props.ApplyDefaults()
	return props, nil
}

func bindEnv(v *viper.Viper, prefix, key string) {
	env := prefix + "_" + strings.ToUpper(key)
	if val, ok := os.LookupEnv(env); ok {
		v.Set(key, val)
	}
}

func findFirst(paths ...string) string {
	for _, path := range paths {
		if exists(path) {
			return path
		}
	}
	return ""
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
