// package config loads the gateway and advertiser settings from the
// environment and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/davseby/adgateway/internal/backend"
	"github.com/davseby/adgateway/internal/broadcast"
	"github.com/davseby/adgateway/internal/broker"
	"github.com/davseby/adgateway/internal/proxy"
	"golang.org/x/exp/slog"
)

// _fileEnv is the environment variable pointing to an optional YAML
// configuration file. Environment variables take precedence over the
// file values.
const _fileEnv = "CONFIG_FILE"

var (
	// ErrMissingRabbit is returned when the broker address is not
	// configured.
	ErrMissingRabbit = errors.New("broker address must be specified using RABBIT environment variable")

	// ErrRequestAdMessage is returned when the ad message equals the ad
	// request content. Such replies would be consumed as new requests.
	ErrRequestAdMessage = fmt.Errorf("ad message must not be %q", broadcast.RequestContent)
)

// Gateway holds the gateway settings.
type Gateway struct {
	// Port is the HTTP port to listen on.
	Port int `default:"3000" env:"PORT"`

	// Rabbit is the AMQP broker URL.
	Rabbit string `env:"RABBIT"`

	// LogLevel is the minimal level of the logged records.
	LogLevel string `default:"info" env:"LOG_LEVEL"`

	// RecordsLimit is the number of forwarded request records kept in
	// memory.
	RecordsLimit int `default:"100" env:"RECORDS_LIMIT"`

	Broker    broker.Config    `env:"BROKER"`
	Broadcast broadcast.Config `env:"BROADCAST"`
	Backends  backend.Config   `env:"BACKENDS"`
	Proxy     proxy.Config     `env:"PROXY"`
}

// Advertising holds the advertising service settings.
type Advertising struct {
	// Port is the HTTP port to listen on.
	Port int `default:"3000" env:"PORT"`

	// Rabbit is the AMQP broker URL.
	Rabbit string `env:"RABBIT"`

	// LogLevel is the minimal level of the logged records.
	LogLevel string `default:"info" env:"LOG_LEVEL"`

	// AdMessage is the content of every ad reply.
	AdMessage string `default:"Test ad message" env:"AD_MESSAGE"`

	Broker    broker.Config    `env:"BROKER"`
	Broadcast broadcast.Config `env:"BROADCAST"`
}

// LoadGateway loads the gateway settings.
func LoadGateway() (Gateway, error) {
	var cfg Gateway

	if err := load(&cfg); err != nil {
		return Gateway{}, err
	}

	if err := validate(cfg.Rabbit, cfg.Port, cfg.LogLevel); err != nil {
		return Gateway{}, err
	}

	return cfg, nil
}

// LoadAdvertising loads the advertising service settings.
func LoadAdvertising() (Advertising, error) {
	var cfg Advertising

	if err := load(&cfg); err != nil {
		return Advertising{}, err
	}

	if err := validate(cfg.Rabbit, cfg.Port, cfg.LogLevel); err != nil {
		return Advertising{}, err
	}

	if cfg.AdMessage == broadcast.RequestContent {
		return Advertising{}, ErrRequestAdMessage
	}

	return cfg, nil
}

// ParseLevel parses a log level name.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level

	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("parsing log level: %w", err)
	}

	return lvl, nil
}

// load fills dst with defaults, the optional file values and the
// environment values, in this order.
func load(dst interface{}) error {
	var files []string

	if file := os.Getenv(_fileEnv); file != "" {
		files = append(files, file)
	}

	loader := aconfig.LoaderFor(dst, aconfig.Config{
		SkipFlags:          true,
		AllowUnknownEnvs:   true,
		AllowUnknownFields: true,
		FailOnFileNotFound: len(files) > 0,
		Files:              files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
			".yml":  aconfigyaml.New(),
		},
	})

	if err := loader.Load(); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	return nil
}

// validate checks the settings shared by both services.
func validate(rabbit string, port int, level string) error {
	if rabbit == "" {
		return ErrMissingRabbit
	}

	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}

	if _, err := ParseLevel(level); err != nil {
		return err
	}

	return nil
}
