package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	"connpass-mcp/internal/connpass"
)

// Transports the server can speak.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type Config struct {
	Connpass Connpass `yaml:"connpass"`
	Server   Server   `yaml:"server"`
	Log      Log      `yaml:"log"`
}

type Connpass struct {
	API struct {
		Key string `yaml:"key" env:"CONNPASS_API_KEY, overwrite"`
	} `yaml:"api"`
	Nickname string        `yaml:"nickname" env:"CONNPASS_NICKNAME, overwrite"`
	BaseURL  string        `yaml:"base_url" env:"CONNPASS_BASE_URL, overwrite"`
	Timeout  time.Duration `yaml:"timeout" env:"CONNPASS_TIMEOUT, overwrite"`
}

type Server struct {
	Transport string `yaml:"transport" env:"MCP_TRANSPORT, overwrite"`
	Addr      string `yaml:"addr" env:"MCP_ADDR, overwrite"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL, overwrite"`
}

// Options select the optional sources Load reads on top of the defaults.
type Options struct {
	// File is a YAML config file. Empty means none.
	File string
	// EnvFile is a dotenv file. Its values lose to variables already in the environment.
	EnvFile string
	// Lookuper replaces the process environment, for tests.
	Lookuper envconfig.Lookuper
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	var c Config
	c.Connpass.BaseURL = connpass.DefaultBaseURL
	c.Connpass.Timeout = connpass.DefaultTimeout
	c.Server.Transport = TransportStdio
	c.Server.Addr = ":8080"
	c.Log.Level = "info"
	return c
}

// Load builds the configuration once at startup. Sources, lowest precedence
// first: defaults, the YAML file, the dotenv file, the environment.
func Load(ctx context.Context, opts Options) (Config, error) {
	c := Default()

	if opts.File != "" {
		b, err := os.ReadFile(opts.File)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", opts.File, err)
		}
	}

	lookuper := opts.Lookuper
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}
	if opts.EnvFile != "" {
		vars, err := godotenv.Read(opts.EnvFile)
		if err != nil {
			return Config{}, fmt.Errorf("read env file: %w", err)
		}
		lookuper = envconfig.MultiLookuper(lookuper, envconfig.MapLookuper(vars))
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &c,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		errs = append(errs, fmt.Errorf("server.transport must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Server.Transport))
	}
	if c.Server.Transport == TransportHTTP && c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required for the http transport"))
	}
	if c.Connpass.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("connpass.timeout must be positive, got %s", c.Connpass.Timeout))
	}
	return errors.Join(errs...)
}

// Credentials returns the search API credentials.
func (c Config) Credentials() connpass.Credentials {
	return connpass.Credentials{
		APIKey:   c.Connpass.API.Key,
		Nickname: c.Connpass.Nickname,
	}
}
