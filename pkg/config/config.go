// Copyright 2025 The fawa Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fawa-io/webpedge/pkg/fwlog"
)

type ServerConfig struct {
	Addr          string `mapstructure:"addr"`
	CertFile      string `mapstructure:"certFile"`
	KeyFile       string `mapstructure:"keyFile"`
	MaxEventBytes int64  `mapstructure:"maxEventBytes"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type StoreConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"accessKeyID"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
	UseSSL          bool   `mapstructure:"useSSL"`
}

type TranscodeConfig struct {
	Quality        int    `mapstructure:"quality"`
	DerivedPrefix  string `mapstructure:"derivedPrefix"`
	OriginalPrefix string `mapstructure:"originalPrefix"`
}

type OriginConfig struct {
	URL string `mapstructure:"url"`
}

type LedgerConfig struct {
	Addr string `mapstructure:"addr"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	Transcode TranscodeConfig `mapstructure:"transcode"`
	Origin    OriginConfig    `mapstructure:"origin"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
}

// Validate checks the settings that cannot be defaulted.
func (c Config) Validate() error {
	if c.Store.Bucket == "" {
		return errors.New("store.bucket is required")
	}
	if c.Store.Endpoint == "" {
		return errors.New("store.endpoint is required")
	}
	if c.Transcode.Quality < 0 || c.Transcode.Quality > 100 {
		return fmt.Errorf("transcode.quality %d out of range 0-100", c.Transcode.Quality)
	}
	if c.Server.MaxEventBytes <= 0 {
		return fmt.Errorf("server.maxEventBytes must be positive, got %d", c.Server.MaxEventBytes)
	}
	if _, err := fwlog.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

var (
	once sync.Once

	// osArgs is replaced in tests.
	osArgs = func() []string { return os.Args[1:] }

	mu sync.RWMutex

	config Config
)

// InitConfig loads the process configuration once from the command line.
func InitConfig() error {
	var initErr error
	once.Do(func() {
		initErr = LoadAndWatch()
	})
	return initErr
}

// Get returns a copy of the current configuration.
func Get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.certFile", "")
	v.SetDefault("server.keyFile", "")
	v.SetDefault("server.maxEventBytes", 1<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("store.endpoint", "s3.amazonaws.com")
	v.SetDefault("store.region", "us-east-2")
	v.SetDefault("store.bucket", "")
	v.SetDefault("store.accessKeyID", "")
	v.SetDefault("store.secretAccessKey", "")
	v.SetDefault("store.useSSL", true)
	v.SetDefault("transcode.quality", 75)
	v.SetDefault("transcode.derivedPrefix", "/optimized/")
	v.SetDefault("transcode.originalPrefix", "/original/")
	v.SetDefault("origin.url", "")
	v.SetDefault("ledger.addr", "")
}

// NewFlagSet declares the command line flags understood by Load.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "Path to a config file (default: ./config.yaml or /etc/webpedge/config.yaml)")
	fs.String("server.addr", "", "HTTP listen address (e.g., '127.0.0.1:9090')")
	fs.String("server.certFile", "", "Path to the TLS certificate file.")
	fs.String("server.keyFile", "", "Path to the TLS private key file.")
	fs.String("log.level", "", "Log level: debug, info, warn, error")
	fs.String("store.endpoint", "", "S3 compatible endpoint host[:port]")
	fs.String("store.region", "", "Store region")
	fs.String("store.bucket", "", "Bucket holding original and optimized images")
	fs.Int("transcode.quality", 0, "WebP quality, 0-100")
	fs.String("origin.url", "", "Origin to reverse proxy; empty disables the proxy")
	fs.String("ledger.addr", "", "Redis/Dragonfly address for transcode records; empty disables the ledger")
	return fs
}

// Load reads defaults, the config file, WEBPEDGE_* environment variables
// and the flags in args, in increasing order of precedence.
func Load(v *viper.Viper, fs *pflag.FlagSet, args []string) (Config, error) {
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	setDefaults(v)

	// Only flags given explicitly override lower layers.
	var bindErr error
	fs.Visit(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		if err := v.BindPFlag(f.Name, f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return Config{}, fmt.Errorf("failed to bind pflags: %w", bindErr)
	}

	v.SetEnvPrefix("WEBPEDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/webpedge/")
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fwlog.Infof("Config file not found, using defaults and flags.")
		} else {
			return Config{}, fmt.Errorf("fatal error config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("the configuration cannot be decoded into the struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadAndWatch loads the global configuration from os.Args and watches
// the config file. Only the log level is applied on reload; everything
// else keeps its startup value for the life of the process.
func LoadAndWatch() error {
	v := viper.New()
	fs := NewFlagSet("webpedge")
	cfg, err := Load(v, fs, osArgs())
	if err != nil {
		return err
	}

	mu.Lock()
	config = cfg
	mu.Unlock()

	if v.ConfigFileUsed() == "" {
		return nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		fwlog.Infof("Config file %s changed, reloading log level", e.Name)

		var next Config
		if err := v.Unmarshal(&next); err != nil {
			fwlog.Errorf("Error while reloading config: %v", err)
			return
		}
		level, err := fwlog.ParseLevel(next.Log.Level)
		if err != nil {
			fwlog.Warnf("New log level in config is invalid: %v. Keeping previous level.", err)
			return
		}

		mu.Lock()
		config.Log.Level = next.Log.Level
		mu.Unlock()

		fwlog.SetLevel(level)
		fwlog.Infof("Log level reloaded successfully to: %s", level)
	})
	v.WatchConfig()

	return nil
}
