package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sgostarter/librecloser/resolver"
	"github.com/sgostarter/librecloser/search"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	storeNone  = "none"
	storeFile  = "file"
	storeRedis = "redis"
)

type StorageConfig struct {
	Dir      string `mapstructure:"dir" yaml:"dir"`
	RedisURL string `mapstructure:"redis-url" yaml:"redis-url"`
	PreKey   string `mapstructure:"pre-key" yaml:"pre-key"`
}

type Config struct {
	Library      string `mapstructure:"library" yaml:"library"`
	CacheMinutes int    `mapstructure:"cache-minutes" yaml:"cache-minutes"`

	Downstream string `mapstructure:"downstream" yaml:"downstream"`
	Upstream   string `mapstructure:"upstream" yaml:"upstream"`

	search.Params `mapstructure:",squash" yaml:",inline"`

	Interactive bool   `mapstructure:"interactive" yaml:"interactive"`
	Output      string `mapstructure:"output" yaml:"output"`
	Format      string `mapstructure:"format" yaml:"format"`
	Trace       bool   `mapstructure:"trace" yaml:"trace"`
	TraceFile   string `mapstructure:"trace-file" yaml:"trace-file"`
	Workers     int    `mapstructure:"workers" yaml:"workers"`

	Store   string        `mapstructure:"store" yaml:"store"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`

	Resolver resolver.StaticConfig `mapstructure:"resolver" yaml:"resolver"`

	// set holds the amperage keys given by flag, env or config file, so an
	// explicit 0 is not asked for again.
	set map[string]bool
}

const (
	keyPickupMin = "pickup-min"
	keyPickupMax = "pickup-max"
	keyCoordMax  = "coord-max"
	keyMinTime   = "min-time"
)

func (c *Config) provided(key string, value int) bool {
	return value != 0 || c.set[key]
}

var configDefaults = map[string]any{
	"library":         ".",
	"cache-minutes":   10,
	"format":          "text",
	"workers":         1,
	"storage.dir":     "reports",
	"storage.pre-key": "recloser:",
}

func userConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "recloser"), nil
}

// loadConfig layers defaults, recloser.yaml, RECLOSER_* env vars and the command's flags.
func loadConfig(cmd *cobra.Command, configFile string) (Config, error) {
	var c Config

	v := viper.New()

	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("recloser")
	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	if dir, err := userConfigDir(); err == nil {
		v.AddConfigPath(dir)
	}

	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("recloser")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	c.set = make(map[string]bool)

	for _, key := range []string{keyPickupMin, keyPickupMax, keyCoordMax, keyMinTime} {
		c.set[key] = v.IsSet(key)
	}

	return c, nil
}
