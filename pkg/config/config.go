// Package config loads deprecated-checker settings.
//
// Settings come from, in increasing priority: built-in defaults, a
// deprecated-checker.yaml file, a .env file in the working directory and
// DEPCHECK_* environment variables. Nested keys map to variables with
// dots replaced by underscores, so scheduler.interval_hours is
// DEPCHECK_SCHEDULER_INTERVAL_HOURS. GITHUB_TOKEN is honored as a fallback
// for collector.github_token.
//
// The file is searched for in $XDG_CONFIG_HOME/deprecated-checker,
// ~/.config/deprecated-checker and the working directory. A missing file
// is not an error.
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/julicq/is-deprecated-or-not/pkg/cache"
	"github.com/julicq/is-deprecated-or-not/pkg/collector"
	"github.com/julicq/is-deprecated-or-not/pkg/errors"
	"github.com/julicq/is-deprecated-or-not/pkg/scheduler"
	"github.com/julicq/is-deprecated-or-not/pkg/storage"
)

const (
	// AppName names the config file and the per-user directories.
	AppName = "deprecated-checker"
	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "DEPCHECK"
	// DatabaseFile is the default knowledge base document name.
	DatabaseFile = "deprecated_packages.yaml"
)

// Config is the complete application configuration.
type Config struct {
	Database  storage.Config         `mapstructure:"database"`
	Collector collector.Config       `mapstructure:"collector"`
	Scheduler scheduler.UpdateConfig `mapstructure:"scheduler"`
	Cache     CacheConfig            `mapstructure:"cache"`
	Server    ServerConfig           `mapstructure:"server"`
	Log       LogConfig              `mapstructure:"log"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// CacheConfig selects the HTTP response cache used by the collector.
type CacheConfig struct {
	Backend  string `mapstructure:"backend" validate:"oneof=file redis none"`
	Dir      string `mapstructure:"dir"`
	RedisURL string `mapstructure:"redis_url" validate:"required_if=Backend redis"`
	Prefix   string `mapstructure:"prefix"`
}

// ServerConfig controls the HTTP API served next to the scheduler.
type ServerConfig struct {
	Listen string `mapstructure:"listen" validate:"omitempty,hostname_port"`
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Database: storage.Config{
			Backend:         "file",
			Path:            DefaultDatabasePath(),
			RedisKey:        storage.DefaultRedisKey,
			MongoDatabase:   storage.DefaultMongoDatabase,
			MongoCollection: storage.DefaultMongoCollection,
		},
		Collector: collector.DefaultConfig(),
		Scheduler: scheduler.DefaultUpdateConfig(),
		Cache:     CacheConfig{Backend: "file", Prefix: AppName + ":http:"},
		Server:    ServerConfig{Listen: "127.0.0.1:8080"},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads the configuration. When cfgFile is empty the standard
// locations are searched.
func Load(cfgFile string) (*Config, error) {
	// .env only fills variables that are not already set.
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read .env")
	}
	return load(viper.New(), cfgFile)
}

func load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		for _, dir := range searchPaths() {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())
	_ = v.BindEnv("collector.github_token", EnvPrefix+"_COLLECTOR_GITHUB_TOKEN", "GITHUB_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "read config %s", cfgFile)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "decode config %s", v.ConfigFileUsed())
	}
	cfg.File = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every default so that environment variables can
// override keys that the config file does not mention.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("database.backend", d.Database.Backend)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.redis_url", "")
	v.SetDefault("database.redis_key", d.Database.RedisKey)
	v.SetDefault("database.mongo_uri", "")
	v.SetDefault("database.mongo_database", d.Database.MongoDatabase)
	v.SetDefault("database.mongo_collection", d.Database.MongoCollection)

	for name, sc := range map[string]collector.SourceConfig{
		collector.SourcePyPI:     d.Collector.PyPI,
		collector.SourceGitHub:   d.Collector.GitHub,
		collector.SourceSecurity: d.Collector.Security,
		collector.SourceManual:   d.Collector.Manual,
	} {
		v.SetDefault("collector."+name+".enabled", sc.Enabled)
		v.SetDefault("collector."+name+".timeout", sc.Timeout)
		v.SetDefault("collector."+name+".rate_limit", sc.RateLimit)
	}
	v.SetDefault("collector.manual_file", "")
	v.SetDefault("collector.watchlist", d.Collector.Watchlist)
	v.SetDefault("collector.concurrency", d.Collector.Concurrency)
	v.SetDefault("collector.cache_ttl", d.Collector.CacheTTL)

	v.SetDefault("scheduler.interval_hours", d.Scheduler.IntervalHours)
	v.SetDefault("scheduler.retry_attempts", d.Scheduler.RetryAttempts)
	v.SetDefault("scheduler.retry_backoff_seconds", d.Scheduler.RetryBackoffSeconds)

	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.prefix", d.Cache.Prefix)

	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("log.level", d.Log.Level)
}

// Validate checks field constraints and returns an INVALID_INPUT error
// naming the first offending setting.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.New(errors.ErrCodeInvalidInput, "invalid setting %s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid configuration")
	}
	return nil
}

// OpenCache returns the configured HTTP response cache.
func (c *Config) OpenCache() (cache.Cache, error) {
	switch c.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		rc, err := cache.NewRedisCache(c.Cache.RedisURL, c.Cache.Prefix)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open redis cache")
		}
		return rc, nil
	default:
		fc, err := cache.NewFileCache(c.Cache.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "open file cache")
		}
		return fc, nil
	}
}

// DefaultDatabasePath is the knowledge base document under the per-user
// data directory ($XDG_DATA_HOME or ~/.local/share).
func DefaultDatabasePath() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join("data", DatabaseFile)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, AppName, DatabaseFile)
}

func searchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, AppName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", AppName))
	}
	return append(paths, ".")
}
