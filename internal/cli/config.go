package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the client configuration, read from ~/.taskmaster/config.yaml,
// TASKMASTER_* environment variables and flags (in rising precedence).
type Config struct {
	APIURL         string        `mapstructure:"api_url"`
	Storage        string        `mapstructure:"storage"`
	DataDir        string        `mapstructure:"data_dir"`
	RedisAddr      string        `mapstructure:"redis_addr"`
	RedisPassword  string        `mapstructure:"redis_password"`
	RedisDB        int           `mapstructure:"redis_db"`
	GCSBucket      string        `mapstructure:"gcs_bucket"`
	GCSCredentials string        `mapstructure:"gcs_credentials"`
	LoginDelay     time.Duration `mapstructure:"login_delay"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Verbose        bool          `mapstructure:"verbose"`
}

// DefaultDir is where the config file and the file storage live.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskmaster"
	}
	return filepath.Join(home, ".taskmaster")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("api_url", "http://localhost:5000")
	v.SetDefault("storage", "file")
	v.SetDefault("data_dir", DefaultDir())
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("gcs_bucket", "")
	v.SetDefault("gcs_credentials", "")
	v.SetDefault("login_delay", 800*time.Millisecond)
	v.SetDefault("timeout", 15*time.Second)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("TASKMASTER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads the config file if there is one; a missing file is fine.
func loadConfig(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path == "" && os.IsNotExist(err)) {
			return Config{}, err
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Storage = strings.ToLower(cfg.Storage)
	return cfg, nil
}
