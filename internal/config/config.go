package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`
	// CredentialKey is the hex-encoded 256-bit key sealing the refresh
	// credential at rest.
	CredentialKey string      `yaml:"credential_key" env:"CREDENTIAL_KEY" env-required:"true"`
	API           APIConfig   `yaml:"api"`
	Cache         CacheConfig `yaml:"cache"`
}

type APIConfig struct {
	BaseURL       string        `yaml:"base_url" env:"API_BASE_URL" env-required:"true"`
	Timeout       time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"15s"`
	PageCacheSize int           `yaml:"page_cache_size" env:"API_PAGE_CACHE_SIZE" env-default:"64"`
}

type CacheConfig struct {
	// DebounceWindow coalesces bursts of permission-change notifications.
	DebounceWindow time.Duration `yaml:"debounce_window" env:"PERM_DEBOUNCE_WINDOW" env-default:"200ms"`
}

// MustLoad reads the config from the path given by --config or CONFIG_PATH
// and panics on any failure.
func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

// fetchConfigPath fetches config path from command line flag or environment
// variable. Priority: flag > env > default (empty).
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
