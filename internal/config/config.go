package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultPath = "./config/local.yaml"

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	ErrorLog   string `yaml:"error_log" env:"ERROR_LOG" env-default:"errors.log"`
	HTTPServer `yaml:"http_server"`
	Report     Report `yaml:"report"`
	CORS       CORS   `yaml:"cors"`
	Auth       Auth   `yaml:"auth"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Report struct {
	DefaultFc   float64 `yaml:"default_fc" env:"REPORT_DEFAULT_FC" env-default:"420"`
	DefaultFcr  float64 `yaml:"default_fcr" env:"REPORT_DEFAULT_FCR" env-default:"525"`
	MaxUploadMB int64   `yaml:"max_upload_mb" env:"REPORT_MAX_UPLOAD_MB" env-default:"10"`
	FontPath    string  `yaml:"font_path" env:"REPORT_FONT_PATH"`
	ChartWidth  int     `yaml:"chart_width" env:"REPORT_CHART_WIDTH" env-default:"1200"`
	ChartHeight int     `yaml:"chart_height" env:"REPORT_CHART_HEIGHT" env-default:"360"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:","`
}

// Auth enables basic auth on every route when Login is set.
type Auth struct {
	Login    string `yaml:"login" env:"AUTH_LOGIN"`
	Password string `yaml:"password" env:"AUTH_PASSWORD"`
}

// Load reads path (or CONFIG_PATH, or ./config/local.yaml) and overlays the
// environment. A missing file is not an error; env and defaults apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultPath
	}

	var cfg Config
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return &cfg, nil
}

func MustConfig(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}
