package shared

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MetricsAddr    string
	StoreDriver    string
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	NameLockTTL    time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	PokeAPIBase    string
	PokeAPIRPS     int
	SeedWorkers    int
	SeedCount      int
	DefaultPage    int

	// Warnings are collected while loading and logged by the caller once
	// the configured logger is installed.
	Warnings []string
}

const defaultPageSize = 10

var defaults = map[string]any{
	"APP_ENV":               "prod",
	"LOG_LEVEL":             "info",
	"HTTP_ADDR":             ":8080",
	"METRICS_ADDR":          "",
	"STORE_DRIVER":          "mysql",
	"MYSQL_DSN":             "root:root@tcp(localhost:3306)/pokemon?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
	"REDIS_ADDR":            "",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"NAME_LOCK_TTL_SECONDS": 10,
	"RATE_LIMIT_RPS":        50.0,
	"RATE_LIMIT_BURST":      100,
	"POKEAPI_BASE_URL":      "https://pokeapi.co/api/v2",
	"POKEAPI_RPS":           5,
	"SEED_WORKERS":          8,
	"SEED_COUNT":            151,
	"DEFAULT_PAGE_SIZE":     defaultPageSize,
}

// Load reads the environment, optionally layered over ./config.yaml.
// Environment variables win.
func Load() Config {
	return load(viper.New())
}

func load(v *viper.Viper) Config {
	var warnings []string
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			warnings = append(warnings, fmt.Sprintf("config.yaml unreadable, using environment only: %v", err))
		}
	}
	v.AutomaticEnv()

	c := Config{
		AppEnv:         v.GetString("APP_ENV"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		HTTPAddr:       v.GetString("HTTP_ADDR"),
		MetricsAddr:    v.GetString("METRICS_ADDR"),
		StoreDriver:    strings.ToLower(v.GetString("STORE_DRIVER")),
		MySQLDSN:       v.GetString("MYSQL_DSN"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPass:      v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		NameLockTTL:    time.Duration(v.GetInt("NAME_LOCK_TTL_SECONDS")) * time.Second,
		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		PokeAPIBase:    v.GetString("POKEAPI_BASE_URL"),
		PokeAPIRPS:     v.GetInt("POKEAPI_RPS"),
		SeedWorkers:    v.GetInt("SEED_WORKERS"),
		SeedCount:      v.GetInt("SEED_COUNT"),
		DefaultPage:    v.GetInt("DEFAULT_PAGE_SIZE"),
	}
	if c.StoreDriver != "mysql" && c.StoreDriver != "memory" {
		warnings = append(warnings, fmt.Sprintf("unknown STORE_DRIVER %q, falling back to mysql", c.StoreDriver))
		c.StoreDriver = "mysql"
	}
	if c.DefaultPage <= 0 {
		warnings = append(warnings, fmt.Sprintf("DEFAULT_PAGE_SIZE %d is not positive, using %d", c.DefaultPage, defaultPageSize))
		c.DefaultPage = defaultPageSize
	}
	if c.RedisAddr == "" {
		warnings = append(warnings, "REDIS_ADDR is empty; name reservations disabled")
	}
	c.Warnings = warnings
	return c
}
