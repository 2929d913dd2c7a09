package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	JWT    JWTConfig
	Engine EngineConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// EngineConfig holds the policy knobs of the matching and scheduling engine
type EngineConfig struct {
	MatchLookaheadDays   int           // how far ahead matching looks for a free slot
	MatchMaxCandidates   int           // cap on the candidate list per search
	SlotMinutes          int           // default slot granularity for templates
	PendingExpiry        time.Duration // max age of an unconfirmed request
	PendingSweepInterval time.Duration // how often the expiry sweeper runs
	GeoCacheTTL          time.Duration // Redis TTL for postal code lookups
	GeoResolveTimeout    time.Duration // upper bound for one postal resolution
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Engine: loadEngineConfig(),
	}

	return config, nil
}

func loadEngineConfig() EngineConfig {
	cfg := EngineConfig{
		MatchLookaheadDays:   viper.GetInt("MATCH_LOOKAHEAD_DAYS"),
		MatchMaxCandidates:   viper.GetInt("MATCH_MAX_CANDIDATES"),
		SlotMinutes:          viper.GetInt("SLOT_MINUTES"),
		PendingExpiry:        viper.GetDuration("PENDING_EXPIRY"),
		PendingSweepInterval: viper.GetDuration("PENDING_SWEEP_INTERVAL"),
		GeoCacheTTL:          viper.GetDuration("GEO_CACHE_TTL"),
		GeoResolveTimeout:    viper.GetDuration("GEO_RESOLVE_TIMEOUT"),
	}

	if cfg.MatchLookaheadDays <= 0 {
		cfg.MatchLookaheadDays = 30
	}
	if cfg.MatchMaxCandidates <= 0 {
		cfg.MatchMaxCandidates = 20
	}
	if cfg.SlotMinutes <= 0 {
		cfg.SlotMinutes = 30
	}
	if cfg.PendingExpiry <= 0 {
		cfg.PendingExpiry = 72 * time.Hour
	}
	if cfg.PendingSweepInterval <= 0 {
		cfg.PendingSweepInterval = 10 * time.Minute
	}
	if cfg.GeoCacheTTL <= 0 {
		cfg.GeoCacheTTL = 24 * time.Hour
	}
	if cfg.GeoResolveTimeout <= 0 {
		cfg.GeoResolveTimeout = 2 * time.Second
	}

	return cfg
}
