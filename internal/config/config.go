package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Oshichecker/internal/scoring"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Hermes     HermesConfig     `yaml:"hermes"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Tournament TournamentConfig `yaml:"tournament"`
	Ranking    RankingConfig    `yaml:"ranking"`
	Session    SessionConfig    `yaml:"session"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port" validate:"min=1,max=65535"`
	MetricsPort int    `yaml:"metrics_port" validate:"min=1,max=65535,nefield=Port"`
	AdminToken  string `yaml:"admin_token"`

	// RateLimitPerMinute caps requests per client address; 0 disables it.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute" validate:"min=0"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type HermesConfig struct {
	URL               string `yaml:"url"`
	StreamMaxAgeHours int    `yaml:"stream_max_age_hours" validate:"min=1"`
}

type CatalogConfig struct {
	Path string `yaml:"path"`
}

type TournamentConfig struct {
	BattleRounds int     `yaml:"battle_rounds" validate:"min=1"`
	PoolSize     int     `yaml:"pool_size" validate:"min=2"`
	ArtistWeight float64 `yaml:"artist_weight" validate:"min=0"`
}

type RankingConfig struct {
	SurveyWeight    float64            `yaml:"survey_weight"`
	WinWeight       float64            `yaml:"win_weight"`
	JPSupportBoost  float64            `yaml:"jp_support_boost"`
	LanguagePenalty map[string]float64 `yaml:"language_penalty"`
}

type SessionConfig struct {
	TTLMinutes      int `yaml:"ttl_minutes" validate:"min=0"`
	SweepIntervalMs int `yaml:"sweep_interval_ms" validate:"min=0"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

func (c *Config) StreamMaxAge() time.Duration {
	return time.Duration(c.Hermes.StreamMaxAgeHours) * time.Hour
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Session.SweepIntervalMs) * time.Millisecond
}

// RankingWeights converts the ranking section into scoring weights. Unknown
// Korean levels in language_penalty are ignored; missing ones default to 0.
func (c *Config) RankingWeights() scoring.RankingWeights {
	w := scoring.RankingWeights{
		Survey:               c.Ranking.SurveyWeight,
		Wins:                 c.Ranking.WinWeight,
		JapaneseSupportBoost: c.Ranking.JPSupportBoost,
		LanguagePenalty:      make(map[scoring.KoreanLevel]float64, len(scoring.KoreanLevels)),
	}
	for _, level := range scoring.KoreanLevels {
		w.LanguagePenalty[level] = c.Ranking.LanguagePenalty[string(level)]
	}
	return w
}

var validate = validator.New()

// Validate checks field ranges and the ranking weight invariants.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	for key := range c.Ranking.LanguagePenalty {
		if !scoring.KoreanLevel(key).Valid() {
			return fmt.Errorf("invalid config: unknown korean level %q in ranking.language_penalty", key)
		}
	}
	if err := c.RankingWeights().Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func Load(path string) (*Config, error) {
	defaults := scoring.DefaultRankingWeights()
	penalty := make(map[string]float64, len(defaults.LanguagePenalty))
	for level, p := range defaults.LanguagePenalty {
		penalty[string(level)] = p
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               8600,
			MetricsPort:        8601,
			RateLimitPerMinute: 120,
		},
		Hermes: HermesConfig{
			URL:               "nats://localhost:4222",
			StreamMaxAgeHours: 168,
		},
		Tournament: TournamentConfig{
			BattleRounds: 5,
			PoolSize:     8,
			ArtistWeight: 1.0,
		},
		Ranking: RankingConfig{
			SurveyWeight:    defaults.Survey,
			WinWeight:       defaults.Wins,
			JPSupportBoost:  defaults.JapaneseSupportBoost,
			LanguagePenalty: penalty,
		},
		Session: SessionConfig{
			TTLMinutes:      24 * 60,
			SweepIntervalMs: 600000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OSHI_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("OSHI_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("OSHI_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("OSHI_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("OSHI_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("OSHI_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("OSHI_BATTLE_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Tournament.BattleRounds = n
		}
	}
	if v := os.Getenv("OSHI_POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Tournament.PoolSize = n
		}
	}
	if v := os.Getenv("OSHI_SESSION_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Session.TTLMinutes = n
		}
	}
	if v := os.Getenv("OSHI_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
