package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/Oshichecker/internal/scoring"
)

var envVars = []string{
	"OSHI_PORT", "OSHI_METRICS_PORT", "OSHI_ADMIN_TOKEN",
	"OSHI_DATABASE_URL", "OSHI_HERMES_URL", "OSHI_CATALOG_PATH",
	"OSHI_BATTLE_ROUNDS", "OSHI_POOL_SIZE", "OSHI_SESSION_TTL_MINUTES", "OSHI_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8600 {
		t.Errorf("expected port 8600, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8601 {
		t.Errorf("expected metrics port 8601, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Hermes.URL != "nats://localhost:4222" {
		t.Errorf("expected nats URL, got %s", cfg.Hermes.URL)
	}
	if cfg.StreamMaxAge() != 7*24*time.Hour {
		t.Errorf("expected a week of stream retention, got %s", cfg.StreamMaxAge())
	}
	if cfg.Database.URL != "" {
		t.Errorf("expected no database by default, got %s", cfg.Database.URL)
	}
	if cfg.Tournament.BattleRounds != 5 {
		t.Errorf("expected 5 battle rounds, got %d", cfg.Tournament.BattleRounds)
	}
	if cfg.Tournament.PoolSize != 8 {
		t.Errorf("expected pool size 8, got %d", cfg.Tournament.PoolSize)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json', got '%s'", cfg.Logging.Format)
	}

	w := cfg.RankingWeights()
	def := scoring.DefaultRankingWeights()
	if math.Abs(w.Survey-def.Survey) > 0.001 || math.Abs(w.Wins-def.Wins) > 0.001 {
		t.Errorf("expected default weights, got survey=%f wins=%f", w.Survey, w.Wins)
	}
	for _, level := range scoring.KoreanLevels {
		if math.Abs(w.LanguagePenalty[level]-def.LanguagePenalty[level]) > 0.001 {
			t.Errorf("language penalty %s: expected %f, got %f", level, def.LanguagePenalty[level], w.LanguagePenalty[level])
		}
	}

	if cfg.SessionTTL() != 24*time.Hour {
		t.Errorf("expected SessionTTL 24h, got %v", cfg.SessionTTL())
	}
	if cfg.SweepInterval() != 10*time.Minute {
		t.Errorf("expected SweepInterval 10m, got %v", cfg.SweepInterval())
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("OSHI_PORT", "9000")
	t.Setenv("OSHI_METRICS_PORT", "9001")
	t.Setenv("OSHI_ADMIN_TOKEN", "secret-token")
	t.Setenv("OSHI_DATABASE_URL", "postgres://localhost/oshi_test")
	t.Setenv("OSHI_HERMES_URL", "nats://nats:4222")
	t.Setenv("OSHI_CATALOG_PATH", "/etc/oshi/catalog.yaml")
	t.Setenv("OSHI_BATTLE_ROUNDS", "7")
	t.Setenv("OSHI_POOL_SIZE", "12")
	t.Setenv("OSHI_SESSION_TTL_MINUTES", "30")
	t.Setenv("OSHI_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 9001 {
		t.Errorf("expected metrics port 9001, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.AdminToken != "secret-token" {
		t.Errorf("expected admin token 'secret-token', got '%s'", cfg.Server.AdminToken)
	}
	if cfg.Database.URL != "postgres://localhost/oshi_test" {
		t.Errorf("expected database URL, got '%s'", cfg.Database.URL)
	}
	if cfg.Hermes.URL != "nats://nats:4222" {
		t.Errorf("expected hermes URL, got '%s'", cfg.Hermes.URL)
	}
	if cfg.Catalog.Path != "/etc/oshi/catalog.yaml" {
		t.Errorf("expected catalog path, got '%s'", cfg.Catalog.Path)
	}
	if cfg.Tournament.BattleRounds != 7 {
		t.Errorf("expected 7 rounds, got %d", cfg.Tournament.BattleRounds)
	}
	if cfg.Tournament.PoolSize != 12 {
		t.Errorf("expected pool size 12, got %d", cfg.Tournament.PoolSize)
	}
	if cfg.SessionTTL() != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %v", cfg.SessionTTL())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got '%s'", cfg.Logging.Level)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
tournament:
  battle_rounds: 3
ranking:
  win_weight: 4
  language_penalty:
    none: 3
    beginner: 2
logging:
  level: warn
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Tournament.BattleRounds != 3 {
		t.Errorf("expected 3 rounds, got %d", cfg.Tournament.BattleRounds)
	}
	if cfg.Tournament.PoolSize != 8 {
		t.Errorf("expected default pool size to survive, got %d", cfg.Tournament.PoolSize)
	}
	w := cfg.RankingWeights()
	if w.Wins != 4 || w.Survey != 1 {
		t.Errorf("expected survey=1 wins=4, got survey=%f wins=%f", w.Survey, w.Wins)
	}
	if w.LanguagePenalty[scoring.KoreanNone] != 3 {
		t.Errorf("expected none penalty 3, got %f", w.LanguagePenalty[scoring.KoreanNone])
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected warn level, got %s", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"zero rounds", "tournament:\n  battle_rounds: 0\n", "BattleRounds"},
		{"tiny pool", "tournament:\n  pool_size: 1\n", "PoolSize"},
		{"same ports", "server:\n  port: 9000\n  metrics_port: 9000\n", "MetricsPort"},
		{"no stream retention", "hermes:\n  stream_max_age_hours: 0\n", "StreamMaxAgeHours"},
		{"bad log level", "logging:\n  level: chatty\n", "Level"},
		{"unknown level key", "ranking:\n  language_penalty:\n    native: 1\n", "native"},
		{"negative wins", "ranking:\n  win_weight: -1\n", "negative"},
		{"penalty grows with fluency", "ranking:\n  language_penalty:\n    none: 0\n    fluent: 1\n", "language penalty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
