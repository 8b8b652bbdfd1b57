package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dkeye/peerview/internal/validate"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type ICEServer struct {
	URLs       []string `mapstructure:"urls" validate:"required,min=1"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

type StoreConfig struct {
	Driver        string `mapstructure:"driver" validate:"oneof=memory sqlite mongo"`
	SQLitePath    string `mapstructure:"sqlite_path"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
}

type LedgerConfig struct {
	Driver    string `mapstructure:"driver" validate:"oneof=memory sqlite redis"`
	RedisAddr string `mapstructure:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db"`
}

type Config struct {
	Mode       string        `mapstructure:"mode" validate:"oneof=debug release test"`
	Port       int           `mapstructure:"port" validate:"gt=0"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit" validate:"gt=0"`
	PingPeriod time.Duration `mapstructure:"ping_period" validate:"gt=0"`
	Secret     string        `mapstructure:"secret" validate:"required"`
	LogLevel   string        `mapstructure:"log_level"`

	InvitationTTL       time.Duration `mapstructure:"invitation_ttl" validate:"gt=0"`
	InvitationRetention time.Duration `mapstructure:"invitation_retention"`
	RoleSwitchWindow    time.Duration `mapstructure:"role_switch_window" validate:"gt=0"`
	QuestionCount       int           `mapstructure:"question_count" validate:"min=0"`

	SignalRate  float64 `mapstructure:"signal_rate" validate:"gt=0"`
	SignalBurst int     `mapstructure:"signal_burst" validate:"gt=0"`
	SendBuffer  int     `mapstructure:"send_buffer" validate:"gt=0"`
	RelayPolicy string  `mapstructure:"relay_policy" validate:"oneof=drop evict"`

	ICEServers []ICEServer  `mapstructure:"ice_servers" validate:"dive"`
	Store      StoreConfig  `mapstructure:"store"`
	Ledger     LedgerConfig `mapstructure:"ledger"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("log_level", "info")

	v.SetDefault("invitation_ttl", "5m")
	v.SetDefault("invitation_retention", "30m")
	v.SetDefault("role_switch_window", "45m")
	v.SetDefault("question_count", 5)

	v.SetDefault("signal_rate", 20)
	v.SetDefault("signal_burst", 40)
	v.SetDefault("send_buffer", 32)
	v.SetDefault("relay_policy", "drop")
	v.SetDefault("ice_servers", []map[string]any{{"urls": []string{"stun:stun.l.google.com:19302"}}})

	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.sqlite_path", "peerview.db")
	v.SetDefault("store.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo_database", "peerview")
	v.SetDefault("ledger.driver", "memory")
	v.SetDefault("ledger.redis_addr", "localhost:6379")
	v.SetDefault("ledger.redis_db", 0)
}

// Load reads config/config.<CONFIG_ENV>.yaml over the defaults. Every key can
// be overridden from the environment with the PEERVIEW_ prefix, dots
// replaced by underscores (PEERVIEW_STORE_DRIVER).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)
	v.SetConfigFile(fileName)

	setDefaults(v)
	v.SetEnvPrefix("PEERVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// No default: signing keys must come from the file or PEERVIEW_SECRET.
	_ = v.BindEnv("secret")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("store", cfg.Store.Driver).
		Str("ledger", cfg.Ledger.Driver).
		Msg("config ready")
	return &cfg, nil
}
