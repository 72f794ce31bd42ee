package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Dart      DartConfig      `yaml:"dart" mapstructure:"dart"`
	News      NewsConfig      `yaml:"news" mapstructure:"news"`
	Verifier  VerifierConfig  `yaml:"verifier" mapstructure:"verifier"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds scoring-service settings. An empty Key puts the
// analyzer in deterministic fallback mode rather than erroring.
type AnthropicConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	MaxTokens   int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// DartConfig holds OpenDART disclosure API settings.
type DartConfig struct {
	Key          string `yaml:"key" mapstructure:"key"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	LookbackDays int    `yaml:"lookback_days" mapstructure:"lookback_days"`
	MaxCount     int    `yaml:"max_count" mapstructure:"max_count"`
}

// NewsConfig holds the Naver finance news crawler settings.
type NewsConfig struct {
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	LookbackDays int     `yaml:"lookback_days" mapstructure:"lookback_days"`
	MaxArticles  int     `yaml:"max_articles" mapstructure:"max_articles"`
	MaxPages     int     `yaml:"max_pages" mapstructure:"max_pages"`
	FetchBodies  bool    `yaml:"fetch_bodies" mapstructure:"fetch_bodies"`
	RatePerSec   float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// VerifierConfig configures the verification pipeline.
type VerifierConfig struct {
	ConcurrentLimit int `yaml:"concurrent_limit" mapstructure:"concurrent_limit"`
	GatherLimit     int `yaml:"gather_limit" mapstructure:"gather_limit"`
}

// StoreConfig configures the result store.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging. File enables a rotating file sink in
// addition to stderr.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	File   string `yaml:"file" mapstructure:"file"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("VERIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Every key needs one, even if empty: Unmarshal only sees
	// env values for keys viper already knows about.
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1500)
	v.SetDefault("anthropic.temperature", 0.3)
	v.SetDefault("dart.key", "")
	v.SetDefault("dart.base_url", "https://opendart.fss.or.kr/api")
	v.SetDefault("dart.lookback_days", 30)
	v.SetDefault("dart.max_count", 20)
	v.SetDefault("news.base_url", "https://finance.naver.com")
	v.SetDefault("news.lookback_days", 7)
	v.SetDefault("news.max_articles", 5)
	v.SetDefault("news.max_pages", 5)
	v.SetDefault("news.fetch_bodies", false)
	v.SetDefault("news.rate_per_sec", 1.0)
	v.SetDefault("verifier.concurrent_limit", 5)
	v.SetDefault("verifier.gather_limit", 3)
	v.SetDefault("store.path", "verify.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}

	if cfg.File != "" {
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zapCfg.EncoderConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    20, // MB
				MaxBackups: 5,
				MaxAge:     14, // days
				Compress:   true,
			}),
			zapCfg.Level,
		)
		logger = logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, fileCore)
		}))
	}

	zap.ReplaceGlobals(logger)

	return nil
}
