package configs

import (
	"errors"
	"time"

	"github.com/badrinagarjun/marketpulse/internal/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	JWT struct {
		SECRET string `mapstructure:"secret"`
	} `mapstructure:"jwt"`
	Quotes struct {
		Provider        string        `mapstructure:"provider"`
		AlphaVantageKey string        `mapstructure:"alpha_vantage_key"`
		FinnhubKey      string        `mapstructure:"finnhub_key"`
		Timeout         time.Duration `mapstructure:"timeout"`
		CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"quotes"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	RateLimit struct {
		RPS   float64 `mapstructure:"rps"`
		Burst int     `mapstructure:"burst"`
	} `mapstructure:"rate-limit"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
}

var AppConfig Config

func LoadConfig() {
	viper.AddConfigPath("./configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	var fileLookupError viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil {
		if errors.As(err, &fileLookupError) {
			logger.Log.Fatal("config file not found", zap.Error(err))
		}
		logger.Log.Fatal("failed to read config", zap.Error(err))
	}

	viper.Unmarshal(&AppConfig)

	if AppConfig.Server.Addr == "" {
		AppConfig.Server.Addr = ":8080"
	}
	if AppConfig.Quotes.Timeout == 0 {
		AppConfig.Quotes.Timeout = 5 * time.Second
	}
	if AppConfig.Quotes.CacheTTL == 0 {
		AppConfig.Quotes.CacheTTL = 15 * time.Second
	}
}
