package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct {
	Env      string
	Port     string
	APIToken string
}

type GatewayCfg struct {
	BaseURL      string
	APIKeyID     string
	APIKeySecret string
}

type MerchantCfg struct {
	OperatingAccountID string
	// MerchantIdentifier is the Apple Pay merchant id passed through to the
	// capability prompt.
	MerchantIdentifier string
	CountryCode        string
	Currency           string
	// CardRedirectURL is the return deep link the processor embeds into a
	// card challenge flow.
	CardRedirectURL string
}

type PollerCfg struct {
	Interval time.Duration
}

type DBCfg struct{ DSN string }
type RedisCfg struct{ Addr string }

type Cfg struct {
	App      AppCfg
	Gateway  GatewayCfg
	Merchant MerchantCfg
	Poller   PollerCfg
	DB       DBCfg
	Redis    RedisCfg
}

func Load() Cfg {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("APP_ENV", "sandbox")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("GATEWAY_BASE_URL", "https://apidev.fungpayments.com")
	viper.SetDefault("COUNTRY_CODE", "NL")
	viper.SetDefault("CURRENCY", "EUR")
	viper.SetDefault("POLL_INTERVAL", "5s")

	cfg := Cfg{
		App: AppCfg{
			Env:      viper.GetString("APP_ENV"),
			Port:     viper.GetString("APP_PORT"),
			APIToken: viper.GetString("API_TOKEN"),
		},
		Gateway: GatewayCfg{
			BaseURL:      viper.GetString("GATEWAY_BASE_URL"),
			APIKeyID:     viper.GetString("GATEWAY_API_KEY_ID"),
			APIKeySecret: viper.GetString("GATEWAY_API_KEY_SECRET"),
		},
		Merchant: MerchantCfg{
			OperatingAccountID: viper.GetString("OPERATING_ACCOUNT_ID"),
			MerchantIdentifier: viper.GetString("MERCHANT_IDENTIFIER"),
			CountryCode:        viper.GetString("COUNTRY_CODE"),
			Currency:           viper.GetString("CURRENCY"),
			CardRedirectURL:    viper.GetString("CARD_REDIRECT_URL"),
		},
		Poller: PollerCfg{
			Interval: viper.GetDuration("POLL_INTERVAL"),
		},
		DB:    DBCfg{DSN: viper.GetString("DB_DSN")},
		Redis: RedisCfg{Addr: viper.GetString("REDIS_ADDR")},
	}

	// Fail fast on required settings.
	if cfg.Gateway.APIKeyID == "" || cfg.Gateway.APIKeySecret == "" {
		log.Fatal().Msg("GATEWAY_API_KEY_ID and GATEWAY_API_KEY_SECRET are required")
	}
	if cfg.Merchant.OperatingAccountID == "" {
		log.Fatal().Msg("OPERATING_ACCOUNT_ID is required")
	}
	if cfg.Poller.Interval <= 0 {
		cfg.Poller.Interval = 5 * time.Second
	}

	return cfg
}
