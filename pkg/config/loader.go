package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	viper.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	viper.BindEnv("database.url", "DATABASE_URL", "APP_DATABASE_URL")
	viper.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	viper.BindEnv("queue.url", "QUEUE_URL", "APP_QUEUE_URL")
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY", "APP_OPENAI_API_KEY")
	viper.BindEnv("whatsapp.verify_token", "WHATSAPP_VERIFY_TOKEN")
	viper.BindEnv("whatsapp.api_token", "WHATSAPP_API_TOKEN")
	viper.BindEnv("whatsapp.phone_number_id", "WHATSAPP_PHONE_NUMBER_ID")
	viper.BindEnv("vault.address", "VAULT_ADDR", "APP_VAULT_ADDRESS")
	viper.BindEnv("vault.token", "VAULT_TOKEN")
	viper.BindEnv("alert.sendgrid_api_key", "SENDGRID_API_KEY")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; env vars and defaults carry the load.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "hawala-bot")
	viper.SetDefault("app.version", "v1.0.0")
	viper.SetDefault("app.environment", "development")

	viper.SetDefault("http.port", 8080)
	viper.SetDefault("http.read_timeout", 15*time.Second)
	viper.SetDefault("http.write_timeout", 30*time.Second)
	viper.SetDefault("http.idle_timeout", time.Minute)

	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	viper.SetDefault("database.auto_migrate", true)

	viper.SetDefault("redis.dedup_ttl", 24*time.Hour)

	viper.SetDefault("queue.kind", "nats")

	viper.SetDefault("whatsapp.api_version", "v18.0")
	viper.SetDefault("whatsapp.send_timeout", 20*time.Second)
	viper.SetDefault("whatsapp.media_timeout", 15*time.Second)
	viper.SetDefault("whatsapp.download_timeout", 30*time.Second)

	viper.SetDefault("openai.nlu_model", "gpt-4o-mini")
	viper.SetDefault("openai.stt_model", "whisper-1")
	viper.SetDefault("openai.request_timeout", 30*time.Second)

	viper.SetDefault("logging.level", "info")

	// Canonical branch names, exactly as the store expects them.
	viper.SetDefault("business.branches", []string{
		"السلالم",
		"المدينة",
		"الصويفية",
		"المركز الرئيسي",
	})
	viper.SetDefault("business.default_currency", "JOD")
}
