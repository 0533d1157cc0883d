package config

import "time"

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	WhatsApp WhatsAppConfig `mapstructure:"whatsapp"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Vault    VaultConfig    `mapstructure:"vault"`
	Alert    AlertConfig    `mapstructure:"alert"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Business BusinessConfig `mapstructure:"business"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	URL      string        `mapstructure:"url"`
	DedupTTL time.Duration `mapstructure:"dedup_ttl"`
}

// QueueConfig selects the message queue backend. Kind is "nats" or "rabbitmq";
// an empty URL disables event publishing.
type QueueConfig struct {
	Kind string `mapstructure:"kind"`
	URL  string `mapstructure:"url"`
}

type WhatsAppConfig struct {
	VerifyToken     string        `mapstructure:"verify_token"`
	APIToken        string        `mapstructure:"api_token"`
	PhoneNumberID   string        `mapstructure:"phone_number_id"`
	APIVersion      string        `mapstructure:"api_version"`
	SendTimeout     time.Duration `mapstructure:"send_timeout"`
	MediaTimeout    time.Duration `mapstructure:"media_timeout"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
}

type OpenAIConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	NLUModel       string        `mapstructure:"nlu_model"`
	STTModel       string        `mapstructure:"stt_model"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type VaultConfig struct {
	Address string `mapstructure:"address"`
	Token   string `mapstructure:"token"`
}

type AlertConfig struct {
	SendGridAPIKey string `mapstructure:"sendgrid_api_key"`
	FromEmail      string `mapstructure:"from_email"`
	FromName       string `mapstructure:"from_name"`
	AdminEmail     string `mapstructure:"admin_email"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// BusinessConfig carries the fixed vocabulary of the store: the canonical
// branch names, in directory order, and the default currency code.
type BusinessConfig struct {
	Branches        []string `mapstructure:"branches"`
	DefaultCurrency string   `mapstructure:"default_currency"`
}
