package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SLA      SLAConfig
	Gateway  GatewayConfig
	Batch    BatchConfig
	Events   EventsConfig
	Journal  JournalConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// SLAConfig holds the elapsed-time thresholds used to classify refund cases.
// TargetHours is advisory only and never changes a classification.
type SLAConfig struct {
	WarningHours  float64
	CriticalHours float64
	TargetHours   float64
}

func (c SLAConfig) WarningAfter() time.Duration {
	return time.Duration(c.WarningHours * float64(time.Hour))
}

func (c SLAConfig) CriticalAfter() time.Duration {
	return time.Duration(c.CriticalHours * float64(time.Hour))
}

func (c SLAConfig) Target() time.Duration {
	return time.Duration(c.TargetHours * float64(time.Hour))
}

type GatewayConfig struct {
	PublicKey      string
	SecretKey      string
	Currency       string
	TimeoutSeconds int
}

func (c GatewayConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type BatchConfig struct {
	// Concurrency bounds in-flight gateway calls during batch remediation.
	// 1 keeps processing sequential and audit ordering deterministic.
	Concurrency int
}

type EventsConfig struct {
	URL      string
	Exchange string
}

type JournalConfig struct {
	Path string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("SLA_WARNING_HOURS", 12)
	viper.SetDefault("SLA_CRITICAL_HOURS", 24)
	viper.SetDefault("SLA_TARGET_HOURS", 48)
	viper.SetDefault("GATEWAY_CURRENCY", "thb")
	viper.SetDefault("GATEWAY_TIMEOUT_SECONDS", 30)
	viper.SetDefault("BATCH_CONCURRENCY", 1)
	viper.SetDefault("EVENTS_EXCHANGE", "salon.refunds")
	viper.SetDefault("JOURNAL_PATH", "refund-journal.db")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		SLA: SLAConfig{
			WarningHours:  viper.GetFloat64("SLA_WARNING_HOURS"),
			CriticalHours: viper.GetFloat64("SLA_CRITICAL_HOURS"),
			TargetHours:   viper.GetFloat64("SLA_TARGET_HOURS"),
		},
		Gateway: GatewayConfig{
			PublicKey:      viper.GetString("OMISE_PUBLIC_KEY"),
			SecretKey:      viper.GetString("OMISE_SECRET_KEY"),
			Currency:       viper.GetString("GATEWAY_CURRENCY"),
			TimeoutSeconds: viper.GetInt("GATEWAY_TIMEOUT_SECONDS"),
		},
		Batch: BatchConfig{
			Concurrency: viper.GetInt("BATCH_CONCURRENCY"),
		},
		Events: EventsConfig{
			URL:      viper.GetString("AMQP_URL"),
			Exchange: viper.GetString("EVENTS_EXCHANGE"),
		},
		Journal: JournalConfig{
			Path: viper.GetString("JOURNAL_PATH"),
		},
	}

	return config, nil
}
