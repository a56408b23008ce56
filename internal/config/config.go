package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type AuctionConfig struct {
	Env        string `yaml:"env" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	AuctionDB  `yaml:"auction_db"`
	Redis      `yaml:"redis"`
	Kafka      `yaml:"kafka"`
	Gateway    `yaml:"gateway"`
	Bidding    `yaml:"bidding"`
	Payments   `yaml:"payments"`
	Webhooks   `yaml:"webhooks"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"8080"`
}

type AuctionDB struct {
	Dsn            string `yaml:"dsn" env:"AUCTION_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env-default:"migrations"`
}

type Redis struct {
	Addr     string        `yaml:"addr" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env-default:"0"`
	CacheTTL time.Duration `yaml:"cache_ttl" env-default:"30s"`
}

type Kafka struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic" env-default:"auction-events"`
}

type Gateway struct {
	Address string `yaml:"address"`
	APIKey  string `yaml:"api_key" env:"GATEWAY_API_KEY"`
}

type Bidding struct {
	ConflictRetries    int           `yaml:"conflict_retries" env-default:"5"`
	AntiSnipeWindow    time.Duration `yaml:"anti_snipe_window" env-default:"2m"`
	AntiSnipeExtension time.Duration `yaml:"anti_snipe_extension" env-default:"2m"`
	MaxExtensions      int           `yaml:"max_extensions" env-default:"10"`
}

type Payments struct {
	Window             time.Duration `yaml:"window" env-default:"5m"`
	DefaultCurrency    string        `yaml:"default_currency" env-default:"BRL"`
	PlatformFeePercent float64       `yaml:"platform_fee_percent" env-default:"10"`
	SplitMaxRetries    int           `yaml:"split_max_retries" env-default:"5"`
	SplitBackoffBase   time.Duration `yaml:"split_backoff_base" env-default:"30s"`
}

// WebhookGateway describes how one payment gateway signs its deliveries.
// Scheme "timestamped" expects "t=<unix>,v1=<hex>" over "<t>.<body>";
// scheme "raw" expects a hex HMAC of the body alone.
type WebhookGateway struct {
	Scheme          string `yaml:"scheme"`
	SignatureHeader string `yaml:"signature_header"`
	Secret          string `yaml:"secret"`
}

type Webhooks struct {
	TimestampTolerance time.Duration             `yaml:"timestamp_tolerance" env-default:"5m"`
	Gateways           map[string]WebhookGateway `yaml:"gateways"`
}

func MustLoad() *AuctionConfig {
	configPath := os.Getenv("AUCTION_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("AUCTION_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg AuctionConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
