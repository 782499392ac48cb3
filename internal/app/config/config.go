package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceHost string
	ServicePort int

	// DraftTTL is how long a saved draft stays readable.
	DraftTTL time.Duration
	// HTTPTimeout bounds every outbound verification, email and webhook call.
	HTTPTimeout time.Duration
	EmailFrom   string

	Secrets Secrets
	Redis   RedisConfig
	MinIO   MinIOConfig
	// DSN is the relational store connection string; empty disables it.
	DSN string
}

type Secrets struct {
	APISecret          string
	PaystackSecretKey  string
	RecaptchaSecretKey string
	TurnstileSecretKey string
	ResendAPIKey       string
	WebhookURL         string
}

type RedisConfig struct {
	Host        string
	Password    string
	Port        int
	User        string
	DB          int
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

const (
	envRedisHost = "REDIS_HOST"
	envRedisPort = "REDIS_PORT"
	envRedisUser = "REDIS_USER"
	envRedisPass = "REDIS_PASSWORD"

	envMinIOEndpoint  = "MINIO_ENDPOINT"
	envMinIOAccessKey = "MINIO_ACCESS_KEY"
	envMinIOSecretKey = "MINIO_SECRET_KEY"
	envMinIOBucket    = "MINIO_BUCKET"
	envMinIOUseSSL    = "MINIO_USE_SSL"

	envAPISecret    = "API_SECRET"
	envPaystackKey  = "PAYSTACK_SECRET_KEY"
	envRecaptchaKey = "RECAPTCHA_SECRET_KEY"
	envTurnstileKey = "TURNSTILE_SECRET_KEY"
	envResendKey    = "RESEND_API_KEY"
	envWebhookURL   = "WEBHOOK_URL"
	envEmailFrom    = "EMAIL_FROM"

	defaultDraftTTL    = 7 * 24 * time.Hour
	defaultHTTPTimeout = 10 * time.Second
	defaultBucket      = "form-uploads"
	defaultEmailFrom   = "noreply@yourdomain.com"
)

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("ServiceHost", "")
	v.SetDefault("ServicePort", 8080)
	v.SetDefault("DraftTTL", defaultDraftTTL)
	v.SetDefault("HTTPTimeout", defaultHTTPTimeout)
	v.SetDefault("EmailFrom", defaultEmailFrom)

	// the config file is optional, env-only deployments are fine
	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		log.Info("config file not found, using defaults and env")
	}

	cfg := &Config{}
	err = v.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	if err = cfg.loadEnv(); err != nil {
		return nil, err
	}

	log.Info("config parsed")

	return cfg, nil
}

// loadEnv fills secrets and store bindings, which never live in the config file.
func (cfg *Config) loadEnv() error {
	var err error

	if v := os.Getenv("SERVICE_HOST"); v != "" {
		cfg.ServiceHost = v
	}
	if v := os.Getenv("SERVICE_PORT"); v != "" {
		cfg.ServicePort, err = strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("service port must be int value: %w", err)
		}
	}

	cfg.Secrets = Secrets{
		APISecret:          os.Getenv(envAPISecret),
		PaystackSecretKey:  os.Getenv(envPaystackKey),
		RecaptchaSecretKey: os.Getenv(envRecaptchaKey),
		TurnstileSecretKey: os.Getenv(envTurnstileKey),
		ResendAPIKey:       os.Getenv(envResendKey),
		WebhookURL:         os.Getenv(envWebhookURL),
	}
	if v := os.Getenv(envEmailFrom); v != "" {
		cfg.EmailFrom = v
	}

	cfg.Redis.Host = os.Getenv(envRedisHost)
	if cfg.Redis.Host != "" {
		cfg.Redis.Port, err = strconv.Atoi(os.Getenv(envRedisPort))
		if err != nil {
			return fmt.Errorf("redis port must be int value: %w", err)
		}
	}
	cfg.Redis.Password = os.Getenv(envRedisPass)
	cfg.Redis.User = os.Getenv(envRedisUser)
	cfg.Redis.DialTimeout = 10 * time.Second
	cfg.Redis.ReadTimeout = 10 * time.Second

	cfg.MinIO = MinIOConfig{
		Endpoint:  os.Getenv(envMinIOEndpoint),
		AccessKey: os.Getenv(envMinIOAccessKey),
		SecretKey: os.Getenv(envMinIOSecretKey),
		Bucket:    os.Getenv(envMinIOBucket),
		UseSSL:    os.Getenv(envMinIOUseSSL) == "true",
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = defaultBucket
	}

	cfg.DSN = dsnFromEnv()

	return nil
}

// dsnFromEnv builds a postgres DSN; an unset DB_HOST disables the relational store.
func dsnFromEnv() string {
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASS")
	dbname := os.Getenv("DB_NAME")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", host, port, user, pass, dbname)
}

func (cfg *Config) RedisEnabled() bool { return cfg.Redis.Host != "" }

func (cfg *Config) MinIOEnabled() bool { return cfg.MinIO.Endpoint != "" }

func (cfg *Config) DatabaseEnabled() bool { return cfg.DSN != "" }
