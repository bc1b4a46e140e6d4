package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"foodsnap/store"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Port        string
	Env         string
	CORSOrigins []string

	StoreDriver string
	MongoURL    string
	DB          DBConfig

	LLM    LLMConfig
	AWS    AWSConfig
	Notify NotifyConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN is the libpq key/value form used by the postgres driver.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type LLMConfig struct {
	APIKey      string
	BaseURL     string
	VisionModel string
	LightModel  string
	Timeout     time.Duration
}

type AWSConfig struct {
	Region             string
	PhotoBucket        string
	PhotoCDNURL        string
	FCMPlatformArn     string
	RekognitionEnabled bool
}

// Enabled reports whether any AWS-backed feature is switched on.
func (a AWSConfig) Enabled() bool {
	return a.PhotoBucket != "" || a.FCMPlatformArn != "" || a.RekognitionEnabled
}

type NotifyConfig struct {
	Enabled    bool
	LunchCron  string
	DinnerCron string
}

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Load reads .env when present and then the environment. Only the settings
// of the selected store driver are mandatory.
func Load(log *zap.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system env")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("APP_ENV", "development"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		MongoURL:    os.Getenv("MONGO_URL"),
		DB: DBConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		LLM: LLMConfig{
			APIKey:      firstEnv("LLM_API_KEY", "EMERGENT_LLM_KEY", "OPENAI_API_KEY"),
			BaseURL:     os.Getenv("LLM_BASE_URL"),
			VisionModel: getEnv("LLM_VISION_MODEL", "gpt-4o"),
			LightModel:  getEnv("LLM_LIGHT_MODEL", "gpt-4o-mini"),
		},
		AWS: AWSConfig{
			Region:         getEnv("AWS_REGION", "us-east-1"),
			PhotoBucket:    os.Getenv("PHOTO_BUCKET"),
			PhotoCDNURL:    os.Getenv("PHOTO_CDN_URL"),
			FCMPlatformArn: os.Getenv("SNS_FCM_ARN"),
		},
		Notify: NotifyConfig{
			LunchCron:  getEnv("NOTIFY_LUNCH_CRON", "30 12 * * *"),
			DinnerCron: getEnv("NOTIFY_DINNER_CRON", "30 19 * * *"),
		},
	}

	var err error
	if cfg.LLM.Timeout, err = time.ParseDuration(getEnv("LLM_TIMEOUT", "60s")); err != nil {
		return nil, fmt.Errorf("LLM_TIMEOUT: %w", err)
	}
	if cfg.AWS.RekognitionEnabled, err = getBool("REKOGNITION_PRECHECK"); err != nil {
		return nil, err
	}
	if cfg.Notify.Enabled, err = getBool("NOTIFY_ENABLED"); err != nil {
		return nil, err
	}
	if cfg.LLM.APIKey == "" {
		log.Warn("LLM API key not set; analysis and recipe endpoints will fail")
	}

	if err := cfg.validateStore(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validateStore() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURL == "" || c.DB.Name == "" {
			return fmt.Errorf("mongo driver needs MONGO_URL and DB_NAME")
		}
	case DriverPostgres:
		if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
			return fmt.Errorf("postgres driver needs DB_HOST, DB_USER and DB_NAME")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// OpenStore connects the Persistence Gateway for the configured driver.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.StoreDriver {
	case DriverPostgres:
		return store.OpenPostgres(c.DB.DSN())
	case DriverMemory:
		return store.NewMemory(), nil
	default:
		return store.OpenMongo(ctx, c.MongoURL, c.DB.Name)
	}
}

// AWSClients holds the SDK clients for the optional AWS features. A nil
// client means the feature is off.
type AWSClients struct {
	S3          *s3.Client
	Rekognition *rekognition.Client
	SNS         *sns.Client
}

func (c *Config) AWSClients(ctx context.Context) (*AWSClients, error) {
	out := &AWSClients{}
	if !c.AWS.Enabled() {
		return out, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if c.AWS.PhotoBucket != "" {
		out.S3 = s3.NewFromConfig(awsCfg)
	}
	if c.AWS.RekognitionEnabled {
		out.Rekognition = rekognition.NewFromConfig(awsCfg)
	}
	if c.AWS.FCMPlatformArn != "" {
		out.SNS = sns.NewFromConfig(awsCfg)
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getBool(key string) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
