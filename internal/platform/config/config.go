package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	StoreBackend   string `mapstructure:"STORE_BACKEND"`
	CatalogBackend string `mapstructure:"CATALOG_BACKEND"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBMaxConns int    `mapstructure:"DB_MAX_CONNS"`

	MongoURL      string `mapstructure:"MONGO_URL"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	RedisHost        string        `mapstructure:"REDIS_HOST"`
	RedisPort        string        `mapstructure:"REDIS_PORT"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int           `mapstructure:"REDIS_DB"`
	CalendarCacheTTL time.Duration `mapstructure:"CALENDAR_CACHE_TTL"`

	RazorpayKeyID         string `mapstructure:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret     string `mapstructure:"RAZORPAY_KEY_SECRET"`
	RazorpayWebhookSecret string `mapstructure:"RAZORPAY_WEBHOOK_SECRET"`
	RazorpayBaseURL       string `mapstructure:"RAZORPAY_BASE_URL"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	Currency         string        `mapstructure:"CURRENCY"`
	HoldTTL          time.Duration `mapstructure:"HOLD_TTL"`
	SweepInterval    time.Duration `mapstructure:"SWEEP_INTERVAL"`
	SweepBatchSize   int           `mapstructure:"SWEEP_BATCH_SIZE"`
	PaidConfirmGrace time.Duration `mapstructure:"PAID_CONFIRM_GRACE"`

	// Rooms seeds the in-memory catalog. Only read from the config file.
	Rooms []RoomSeed `mapstructure:"ROOMS"`
}

type RoomSeed struct {
	ID            string   `mapstructure:"id"`
	Name          string   `mapstructure:"name"`
	PricePerNight int64    `mapstructure:"price_per_night"`
	PriceWithMeal int64    `mapstructure:"price_with_meal"`
	MaxGuests     int      `mapstructure:"max_guests"`
	Accommodation []string `mapstructure:"accommodation"`
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("STORE_BACKEND", "postgres")
	v.SetDefault("CATALOG_BACKEND", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "villa_booking")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("MONGO_URL", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "villa")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CALENDAR_CACHE_TTL", "5m")
	v.SetDefault("RAZORPAY_KEY_ID", "")
	v.SetDefault("RAZORPAY_KEY_SECRET", "")
	v.SetDefault("RAZORPAY_WEBHOOK_SECRET", "")
	v.SetDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("CURRENCY", "INR")
	v.SetDefault("HOLD_TTL", "15m")
	v.SetDefault("SWEEP_INTERVAL", "1m")
	v.SetDefault("SWEEP_BATCH_SIZE", 100)
	v.SetDefault("PAID_CONFIRM_GRACE", "30m")
}

// Load reads config.yaml from the working directory or ./config when
// present. Environment variables always win over the file.
func Load(paths ...string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.StoreBackend = strings.ToLower(cfg.StoreBackend)
	cfg.CatalogBackend = strings.ToLower(cfg.CatalogBackend)

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	switch c.CatalogBackend {
	case "postgres", "mongo", "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown CATALOG_BACKEND %q", c.CatalogBackend))
	}

	if c.CatalogBackend == "postgres" && c.StoreBackend != "postgres" {
		errs = append(errs, errors.New("CATALOG_BACKEND=postgres requires STORE_BACKEND=postgres"))
	}

	if c.HoldTTL <= 0 {
		errs = append(errs, errors.New("HOLD_TTL must be positive"))
	}

	if c.IsProduction() {
		if c.RazorpayKeySecret == "" {
			errs = append(errs, errors.New("RAZORPAY_KEY_SECRET is required in production"))
		}
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required in production"))
		}
	}

	return errors.Join(errs...)
}
