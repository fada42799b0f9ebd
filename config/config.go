package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	ServiceName       string `mapstructure:"SERVICE_NAME"`

	// Store selection: mongo, postgres or memory.
	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`
	PostgresDSN   string `mapstructure:"POSTGRES_DSN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Availability cache: redis, lru or none.
	CacheBackend string        `mapstructure:"CACHE_BACKEND"`
	CacheTTL     time.Duration `mapstructure:"CACHE_TTL"`
	CacheSize    int           `mapstructure:"CACHE_SIZE"`

	// Matching.
	MaxCandidates int           `mapstructure:"MAX_CANDIDATES"`
	ReminderLead  time.Duration `mapstructure:"REMINDER_LEAD"`

	// Domain events.
	RabbitMQURL      string `mapstructure:"RABBITMQ_URL"`
	RabbitMQExchange string `mapstructure:"RABBITMQ_EXCHANGE"`

	// Cloudinary avatar delivery.
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	// OTLP gRPC collector; tracing is off when empty.
	OtelEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

var AppConfig Config

// osArgs is swapped in tests so flag parsing does not see the test binary's flags.
var osArgs = func() []string {
	if len(os.Args) < 2 {
		return nil
	}
	return os.Args[1:]
}

// setDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("SERVICE_NAME", "sparkclean")

	v.SetDefault("STORE_DRIVER", "mongo")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "sparkclean")
	v.SetDefault("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=sparkclean port=5432 sslmode=disable")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)

	v.SetDefault("CACHE_BACKEND", "redis")
	v.SetDefault("CACHE_TTL", 30*time.Second)
	v.SetDefault("CACHE_SIZE", 1024)

	v.SetDefault("MAX_CANDIDATES", 20)
	v.SetDefault("REMINDER_LEAD", 24*time.Hour)

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "sparkclean.events")

	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")

	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
}

// LoadConfig reads .env, command line flags, config.yaml and the environment,
// in increasing order of precedence for the environment.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, continuing")
	}

	flags := pflag.NewFlagSet("sparkclean", pflag.ContinueOnError)
	configFile := flags.String("config", "", "path to a config.yaml file")
	flags.String("port", "", "HTTP port (overrides APP_PORT)")
	flags.String("store", "", "store driver: mongo, postgres or memory")
	if err := flags.Parse(osArgs()); err != nil {
		log.Printf("Ignoring unparsable flags: %v", err)
	}

	v := viper.GetViper()
	setDefaults(v)

	if *configFile != "" {
		v.SetConfigFile(*configFile)
	} else {
		// Look for a config file named "config.yaml" in the current and "config" directory.
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.AutomaticEnv()

	if f := flags.Lookup("port"); f != nil && f.Changed {
		_ = v.BindPFlag("APP_PORT", f)
	}
	if f := flags.Lookup("store"); f != nil && f.Changed {
		_ = v.BindPFlag("STORE_DRIVER", f)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := v.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
