package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Postgres  PostgresConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Elastic   ElasticsearchConfig
	Storage   StorageConfig
	Inventory InventoryConfig
}

type ServerConfig struct {
	AppEnv       string
	HTTPPort     string
	GRPCPort     string
	Timezone     string
	CORSOrigins  []string
	MaxBodyBytes int64
}

// IsDevelopment reports whether error details may be exposed to clients.
func (s ServerConfig) IsDevelopment() bool {
	return s.AppEnv == "development" || s.AppEnv == "dev"
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	File              string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
	AutoMigrate     bool
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
	AuthzMode string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type KafkaConfig struct {
	Brokers        []string
	MovementsTopic string
	ReceiptsTopic  string
	GroupID        string
	ConsumeEnabled bool
}

type ElasticsearchConfig struct {
	Addresses []string
	Username  string
	Password  string
}

type StorageConfig struct {
	Driver      string
	LocalRoot   string
	PublicURL   string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

type InventoryConfig struct {
	DefaultWarehouseID int64
	MaxPhotos          int
	LowStockCron       string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:       getEnv("APP_ENV", "production"),
			HTTPPort:     getEnv("HTTP_PORT", ":5001"),
			GRPCPort:     getEnv("GRPC_PORT", ":8082"),
			Timezone:     getEnv("APP_TIMEZONE", "Asia/Yangon"),
			CORSOrigins:  getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", 20<<20)),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "info"),
			Encoding:          getEnv("LOGGER_ENCODING", "json"),
			File:              getEnv("LOGGER_FILE", ""),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "pos"),
			Password:        getEnv("POSTGRES_PASSWORD", "pos"),
			DBName:          getEnv("POSTGRES_DB", "ano_pos"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", "your-secret-key-change-this-in-prod"),
			TTL:       getEnvDuration("JWT_TTL", time.Hour),
			AuthzMode: getEnv("AUTHZ_MODE", "authenticated"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("REDIS_PRODUCT_LIST_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:        getEnvSlice("KAFKA_BROKERS", nil),
			MovementsTopic: getEnv("KAFKA_TOPIC_MOVEMENTS", "inventory.movements"),
			ReceiptsTopic:  getEnv("KAFKA_TOPIC_RECEIPTS", "stock.receipts"),
			GroupID:        getEnv("KAFKA_GROUP_INVENTORY", "ano-inventory"),
			ConsumeEnabled: getEnvBool("KAFKA_CONSUME_RECEIPTS", false),
		},
		Elastic: ElasticsearchConfig{
			Addresses: getEnvSlice("ELASTICSEARCH_ADDRESSES", nil),
			Username:  getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:  getEnv("ELASTICSEARCH_PASSWORD", ""),
		},
		Storage: StorageConfig{
			Driver:      getEnv("STORAGE_DRIVER", "local"),
			LocalRoot:   getEnv("STORAGE_LOCAL_ROOT", "uploads"),
			PublicURL:   getEnv("STORAGE_PUBLIC_URL", "/uploads"),
			S3Bucket:    getEnv("S3_BUCKET", ""),
			S3Region:    getEnv("S3_REGION", "ap-southeast-1"),
			S3Endpoint:  getEnv("S3_ENDPOINT", ""),
			S3AccessKey: getEnv("S3_ACCESS_KEY_ID", ""),
			S3SecretKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		},
		Inventory: InventoryConfig{
			DefaultWarehouseID: int64(getEnvInt("DEFAULT_WAREHOUSE_ID", 1)),
			MaxPhotos:          getEnvInt("MAX_PHOTOS", 4),
			LowStockCron:       getEnv("LOW_STOCK_CRON", "@every 30m"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return fallback
}
