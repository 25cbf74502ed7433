package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
)

const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	App       *AppCfg       `validate:"required"`
	Http      *HTTPConfig   `validate:"required"`
	Grpc      *GRPCConfig   `validate:"required"`
	Store     *StoreCfg     `validate:"required"`
	Mongo     *MongoCfg     `validate:"required"`
	Db        *PGDBCfg      `validate:"required"`
	Redis     *RedisCfg     `validate:"required"`
	Kafka     *KafkaCfg     `validate:"required"`
	Minio     *MinIOCfg     `validate:"required"`
	Auth      *AuthCfg      `validate:"required"`
	Scheduler *SchedulerCfg `validate:"required"`
}

type AppCfg struct {
	Env        string
	LogBackend string `validate:"oneof=slog zap"`
	LogLevel   string `validate:"oneof=debug info warn error"`
}

type HTTPConfig struct {
	Port         string `validate:"required,numeric"`
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	SwaggerURL   string
}

type GRPCConfig struct {
	Port        string `validate:"required,numeric"`
	NetworkMode string `validate:"oneof=tcp tcp4 tcp6"`
}

// StoreCfg выбирает реализацию документного хранилища.
type StoreCfg struct {
	Driver string `validate:"oneof=mongo postgres"`
}

type MongoCfg struct {
	URI            string `validate:"required_if=Enabled true"`
	Database       string `validate:"required_if=Enabled true"`
	ConnectTimeout time.Duration
	Enabled        bool
}

type PGDBCfg struct {
	Host          string
	Port          string
	User          string `validate:"required_if=Enabled true"`
	Password      string `validate:"required_if=Enabled true"`
	DBName        string `validate:"required_if=Enabled true"`
	SSLMode       string
	MigrationsDir string
	Enabled       bool
}

type RedisCfg struct {
	Addr        string `validate:"required"`
	Password    string
	User        string
	DB          int `validate:"gte=0"`
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	OpTimeout   time.Duration `validate:"gt=0"`
	ProductTTL  time.Duration `validate:"gt=0"`
}

// KafkaCfg — настройки аудита. Пустой список брокеров отключает публикацию.
type KafkaCfg struct {
	Brokers      []string
	AuditTopic   string `validate:"required"`
	NetworkMode  string
	WriteTimeout time.Duration
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string `validate:"required_if=Enabled true"`
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
	PublicBaseURL     string // Базовый URL, из которого строится ссылка на изображение
	MaxImageSize      int64  `validate:"gt=0"`
	Enabled           bool
}

type AuthCfg struct {
	JWTSecret string `validate:"required,min=32"`
}

// SchedulerCfg содержит cron-выражения (с секундами) для фоновых задач обслуживания.
type SchedulerCfg struct {
	CacheFlushSpec  string `validate:"required"`
	TokenPurgeSpec  string `validate:"required"`
	HealthCheckSpec string `validate:"required"`
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	app := loadAppCfg()
	if app.Env == "local" {
		if err := godotenv.Load(".env.local"); err != nil {
			log.Warnf(".env.local not loaded, relying on process environment: %v", err)
		}
		app = loadAppCfg()
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	store := loadStoreCfg()

	mongo, err := loadMongoCfg(log, store.Driver == StoreDriverMongo)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cfg := &Config{
		App:       app,
		Http:      http,
		Grpc:      loadGRPCConfig(),
		Store:     store,
		Mongo:     mongo,
		Db:        loadPGDBCfg(store.Driver == StoreDriverPostgres),
		Redis:     redis,
		Kafka:     kafka,
		Minio:     minio,
		Auth:      &AuthCfg{JWTSecret: getEnv("JWT_SECRET")},
		Scheduler: loadSchedulerCfg(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return cfg, nil
}

// Validate проверяет собранную конфигурацию по тегам validate.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

func loadAppCfg() *AppCfg {
	return &AppCfg{
		Env:        getEnvOrDefault("APP_ENV", "development"),
		LogBackend: strings.ToLower(getEnvOrDefault("LOG_BACKEND", "slog")),
		LogLevel:   strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
	}
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		SwaggerURL:   getEnvOrDefault("SWAGGER_URL", "http://localhost:"+port+"/swagger/doc.json"),
	}, nil
}

func loadGRPCConfig() *GRPCConfig {
	const (
		defaultPort        = "8091"
		defaultNetworkMode = "tcp"
	)

	return &GRPCConfig{
		Port:        getEnvOrDefault("GRPC_PORT", defaultPort),
		NetworkMode: getEnvOrDefault("GRPC_NETWORK_MODE", defaultNetworkMode),
	}
}

func loadStoreCfg() *StoreCfg {
	return &StoreCfg{
		Driver: strings.ToLower(getEnvOrDefault("STORE_DRIVER", StoreDriverMongo)),
	}
}

func loadMongoCfg(log logger.Logger, enabled bool) (*MongoCfg, error) {
	const (
		defaultURI            = "mongodb://localhost:27017"
		defaultDatabase       = "ecommerce"
		defaultConnectTimeout = 10 * time.Second
	)

	connectTimeout, err := parseDurationEnv("MONGO_CONNECT_TIMEOUT", defaultConnectTimeout)
	if err != nil {
		log.Errorf(err, "invalid MONGO_CONNECT_TIMEOUT")
		return nil, err
	}

	return &MongoCfg{
		URI:            getEnvOrDefault("MONGO_URI", defaultURI),
		Database:       getEnvOrDefault("MONGO_DATABASE", defaultDatabase),
		ConnectTimeout: connectTimeout,
		Enabled:        enabled,
	}, nil
}

func loadPGDBCfg(enabled bool) *PGDBCfg {
	const (
		defaultHost          = "localhost"
		defaultPort          = "5432"
		defaultSSLMode       = "disable"
		defaultMigrationsDir = "db/migrations"
	)

	return &PGDBCfg{
		Host:          getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:          getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:          getEnv("POSTGRES_USER"),
		Password:      getEnv("POSTGRES_PASSWORD"),
		DBName:        getEnv("POSTGRES_DB"),
		SSLMode:       getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MigrationsDir: getEnvOrDefault("POSTGRES_MIGRATIONS_DIR", defaultMigrationsDir),
		Enabled:       enabled,
	}
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultOpTimeout    = 500 * time.Millisecond
		defaultProductTTL   = time.Hour
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	opTimeout, err := parseDurationEnv("REDIS_OP_TIMEOUT", defaultOpTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_OP_TIMEOUT")
		return nil, err
	}

	productTTL, err := parseDurationEnv("PRODUCT_TTL", defaultProductTTL)
	if err != nil {
		log.Errorf(err, "invalid PRODUCT_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		OpTimeout:   opTimeout,
		ProductTTL:  productTTL,
	}, nil
}

func loadKafkaCfg(log logger.Logger) (*KafkaCfg, error) {
	const (
		defaultAuditTopic   = "audit-logs"
		defaultNetworkMode  = "tcp"
		defaultWriteTimeout = 5 * time.Second
	)

	var brokers []string
	if brokerStr := getEnv("KAFKA_BROKERS"); brokerStr != "" {
		for _, b := range strings.Split(brokerStr, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	writeTimeout, err := parseDurationEnv("KAFKA_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid KAFKA_WRITE_TIMEOUT")
		return nil, err
	}

	return &KafkaCfg{
		Brokers:      brokers,
		AuditTopic:   getEnvOrDefault("KAFKA_AUDIT_TOPIC", defaultAuditTopic),
		NetworkMode:  getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
		WriteTimeout: writeTimeout,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL       = false
		defaultEndpoint     = "minio:9000"
		defaultMaxImageSize = 15 << 20
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	endpoint := getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint)
	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	bucket := getEnv("BUCKET_NAME")

	return &MinIOCfg{
		MinioEndpoint:     endpoint,
		BucketName:        bucket,
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		PublicBaseURL:     getEnvOrDefault("MINIO_PUBLIC_URL", scheme+"://"+endpoint),
		MaxImageSize:      defaultMaxImageSize,
		Enabled:           bucket != "",
	}, nil
}

func loadSchedulerCfg() *SchedulerCfg {
	const (
		defaultCacheFlushSpec  = "0 0 */4 * * *" // каждые 4 часа
		defaultTokenPurgeSpec  = "0 0 0 * * *"   // каждый день в полночь
		defaultHealthCheckSpec = "0 */5 * * * *" // каждые 5 минут
	)

	return &SchedulerCfg{
		CacheFlushSpec:  getEnvOrDefault("CACHE_FLUSH_CRON", defaultCacheFlushSpec),
		TokenPurgeSpec:  getEnvOrDefault("TOKEN_PURGE_CRON", defaultTokenPurgeSpec),
		HealthCheckSpec: getEnvOrDefault("HEALTH_CHECK_CRON", defaultHealthCheckSpec),
	}
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.Wrap(key, e.ErrIncorrectEnvVariable)
	}

	return intValue, nil
}
