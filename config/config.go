package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Wallet    WalletConfig    `mapstructure:"wallet"`
	Security  SecurityConfig  `mapstructure:"security"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Fraud     FraudConfig     `mapstructure:"fraud"`
	Approval  ApprovalConfig  `mapstructure:"approval"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type WalletConfig struct {
	Currency       string `mapstructure:"currency"`
	InitialBalance int64  `mapstructure:"initial_balance"` // Minor currency units, granted on lazy creation
	HistoryCap     int    `mapstructure:"history_cap"`     // Max retained ledger entries per account
}

type SecurityConfig struct {
	HMACSecret      string        `mapstructure:"hmac_secret"`
	TimestampWindow time.Duration `mapstructure:"timestamp_window"`
	NonceTTL        time.Duration `mapstructure:"nonce_ttl"`
}

type RateLimitConfig struct {
	Window        time.Duration `mapstructure:"window"`
	DepositLimit  int64         `mapstructure:"deposit_limit"`
	WithdrawLimit int64         `mapstructure:"withdraw_limit"`
	TransferLimit int64         `mapstructure:"transfer_limit"`
	GenericLimit  int64         `mapstructure:"generic_limit"`
	GlobalLimit   int64         `mapstructure:"global_limit"` // Per-account budget across all classes
}

type FraudConfig struct {
	UnusualAmountThreshold int64         `mapstructure:"unusual_amount_threshold"`
	RapidTransactionCount  int           `mapstructure:"rapid_transaction_count"`
	RapidTransactionWindow time.Duration `mapstructure:"rapid_transaction_window"`
	FailedAttemptCount     int           `mapstructure:"failed_attempt_count"`
	FailedAttemptWindow    time.Duration `mapstructure:"failed_attempt_window"`
	GeoAnomalyWindow       time.Duration `mapstructure:"geo_anomaly_window"`
}

type ApprovalConfig struct {
	LargeAmountThreshold int64         `mapstructure:"large_amount_threshold"`
	Timeout              time.Duration `mapstructure:"timeout"`
	SweepInterval        time.Duration `mapstructure:"sweep_interval"`
}

type AdminConfig struct {
	Username  string        `mapstructure:"username"`
	Password  string        `mapstructure:"password"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTExpiry time.Duration `mapstructure:"jwt_expiry"`
	JWTIssuer string        `mapstructure:"jwt_issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: GWG_ (Game Wallet
// Gateway). Nested keys use underscore: GWG_SECURITY_HMAC_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "wallet_gateway")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("wallet.currency", "USD")
	v.SetDefault("wallet.initial_balance", 0)
	v.SetDefault("wallet.history_cap", 1000)
	v.SetDefault("security.hmac_secret", "")
	v.SetDefault("security.timestamp_window", "5m")
	v.SetDefault("security.nonce_ttl", "24h")
	v.SetDefault("ratelimit.window", "1m")
	v.SetDefault("ratelimit.deposit_limit", 10)
	v.SetDefault("ratelimit.withdraw_limit", 10)
	v.SetDefault("ratelimit.transfer_limit", 10)
	v.SetDefault("ratelimit.generic_limit", 30)
	v.SetDefault("ratelimit.global_limit", 60)
	v.SetDefault("fraud.unusual_amount_threshold", 1000000)
	v.SetDefault("fraud.rapid_transaction_count", 10)
	v.SetDefault("fraud.rapid_transaction_window", "1m")
	v.SetDefault("fraud.failed_attempt_count", 3)
	v.SetDefault("fraud.failed_attempt_window", "10m")
	v.SetDefault("fraud.geo_anomaly_window", "1h")
	v.SetDefault("approval.large_amount_threshold", 500000)
	v.SetDefault("approval.timeout", "1h")
	v.SetDefault("approval.sweep_interval", "5m")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "")
	v.SetDefault("admin.jwt_secret", "")
	v.SetDefault("admin.jwt_expiry", "24h")
	v.SetDefault("admin.jwt_issuer", "game-wallet-gateway")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: GWG_SECURITY_HMAC_SECRET -> security.hmac_secret
	v.SetEnvPrefix("GWG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional, env vars can suffice
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
