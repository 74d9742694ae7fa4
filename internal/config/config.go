package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	AWSRegion string
	// SMSDryRun logs challenge codes instead of publishing to SNS.
	SMSDryRun bool

	// Key under which pending (unconfirmed) visits are staged in redis.
	PendingVisitsKey string
	// Prefix for per-beneficiary challenge code keys.
	ChallengeKeyPrefix   string
	ChallengeTTLSecs     int
	ChallengeMaxAttempts int

	IdempTTLSecs int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "impulso"),
		MySQLUser: getenv("MYSQL_USER", "impulso"),
		MySQLPass: getenv("MYSQL_PASS", "impulso"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getint("REDIS_DB", 0),

		AWSRegion: getenv("AWS_REGION", "us-east-1"),
		SMSDryRun: getenv("SMS_DRY_RUN", "true") == "true",

		PendingVisitsKey:     getenv("STORAGE_KEY_PENDING_VISITS", "impulso:pending-visits"),
		ChallengeKeyPrefix:   getenv("CHALLENGE_KEY_PREFIX", "impulso:sms-code"),
		ChallengeTTLSecs:     getint("CHALLENGE_TTL_SECONDS", 300),
		ChallengeMaxAttempts: getint("CHALLENGE_MAX_ATTEMPTS", 5),

		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.ChallengeTTLSecs <= 0 {
		return errors.New("CHALLENGE_TTL_SECONDS must be positive")
	}
	if c.ChallengeMaxAttempts <= 0 {
		return errors.New("CHALLENGE_MAX_ATTEMPTS must be positive")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
