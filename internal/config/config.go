package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	AppPort  string
	LogLevel string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	ScoringURL     string
	ScoringTimeout time.Duration

	AnalysisURL     string
	AnalysisTimeout time.Duration

	UploadDir string

	KafkaBroker string
	KafkaTopic  string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getseconds(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return d
}

func Load() *Config {
	// .env is a local-dev convenience; absence is not an error
	_ = godotenv.Load()

	c := &Config{
		Env:      getenv("APP_ENV", "development"),
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "loanflow"),
		MySQLUser: getenv("MYSQL_USER", "loanflow"),
		MySQLPass: getenv("MYSQL_PASS", "loanflow"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		IdempTTLSecs: 300,

		ScoringURL:     getenv("SCORING_URL", "http://scoring:9000"),
		ScoringTimeout: getseconds("SCORING_TIMEOUT_SECONDS", 10*time.Second),

		AnalysisURL:     os.Getenv("ANALYSIS_URL"),
		AnalysisTimeout: getseconds("ANALYSIS_TIMEOUT_SECONDS", 15*time.Second),

		UploadDir: getenv("UPLOAD_DIR", "/var/lib/loanflow/uploads"),

		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		KafkaTopic:  getenv("KAFKA_TOPIC", "loanflow.status-events"),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
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
	if c.ScoringURL == "" {
		return errors.New("missing SCORING_URL")
	}
	if c.UploadDir == "" {
		return errors.New("missing UPLOAD_DIR")
	}
	return nil
}

func (c *Config) IdempTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
