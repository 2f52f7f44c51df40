package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
	DriverMongo  = "mongo"
)

type Config struct {
	Port              int
	StoreDriver       string
	DatabaseDSN       string
	MongoURI          string
	MongoDatabase     string
	Secret            string
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	TokenTTL          time.Duration
	LogLevel          string
	LogFormat         string
}

// Load reads the given .env files (".env" when none are given) and then the
// process environment. Missing env files are not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrapf(err, "load %s", f)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		StoreDriver:       strings.ToLower(orDefault(getenv("STORE_DRIVER"), DriverMySQL)),
		DatabaseDSN:       getenv("DATABASE_DSN"),
		MongoURI:          orDefault(getenv("MONGO_URI"), "mongodb://localhost:27017"),
		MongoDatabase:     orDefault(getenv("MONGO_DATABASE"), "results"),
		Secret:            getenv("SECRET"),
		AdminUsername:     orDefault(getenv("ADMIN_USERNAME"), "admin"),
		AdminPassword:     getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: getenv("ADMIN_PASSWORD_HASH"),
		LogLevel:          orDefault(getenv("LOG_LEVEL"), "info"),
		LogFormat:         orDefault(getenv("LOG_FORMAT"), "text"),
	}

	port, err := strconv.Atoi(orDefault(getenv("PORT"), "5000"))
	if err != nil || port <= 0 {
		return nil, errors.Errorf("invalid PORT %q", getenv("PORT"))
	}
	cfg.Port = port

	ttl, err := time.ParseDuration(orDefault(getenv("TOKEN_TTL"), "24h"))
	if err != nil || ttl <= 0 {
		return nil, errors.Errorf("invalid TOKEN_TTL %q", getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.Secret == "" {
		missing = append(missing, "SECRET")
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		missing = append(missing, "ADMIN_PASSWORD or ADMIN_PASSWORD_HASH")
	}
	switch c.StoreDriver {
	case DriverMySQL, DriverSQLite:
		if c.DatabaseDSN == "" {
			missing = append(missing, "DATABASE_DSN")
		}
	case DriverMongo:
	default:
		return errors.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
