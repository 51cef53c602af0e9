package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Service string
	App     AppConfig
	Storage StorageConfig
	DB      DBConfig
	CORS    CORSConfig
}

type AppConfig struct {
	Port    string
	Env     string
	BaseURL string
}

type StorageConfig struct {
	Driver     string
	SQLitePath string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Значения по умолчанию для каждого сервиса
var serviceDefaults = map[string]struct {
	port   string
	dbPath string
}{
	"shorturl": {port: "8001", dbPath: "data/shorturl.db"},
	"todo":     {port: "8000", dbPath: "data/todo.db"},
}

// Load читает конфигурацию сервиса из окружения (с префиксом имени сервиса)
// и необязательного файла .env в рабочей директории.
func Load(service string) (*Config, error) {
	defaults, ok := serviceDefaults[service]
	if !ok {
		return nil, fmt.Errorf("unknown service %q", service)
	}

	// .env необязателен, в проде переменные приходят из окружения
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(strings.ToUpper(service))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.port", defaults.port)
	v.SetDefault("app.env", "production")
	v.SetDefault("app.base_url", "http://localhost:"+defaults.port)
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", defaults.dbPath)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", service)
	v.SetDefault("cors.allowed_origins", "*")

	cfg := &Config{Service: service}
	cfg.App.Port = v.GetString("app.port")
	cfg.App.Env = strings.ToLower(v.GetString("app.env"))
	cfg.App.BaseURL = strings.TrimRight(v.GetString("app.base_url"), "/")
	cfg.Storage.Driver = strings.ToLower(v.GetString("storage.driver"))
	cfg.Storage.SQLitePath = v.GetString("storage.sqlite_path")
	cfg.DB.Host = v.GetString("db.host")
	cfg.DB.Port = v.GetString("db.port")
	cfg.DB.User = v.GetString("db.user")
	cfg.DB.Password = v.GetString("db.password")
	cfg.DB.Name = v.GetString("db.name")
	cfg.CORS.AllowedOrigins = parseList(v.GetString("cors.allowed_origins"))

	if cfg.Storage.Driver != DriverSQLite && cfg.Storage.Driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// DSN строка подключения к PostgreSQL
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
	)
}

// parseList разбирает список через запятую: "a, b,c"
func parseList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
