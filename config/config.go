package config

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	Env         string      `yaml:"env" env:"ENV" env-default:"local" env-description:"Environment" env-choices:"local,dev,prod"`
	HTTP        HTTP        `yaml:"http"`
	Postgres    Postgres    `yaml:"postgres"`
	Session     Session     `yaml:"session"`
	TransferAPI TransferAPI `yaml:"transfer_api"`
}

type HTTP struct {
	Host         string        `yaml:"host" env:"HTTP_HOST" env-default:"localhost"`
	Port         int           `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"DATABASE_HOST" env-default:"db"`
	Port     string `yaml:"port" env:"DATABASE_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DATABASE_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DATABASE_PASSWORD" env-default:"password"`
	Name     string `yaml:"name" env:"DATABASE_NAME" env-default:"wallet"`
}

type Session struct {
	Secret    string        `yaml:"secret" env:"SESSION_SECRET" env-default:"secret"`
	TTL       time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"24h"`
	EntryPath string        `yaml:"entry_path" env:"SESSION_ENTRY_PATH" env-default:"/"`
}

type TransferAPI struct {
	BaseURL string        `yaml:"base_url" env:"TRANSFER_API_URL" env-default:"http://localhost:3000"`
	Timeout time.Duration `yaml:"timeout" env:"TRANSFER_API_TIMEOUT" env-default:"10s"`
}

// LoadConfig reads an optional YAML file and then the environment. A .env file
// in the working directory is loaded first when present.
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		return cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	return cfg, nil
}

func LoadConfigOrPanic() Config {
	cfg, err := LoadConfig(fetchConfigPath())
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

func (c Config) PostgresConnStr() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.User,
		c.Postgres.Password,
		c.Postgres.Name,
	)
}

func InitDB(ctx context.Context, cfg Config) *sql.DB {
	db, err := sql.Open("postgres", cfg.PostgresConnStr())
	if err != nil {
		panic(fmt.Sprintf("database connection error: %v", err))
	}
	if err = db.PingContext(ctx); err != nil {
		panic(fmt.Sprintf("database ping error: %v", err))
	}
	return db
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
