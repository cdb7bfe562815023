package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Drivers de armazenamento aceitos em STORE_DRIVER.
const (
	DriverMongo     = "mongo"
	DriverFirestore = "firestore"
	DriverPostgres  = "postgres"
	DriverMemory    = "memory"
)

// DefaultJWTSecret só existe para desenvolvimento local.
const DefaultJWTSecret = "supersecretkey"

// Config reúne tudo que o processo lê do ambiente.
type Config struct {
	Port            string
	JWTSecret       string
	StoreDriver     string
	TasksCollection string

	MongoURI      string
	MongoDatabase string

	FirebaseCredentialsPath string
	FirebaseProjectID       string

	Postgres PostgresConfig

	CORSAllowedOrigins []string
	Debug              bool
	ShutdownTimeout    time.Duration
}

// PostgresConfig guarda os parâmetros de conexão com o PostgreSQL.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN monta a string de conexão no formato key=value aceito pelo lib/pq.
// Os valores vão entre aspas simples para suportar espaços e aspas na senha.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dsnQuote(p.Host), dsnQuote(p.Port), dsnQuote(p.User),
		dsnQuote(p.Password), dsnQuote(p.DBName), dsnQuote(p.SSLMode))
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func dsnQuote(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}

// UsingDefaultSecret indica que o segredo JWT não foi configurado.
func (c *Config) UsingDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// Load lê o arquivo .env (se existir) e depois as variáveis de ambiente.
// Retorna o Config e um booleano dizendo se o .env foi carregado.
func Load() (*Config, bool, error) {
	loadedDotenv := godotenv.Load() == nil

	cfg, err := FromEnv()
	return cfg, loadedDotenv, err
}

// FromEnv monta o Config apenas a partir das variáveis já presentes no processo.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:                    getenv("SERVER_PORT", "8080"),
		JWTSecret:               getenv("JWT_SECRET", DefaultJWTSecret),
		StoreDriver:             strings.ToLower(getenv("STORE_DRIVER", DriverMongo)),
		TasksCollection:         getenv("TASKS_COLLECTION", "tasks"),
		MongoURI:                getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:           getenv("MONGO_DATABASE", "todo_shared"),
		FirebaseCredentialsPath: os.Getenv("FIREBASE_CREDENTIALS_PATH"),
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		Postgres: PostgresConfig{
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenv("DB_PORT", "5432"),
			User:     getenv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   getenv("DB_NAME", "tasks"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
		Debug: strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug"),
	}

	if _, err := strconv.ParseUint(cfg.Port, 10, 16); err != nil {
		return nil, fmt.Errorf("SERVER_PORT inválida %q: %w", cfg.Port, err)
	}

	switch cfg.StoreDriver {
	case DriverMongo, DriverFirestore, DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("STORE_DRIVER desconhecido: %q", cfg.StoreDriver)
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET não pode ser vazio")
	}

	timeout, err := time.ParseDuration(getenv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT inválido: %w", err)
	}
	cfg.ShutdownTimeout = timeout

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
