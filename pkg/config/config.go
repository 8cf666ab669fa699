package config

import (
	"fmt"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	Customer CustomerConfig
	Storage  StorageConfig
	DB       DBConfig
	StockAPI StockAPIConfig
	Fetch    FetchConfig
	HTTP     HTTPConfig
	Metrics  MetricsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	Timezone string // zona de los días de calendario (los DAGs corren en Europe/Berlin)
}

// Location resuelve Timezone; UTC si no se reconoce.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CustomerConfig cliente por defecto y datos de referencia de tiendas.
type CustomerConfig struct {
	ID                    string
	CenterWarehouseBranch string // branch del almacén central, excluido del diff
	ActiveStores          string // "custStoreId:branch,..." para sembrar el archivo de tiendas activas
}

// StorageConfig raíz de los artefactos en disco.
type StorageConfig struct {
	DataRoot string
}

// DBConfig configuración de la base de datos fuente (maestros y ventas).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver      string // mysql | postgres
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar según el driver: DATABASE_URL si está definido.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.Driver == "mysql" {
		return c.MySQLDSN()
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	userInfo := url.UserPassword(c.User, c.Password)

	u := &url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}

	return u.String()
}

// MySQLDSN formato de go-sql-driver/mysql.
func (c DBConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// StockAPIConfig API remota de niveles de stock por artículo.
type StockAPIConfig struct {
	URL        string
	Token      string
	AuthScheme string // prefijo del header Authorization
	Timeout    time.Duration
}

// FetchConfig límites del motor de descarga paralela.
type FetchConfig struct {
	Workers      int
	MaxRounds    int
	RetryBackoff time.Duration
	Deadline     time.Duration // 0 = sin deadline
}

// HTTPConfig configuración del servidor HTTP de disparadores.
type HTTPConfig struct {
	Host     string
	Port     int
	DocsFile string // swagger.json generado con swag init; vacío o inexistente = sin /docs
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MetricsConfig exportación de métricas en formato textfile (node_exporter).
type MetricsConfig struct {
	Textfile string
}

// defaultActiveStores tiendas activas del cliente 22001 (custStoreId:branch).
const defaultActiveStores = "2412:1,2416:3,2421:4,2424:5,2426:30,2428:32,2414:6,2415:7," +
	"2418:9,2423:11,2427:31,2432:16,2420:18,2440:13,2425:12,2413:99"

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, STOCK_API_URL, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "stockdelta"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			Timezone: getString(v, "APP_TIMEZONE", "Europe/Berlin"),
		},
		Customer: CustomerConfig{
			ID:                    getString(v, "CUSTOMER_ID", "22001"),
			CenterWarehouseBranch: getString(v, "CENTER_WAREHOUSE_BRANCH", "99"),
			ActiveStores:          getString(v, "ACTIVE_STORES", defaultActiveStores),
		},
		Storage: StorageConfig{
			DataRoot: getString(v, "DATA_ROOT", "./data"),
		},
		DB: DBConfig{
			Driver:      getString(v, "DB_DRIVER", "mysql"),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 3306),
			User:        getString(v, "DB_USER", ""),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "globalStock"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		StockAPI: StockAPIConfig{
			URL:        getString(v, "STOCK_API_URL", ""),
			Token:      getString(v, "STOCK_API_TOKEN", ""),
			AuthScheme: getString(v, "STOCK_API_AUTH_SCHEME", "BASIC"),
			Timeout:    time.Duration(getInt(v, "STOCK_API_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Fetch: FetchConfig{
			Workers:      getInt(v, "FETCH_WORKERS", runtime.GOMAXPROCS(0)),
			MaxRounds:    getInt(v, "FETCH_MAX_ROUNDS", 10),
			RetryBackoff: time.Duration(getInt(v, "FETCH_RETRY_BACKOFF_MS", 1000)) * time.Millisecond,
			Deadline:     time.Duration(getInt(v, "FETCH_DEADLINE_SECONDS", 0)) * time.Second,
		},
		HTTP: HTTPConfig{
			Host:     getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:     getInt(v, "HTTP_PORT", 8080),
			DocsFile: getString(v, "HTTP_DOCS_FILE", "./docs/swagger.json"),
		},
		Metrics: MetricsConfig{
			Textfile: getString(v, "METRICS_TEXTFILE", ""),
		},
	}

	if cfg.DB.Driver != "mysql" && cfg.DB.Driver != "postgres" {
		return nil, fmt.Errorf("DB_DRIVER %q no soportado (mysql|postgres)", cfg.DB.Driver)
	}
	if cfg.Fetch.Workers < 1 {
		cfg.Fetch.Workers = 1
	}
	if cfg.Fetch.MaxRounds < 1 {
		return nil, fmt.Errorf("FETCH_MAX_ROUNDS debe ser >= 1")
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
