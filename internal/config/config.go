package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App              App              `mapstructure:",squash"`
	Server           Server           `mapstructure:",squash"`
	Database         Database         `mapstructure:",squash"`
	Meta             Meta             `mapstructure:",squash"`
	Analysis         Analysis         `mapstructure:",squash"`
	AnalysisSchedule AnalysisSchedule `mapstructure:",squash"`
	Auth             Auth             `mapstructure:",squash"`
	Redis            Redis            `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN          string        `mapstructure:"-"`
	Driver       string        `mapstructure:"database_driver"`
	Password     string        `mapstructure:"database_password"`
	URL          string        `mapstructure:"database_url"`
	User         string        `mapstructure:"database_user"`
	QueryTimeout time.Duration `mapstructure:"database_query_timeout"`
}

type Meta struct {
	BaseURL        string        `mapstructure:"meta_base_url"`
	URL            string        `mapstructure:"-"`
	Version        string        `mapstructure:"meta_version"`
	AccessToken    string        `mapstructure:"meta_access_token"`
	AdAccountID    string        `mapstructure:"meta_ad_account_id"`
	AppID          string        `mapstructure:"meta_app_id"`
	AppSecret      string        `mapstructure:"meta_app_secret"`
	RequestTimeout time.Duration `mapstructure:"meta_request_timeout"`
	MaxRetries     int           `mapstructure:"meta_max_retries"`
	RetryBaseDelay time.Duration `mapstructure:"meta_retry_base_delay"`
	MaxPages       int           `mapstructure:"meta_max_pages"`
	RateLimitRPS   float64       `mapstructure:"meta_rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"meta_rate_limit_burst"`
}

type Analysis struct {
	SchemaVersion string `mapstructure:"analysis_schema_version"`
	Currency      string `mapstructure:"account_currency"`
	Source        string `mapstructure:"analysis_source"`
}

type AnalysisSchedule struct {
	CronSchedule string `mapstructure:"analysis_schedule_cron"`
	DateRange    string `mapstructure:"analysis_schedule_date_range"`
	Enabled      bool   `mapstructure:"analysis_schedule_enabled"`
}

type Auth struct {
	Secret            string        `mapstructure:"auth_secret"`
	TokenTTL          time.Duration `mapstructure:"auth_token_ttl"`
	AdminEmail        string        `mapstructure:"auth_admin_email"`
	AdminPasswordHash string        `mapstructure:"auth_admin_password_hash"`
}

type Redis struct {
	Addr        string        `mapstructure:"redis_addr"`
	Password    string        `mapstructure:"redis_password"`
	DB          int           `mapstructure:"redis_db"`
	SnapshotTTL time.Duration `mapstructure:"redis_snapshot_ttl"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:4001")

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("LOG_FILE", "") // Vazio desabilita o arquivo de log

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/mruda?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "postgres")
	viper.SetDefault("DATABASE_QUERY_TIMEOUT", "30s")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v21.0")
	viper.SetDefault("META_ACCESS_TOKEN", "")
	viper.SetDefault("META_AD_ACCOUNT_ID", "")
	viper.SetDefault("META_APP_ID", "")
	viper.SetDefault("META_APP_SECRET", "")
	viper.SetDefault("META_REQUEST_TIMEOUT", "30s")
	viper.SetDefault("META_MAX_RETRIES", 3)        // Tentativas em 429, 5xx e falhas de conexão
	viper.SetDefault("META_RETRY_BASE_DELAY", "2s") // Dobra a cada tentativa
	viper.SetDefault("META_MAX_PAGES", 50)
	viper.SetDefault("META_RATE_LIMIT_RPS", 5)
	viper.SetDefault("META_RATE_LIMIT_BURST", 10)

	viper.SetDefault("ANALYSIS_SCHEMA_VERSION", "1.0.0")
	viper.SetDefault("ACCOUNT_CURRENCY", "INR") // Usada quando a Meta não informa a moeda
	viper.SetDefault("ANALYSIS_SOURCE", "meta")

	viper.SetDefault("ANALYSIS_SCHEDULE_CRON", "0 2 * * *") // Todos os dias às 2h da manhã
	viper.SetDefault("ANALYSIS_SCHEDULE_DATE_RANGE", "yesterday")
	viper.SetDefault("ANALYSIS_SCHEDULE_ENABLED", true)

	viper.SetDefault("AUTH_SECRET", "change_me")
	viper.SetDefault("AUTH_TOKEN_TTL", "24h")
	viper.SetDefault("AUTH_ADMIN_EMAIL", "")
	viper.SetDefault("AUTH_ADMIN_PASSWORD_HASH", "")

	viper.SetDefault("REDIS_ADDR", "") // Vazio desabilita o cache
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_SNAPSHOT_TTL", "1h")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.finalize()

	return config, nil
}

// finalize monta os valores derivados
func (c *Config) finalize() {
	c.Meta.URL = fmt.Sprintf("%s/%s", c.Meta.BaseURL, c.Meta.Version)

	c.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		c.Database.Driver,
		c.Database.User,
		c.Database.Password,
		c.Database.URL,
	)
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
