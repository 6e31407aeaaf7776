package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Límites que se validan al arrancar. Deben coincidir con los de bcrypt y pkg/jwt.
const (
	minJWTSecretLength = 32
	minBcryptCost      = 4
	maxBcryptCost      = 31
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	Auth      AuthConfig
	HTTP      HTTPConfig
	SMTP      SMTPConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	Storage  string // postgres | memory
	LogLevel string
	// PublicURL base pública del API para los enlaces que salen por email (APP_PUBLIC_URL).
	// Nunca se toma del Host de la petición.
	PublicURL string
}

// IsProduction indica si se corre en producción (cookies secure, sin detalle de errores).
func (c AppConfig) IsProduction() bool { return c.Env == "production" }

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración del token de sesión y de su cookie.
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
	CookieName string
	CookieTTL  time.Duration
}

// AuthConfig parámetros del flujo de contraseñas.
type AuthConfig struct {
	BcryptCost        int
	ResetWindow       time.Duration
	EmailTimeout      time.Duration
	MaxSigninAttempts int
	SigninLockout     time.Duration
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SMTPConfig servidor de correo saliente. Host vacío = los emails se escriben en el log.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// RedisConfig Redis para el limitador de login. Addr vacío = sin limitador.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig token bucket por IP para las rutas /auth.
type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo) y la valida.
// Las env vars tienen prioridad. Un error aquí es fatal para el proceso.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "tours-api"),
			Storage:  getString(v, "APP_STORAGE", "postgres"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "tours"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: minutes(getInt(v, "JWT_EXPIRATION_MINUTES", 90*24*60)),
			Issuer:     getString(v, "JWT_ISSUER", "tours-api"),
			CookieName: getString(v, "JWT_COOKIE_NAME", "jwt"),
			CookieTTL:  minutes(getInt(v, "JWT_COOKIE_MAX_AGE_MINUTES", 90*24*60)),
		},
		Auth: AuthConfig{
			BcryptCost:        getInt(v, "AUTH_BCRYPT_COST", 12),
			ResetWindow:       minutes(getInt(v, "AUTH_RESET_WINDOW_MINUTES", 10)),
			EmailTimeout:      time.Duration(getInt(v, "EMAIL_SEND_TIMEOUT_SECONDS", 10)) * time.Second,
			MaxSigninAttempts: getInt(v, "AUTH_MAX_SIGNIN_ATTEMPTS", 5),
			SigninLockout:     minutes(getInt(v, "AUTH_SIGNIN_LOCKOUT_MINUTES", 15)),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		SMTP: SMTPConfig{
			Host:     getString(v, "SMTP_HOST", ""),
			Port:     getInt(v, "SMTP_PORT", 587),
			User:     getString(v, "SMTP_USER", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "EMAIL_FROM", "Natours <no-reply@natours.io>"),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			PerSecond: getFloat(v, "AUTH_RATE_LIMIT_PER_SECOND", 1),
			Burst:     getInt(v, "AUTH_RATE_LIMIT_BURST", 10),
		},
	}
	cfg.App.PublicURL = strings.TrimRight(
		getString(v, "APP_PUBLIC_URL", fmt.Sprintf("http://localhost:%d", cfg.HTTP.Port)), "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate comprueba los valores obligatorios del subsistema de autenticación.
func (c *Config) Validate() error {
	var errs []error
	if len(c.JWT.Secret) < minJWTSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET es obligatorio y debe tener al menos %d caracteres", minJWTSecretLength))
	}
	if c.JWT.Expiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINUTES debe ser positivo"))
	}
	if c.JWT.CookieTTL <= 0 {
		errs = append(errs, errors.New("JWT_COOKIE_MAX_AGE_MINUTES debe ser positivo"))
	}
	if c.JWT.CookieName == "" {
		errs = append(errs, errors.New("JWT_COOKIE_NAME no puede estar vacío"))
	}
	if c.Auth.BcryptCost < minBcryptCost || c.Auth.BcryptCost > maxBcryptCost {
		errs = append(errs, fmt.Errorf("AUTH_BCRYPT_COST debe estar entre %d y %d", minBcryptCost, maxBcryptCost))
	}
	if c.Auth.ResetWindow <= 0 {
		errs = append(errs, errors.New("AUTH_RESET_WINDOW_MINUTES debe ser positivo"))
	}
	if c.Auth.EmailTimeout <= 0 {
		errs = append(errs, errors.New("EMAIL_SEND_TIMEOUT_SECONDS debe ser positivo"))
	}
	if c.Auth.MaxSigninAttempts <= 0 {
		errs = append(errs, errors.New("AUTH_MAX_SIGNIN_ATTEMPTS debe ser positivo"))
	}
	if c.App.Storage != "postgres" && c.App.Storage != "memory" {
		errs = append(errs, fmt.Errorf("APP_STORAGE inválido %q: postgres o memory", c.App.Storage))
	}
	if c.App.IsProduction() && c.App.Storage == "memory" {
		errs = append(errs, errors.New("APP_STORAGE=memory no se permite en producción"))
	}
	if u, err := url.Parse(c.App.PublicURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("APP_PUBLIC_URL inválida %q: se espera http(s)://host", c.App.PublicURL))
	} else if c.App.IsProduction() && u.Scheme != "https" {
		errs = append(errs, errors.New("APP_PUBLIC_URL debe usar https en producción"))
	}
	return errors.Join(errs...)
}

func minutes(n int) time.Duration { return time.Duration(n) * time.Minute }

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
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return -1 // fuerza el fallo de Validate en los campos que deben ser positivos
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		return v.GetFloat64(key)
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
