package config

import (
	"time"
)

// Config is the root configuration of the API server.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Calendar CalendarConfig `yaml:"calendar"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ClientFile is the root configuration of command-line API clients.
type ClientFile struct {
	Client ClientConfig `yaml:"client"`
	Log    LogConfig    `yaml:"log"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Timezone"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// RateLimit is requests per minute per caller; 0 disables limiting.
	RateLimit int `yaml:"rate_limit" env:"SERVER_RATE_LIMIT" env-default:"300"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds bearer token verification settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"teamcal"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
}

// RedisConfig holds the shared series lock store. An empty Addr keeps the
// locks in-process, which is only correct for a single server instance.
type RedisConfig struct {
	Addr      string        `yaml:"addr"       env:"REDIS_ADDR"`
	Password  string        `yaml:"password"   env:"REDIS_PASSWORD"`
	DB        int           `yaml:"db"         env:"REDIS_DB"         env-default:"0"`
	LockTTL   time.Duration `yaml:"lock_ttl"   env:"REDIS_LOCK_TTL"   env-default:"30s"`
	KeyPrefix string        `yaml:"key_prefix" env:"REDIS_KEY_PREFIX" env-default:"teamcal:lock:"`
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// CalendarConfig bounds the scheduling work of a single request.
type CalendarConfig struct {
	DefaultTimezone       string `yaml:"default_timezone"        env:"CALENDAR_DEFAULT_TIMEZONE"        env-default:"UTC"`
	MaxWindowDays         int    `yaml:"max_window_days"         env:"CALENDAR_MAX_WINDOW_DAYS"         env-default:"366"`
	MaxOccurrences        int    `yaml:"max_occurrences"         env:"CALENDAR_MAX_OCCURRENCES"         env-default:"1000"`
	ConflictLookaheadDays int    `yaml:"conflict_lookahead_days" env:"CALENDAR_CONFLICT_LOOKAHEAD_DAYS" env-default:"90"`
	ICalProdID            string `yaml:"ical_prod_id"            env:"CALENDAR_ICAL_PROD_ID"            env-default:"-//teamcal//calendar export//EN"`
	ICalUIDDomain         string `yaml:"ical_uid_domain"         env:"CALENDAR_ICAL_UID_DOMAIN"         env-default:"teamcal"`
}

// MaxWindow returns MaxWindowDays as a duration.
func (c CalendarConfig) MaxWindow() time.Duration {
	return time.Duration(c.MaxWindowDays) * 24 * time.Hour
}

// ConflictLookahead returns ConflictLookaheadDays as a duration.
func (c CalendarConfig) ConflictLookahead() time.Duration {
	return time.Duration(c.ConflictLookaheadDays) * 24 * time.Hour
}

// ClientConfig holds the settings of an API client holding a refreshable session.
type ClientConfig struct {
	BaseURL       string        `yaml:"base_url"       env:"CLIENT_BASE_URL"       env-default:"http://localhost:8080"`
	TokenURL      string        `yaml:"token_url"      env:"CLIENT_TOKEN_URL"      env-required:"true"`
	ClientID      string        `yaml:"client_id"      env:"CLIENT_ID"`
	RefreshToken  string        `yaml:"refresh_token"  env:"CLIENT_REFRESH_TOKEN"  env-required:"true"`
	RefreshLeeway time.Duration `yaml:"refresh_leeway" env:"CLIENT_REFRESH_LEEWAY" env-default:"30s"`
	Timeout       time.Duration `yaml:"timeout"        env:"CLIENT_TIMEOUT"        env-default:"15s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
