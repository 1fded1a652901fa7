package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/squad-manager/internal/platform/logging"
	"github.com/riskibarqy/squad-manager/internal/platform/resilience"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	LogLevel                logging.Level
	DBURL                   string
	DBDisablePreparedBinary bool
	RosterCacheTTL          time.Duration
	CORSAllowedOrigins      []string
	InternalJobToken        string

	PushGatewayURL  string
	PushServerKey   string
	PushTimeout     time.Duration
	PushSendWorkers int
	PushCircuit     resilience.CircuitBreakerConfig

	TeamBuilderURL     string
	TeamBuilderToken   string
	TeamBuilderTimeout time.Duration
	TeamBuilderCircuit resilience.CircuitBreakerConfig

	SchedulerEnabled  bool
	SchedulerLocation *time.Location
	DispatchCron      string
	WeeklyNudgeCron   string
	DispatchBatchSize int
	JobTimeout        time.Duration

	QStashEnabled       bool
	QStashBaseURL       string
	QStashToken         string
	QStashTargetBaseURL string
	QStashRetries       int
	QStashCircuit       resilience.CircuitBreakerConfig

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
}

// LoadDotEnv seeds the environment from the given files. Missing files are ignored and
// variables already set in the process win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "squad-manager-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBURL:                      strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:           strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		PushGatewayURL:             strings.TrimSpace(getEnv("PUSH_GATEWAY_URL", "https://fcm.googleapis.com/fcm/send")),
		PushServerKey:              strings.TrimSpace(getEnv("PUSH_SERVER_KEY", "")),
		TeamBuilderURL:             strings.TrimSpace(getEnv("TEAM_BUILDER_URL", "")),
		TeamBuilderToken:           strings.TrimSpace(getEnv("TEAM_BUILDER_TOKEN", "")),
		DispatchCron:               strings.TrimSpace(getEnv("DISPATCH_CRON", "*/5 * * * *")),
		WeeklyNudgeCron:            strings.TrimSpace(getEnv("WEEKLY_NUDGE_CRON", "0 9 * * 1")),
		QStashBaseURL:              strings.TrimSpace(getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io")),
		QStashToken:                strings.TrimSpace(getEnv("QSTASH_TOKEN", "")),
		QStashTargetBaseURL:        strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", "")),
		UptraceDSN:                 strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PprofAddr:                  strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	if cfg.ReadTimeout, err = parsePositiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = parsePositiveDuration("APP_WRITE_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.DBDisablePreparedBinary, err = parseBool("DB_DISABLE_PREPARED_BINARY_RESULT", "true"); err != nil {
		return Config{}, err
	}
	if cfg.RosterCacheTTL, err = parsePositiveDuration("ROSTER_CACHE_TTL", "30s"); err != nil {
		return Config{}, err
	}

	if cfg.PushTimeout, err = parsePositiveDuration("PUSH_TIMEOUT", "5s"); err != nil {
		return Config{}, err
	}
	if cfg.PushSendWorkers, err = parseMinInt("PUSH_SEND_WORKERS", 8, 1); err != nil {
		return Config{}, err
	}
	if cfg.PushCircuit, err = parseCircuit("PUSH"); err != nil {
		return Config{}, err
	}

	if cfg.TeamBuilderTimeout, err = parsePositiveDuration("TEAM_BUILDER_TIMEOUT", "45s"); err != nil {
		return Config{}, err
	}
	if cfg.TeamBuilderCircuit, err = parseCircuit("TEAM_BUILDER"); err != nil {
		return Config{}, err
	}

	if cfg.SchedulerEnabled, err = parseBool("SCHEDULER_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	tz := strings.TrimSpace(getEnv("SCHEDULER_TIMEZONE", "UTC"))
	if cfg.SchedulerLocation, err = time.LoadLocation(tz); err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_TIMEZONE: %w", err)
	}
	if cfg.DispatchBatchSize, err = parseMinInt("DISPATCH_BATCH_SIZE", 200, 1); err != nil {
		return Config{}, err
	}
	if cfg.JobTimeout, err = parsePositiveDuration("JOB_TIMEOUT", "5m"); err != nil {
		return Config{}, err
	}

	if cfg.QStashEnabled, err = parseBool("QSTASH_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.QStashRetries, err = parseMinInt("QSTASH_RETRIES", 3, 0); err != nil {
		return Config{}, err
	}
	if cfg.QStashCircuit, err = parseCircuit("QSTASH"); err != nil {
		return Config{}, err
	}
	if cfg.QStashEnabled {
		if cfg.QStashToken == "" {
			return Config{}, fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if cfg.QStashTargetBaseURL == "" {
			return Config{}, fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
		if cfg.InternalJobToken == "" {
			return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
		}
	}

	if cfg.UptraceEnabled, err = parseBool("UPTRACE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = parseBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = parsePositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if cfg.PprofEnabled, err = parseBool("PPROF_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	return cfg, nil
}

// UsesDatabase reports whether repositories are backed by postgres instead of memory.
func (c Config) UsesDatabase() bool {
	return c.DBURL != ""
}

// DatabaseURL is DBURL with disable_prepared_binary_result=yes added when the
// pooler needs it. An explicit value in the URL wins.
func (c Config) DatabaseURL() string {
	if !c.DBDisablePreparedBinary {
		return c.DBURL
	}
	u, err := url.Parse(c.DBURL)
	if err != nil || u.Scheme == "" {
		return c.DBURL
	}
	q := u.Query()
	if q.Has("disable_prepared_binary_result") {
		return c.DBURL
	}
	q.Set("disable_prepared_binary_result", "yes")
	u.RawQuery = q.Encode()
	return u.String()
}

// DatabaseName extracts the database name from a URL or key=value DSN.
func (c Config) DatabaseName() string {
	raw := strings.TrimSpace(c.DBURL)
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		if name := strings.Trim(u.Path, "/ "); name != "" {
			return name
		}
	}
	for _, token := range strings.Fields(raw) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}

func parseCircuit(prefix string) (resilience.CircuitBreakerConfig, error) {
	var (
		out resilience.CircuitBreakerConfig
		err error
	)
	if out.Enabled, err = parseBool(prefix+"_CIRCUIT_ENABLED", "true"); err != nil {
		return out, err
	}
	if out.FailureThreshold, err = parseMinInt(prefix+"_CIRCUIT_FAILURE_COUNT", 5, 1); err != nil {
		return out, err
	}
	if out.OpenTimeout, err = parsePositiveDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", "15s"); err != nil {
		return out, err
	}
	if out.HalfOpenMaxReq, err = parseMinInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", 2, 1); err != nil {
		return out, err
	}
	return out, nil
}

func parseBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func parseMinInt(key string, fallback, floor int) (int, error) {
	out, err := getEnvAsInt(key, fallback)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out < floor {
		return 0, fmt.Errorf("%s must be >= %d", key, floor)
	}
	return out, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
