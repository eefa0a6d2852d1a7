package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	logDirName     = "logs"
	logFileLayout  = "2006-01-02"
	logFileSuffix  = "-app-log.txt"
	promptsDirName = "prompts"
	assetsDirName  = "assets"
)

type Config struct {
	Server   ServerConfig
	TLS      TLSConfig
	Paths    PathsConfig
	Logging  LoggingConfig
	Browser  BrowserConfig
	Watch    WatchConfig
	Metrics  MetricsConfig
	NATS     NATSConfig
	S3       S3Config
	Security SecurityConfig
}

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

// Addr returns host:port for net.Listen.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// URL returns the address a browser should open. IPv6 hosts are bracketed.
func (c ServerConfig) URL() string {
	return "https://" + c.Addr()
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// PathsConfig holds the directories derived from the serve root. The log
// file name is stamped once, when the configuration is loaded.
type PathsConfig struct {
	ServeDir   string
	LogDir     string
	LogFile    string
	PromptsDir string
}

type LoggingConfig struct {
	Level  string
	Stdout bool
}

type BrowserConfig struct {
	Open bool
}

type WatchConfig struct {
	Enabled bool
}

type MetricsConfig struct {
	Enabled bool
}

type NATSConfig struct {
	Enabled       bool
	URL           string
	SubjectPrefix string
}

type S3Config struct {
	Enabled         bool
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	KeyPrefix       string
}

type SecurityConfig struct {
	// ExposeErrorDetails echoes internal error text in 500 responses.
	ExposeErrorDetails bool
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	return load(time.Now())
}

func load(now time.Time) (*Config, error) {
	serveDir := getEnv("SERVE_DIR", "")
	if serveDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		serveDir = wd
	}
	serveDir, err := filepath.Abs(expandHome(serveDir))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVE_DIR: %w", err)
	}

	port := getEnv("SERVER_PORT", "8000")
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	readTimeout, err := parseDuration(getEnv("SERVER_READ_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := parseDuration(getEnv("SERVER_WRITE_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := parseDuration(getEnv("SERVER_SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT: %w", err)
	}

	maxBodyMB, err := strconv.Atoi(getEnv("MAX_BODY_MB", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_BODY_MB: %w", err)
	}
	if maxBodyMB <= 0 {
		return nil, fmt.Errorf("invalid MAX_BODY_MB: must be positive")
	}

	// Первая ошибка разбора boolean переменной возвращается после сборки конфига
	var boolErr error
	envBool := func(key string, defaultValue bool) bool {
		value, err := getEnvBool(key, defaultValue)
		if err != nil && boolErr == nil {
			boolErr = err
		}
		return value
	}

	host := getEnv("SERVER_HOST", "localhost")
	logDir := filepath.Join(serveDir, logDirName)

	cfg := &Config{
		Server: ServerConfig{
			Host:            host,
			Port:            port,
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: shutdownTimeout,
			MaxBodyBytes:    int64(maxBodyMB) * 1024 * 1024,
		},
		TLS: TLSConfig{
			CertFile: expandHome(getEnv("TLS_CERT_FILE", filepath.Join("~", "certs", host+".crt"))),
			KeyFile:  expandHome(getEnv("TLS_KEY_FILE", filepath.Join("~", "certs", host+".key"))),
		},
		Paths: PathsConfig{
			ServeDir:   serveDir,
			LogDir:     logDir,
			LogFile:    filepath.Join(logDir, LogFileName(now)),
			PromptsDir: filepath.Join(serveDir, assetsDirName, promptsDirName),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Stdout: envBool("LOG_STDOUT", false),
		},
		Browser: BrowserConfig{
			Open: envBool("OPEN_BROWSER", true),
		},
		Watch: WatchConfig{
			Enabled: envBool("PROMPTS_WATCH_ENABLED", true),
		},
		Metrics: MetricsConfig{
			Enabled: envBool("METRICS_ENABLED", true),
		},
		NATS: NATSConfig{
			Enabled:       envBool("NATS_ENABLED", false),
			URL:           getEnv("NATS_URL", "nats://localhost:4222"),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "prompts"),
		},
		S3: S3Config{
			Enabled:         envBool("S3_MIRROR_ENABLED", false),
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    envBool("S3_USE_PATH_STYLE", true),
			KeyPrefix:       getEnv("S3_KEY_PREFIX", "prompts"),
		},
		Security: SecurityConfig{
			ExposeErrorDetails: envBool("SECURITY_EXPOSE_ERROR_DETAILS", true),
		},
	}

	if boolErr != nil {
		return nil, boolErr
	}

	if cfg.S3.Enabled && cfg.S3.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required when S3_MIRROR_ENABLED=true")
	}

	return cfg, nil
}

// LogFileName returns the day-stamped request log name, e.g. 2026-10-18-app-log.txt.
func LogFileName(t time.Time) string {
	return t.Format(logFileLayout) + logFileSuffix
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s: %w", key, err)
	}

	return parsed, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
