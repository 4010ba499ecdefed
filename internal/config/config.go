package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Generation GenerationConfig `yaml:"generation"`
	Logging    LoggingConfig    `yaml:"logging"`
	Minio      MinioConfig      `yaml:"minio"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ServiceName     string        `yaml:"serviceName"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	AllowedOrigins  []string      `yaml:"allowedOrigins"`
	RateLimit       struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres | mysql | sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslMode"`

	// Cloud SQL unix socket; used instead of host/port when InstanceConnectionName is set
	SocketDir              string `yaml:"socketDir"`
	InstanceConnectionName string `yaml:"instanceConnectionName"`

	// sqlite only
	Path string `yaml:"path"`
}

type GenerationConfig struct {
	Provider        string        `yaml:"provider"` // gemini | openai
	Model           string        `yaml:"model"`
	APIKey          string        `yaml:"apiKey"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxOutputTokens int           `yaml:"maxOutputTokens"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type MinioConfig struct {
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"accessKey"`
	SecretKey  string `yaml:"secretKey"`
	BucketName string `yaml:"bucketName"`
	Region     string `yaml:"region"`
	UseSSL     bool   `yaml:"useSSL"`
}

// Load baca file config.yaml, lalu env override. File yang tidak ada bukan error:
// default + env sudah cukup untuk boot.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the settings used when neither file nor env say otherwise.
func Default() Config {
	var cfg Config
	cfg.Server = ServerConfig{
		Port:            8000,
		ServiceName:     "Stealth Seekers Foresight Engine",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    120 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		AllowedOrigins:  []string{"http://localhost:5173"},
	}
	cfg.Server.RateLimit.Capacity = 10
	cfg.Server.RateLimit.RefillRate = 1
	cfg.Database = DatabaseConfig{
		Driver:    "postgres",
		Host:      "db",
		Port:      5432,
		User:      "user",
		Password:  "password",
		Name:      "app_db",
		SSLMode:   "disable",
		SocketDir: "/cloudsql",
		Path:      "foresight.db",
	}
	cfg.Generation = GenerationConfig{
		Provider:        "gemini",
		Timeout:         30 * time.Second,
		MaxOutputTokens: 1024,
	}
	cfg.Logging = LoggingConfig{Level: "info"}
	cfg.Minio = MinioConfig{Region: "us-east-1", BucketName: "guardian-reviews"}
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FORESIGHT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("FORESIGHT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FORESIGHT_LOG_FORMAT"); v != "" {
		cfg.Logging.JSON = strings.EqualFold(v, "json")
	}

	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("DB_SOCKET_DIR"); v != "" {
		cfg.Database.SocketDir = v
	}
	if v := os.Getenv("INSTANCE_CONNECTION_NAME"); v != "" {
		cfg.Database.InstanceConnectionName = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("GENERATION_PROVIDER"); v != "" {
		cfg.Generation.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("GENERATION_MODEL"); v != "" {
		cfg.Generation.Model = v
	}
	if v := os.Getenv("GENERATION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Generation.Timeout = d
		}
	}
	if cfg.Generation.APIKey == "" {
		cfg.Generation.APIKey = os.Getenv(cfg.Generation.KeyEnv())
	}

	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		cfg.Minio.Endpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.Minio.SecretKey = v
	}
	if v := os.Getenv("MINIO_BUCKET"); v != "" {
		cfg.Minio.BucketName = v
	}
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q (supported: postgres, mysql, sqlite)", c.Database.Driver)
	}
	switch c.Generation.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unsupported generation provider %q (supported: gemini, openai)", c.Generation.Provider)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// KeyEnv is the environment variable holding the credential for the configured provider.
func (g GenerationConfig) KeyEnv() string {
	if g.Provider == "openai" {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// Helper untuk build DSN Postgres. Dengan InstanceConnectionName koneksi lewat
// unix socket Cloud SQL, selain itu TCP biasa.
func (c *Config) PostgresDSN() string {
	d := c.Database
	host := d.Host
	port := strconv.Itoa(d.Port)
	if d.InstanceConnectionName != "" {
		host = filepath.Join(d.SocketDir, d.InstanceConnectionName)
		port = ""
	}
	parts := []string{
		"host=" + quoteDSN(host),
		"user=" + quoteDSN(d.User),
		"password=" + quoteDSN(d.Password),
		"dbname=" + quoteDSN(d.Name),
		"sslmode=" + quoteDSN(d.SSLMode),
	}
	if port != "" {
		parts = append(parts, "port="+port)
	}
	return strings.Join(parts, " ")
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	d := c.Database
	if d.InstanceConnectionName != "" {
		return fmt.Sprintf("%s:%s@unix(%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			d.User, d.Password, filepath.Join(d.SocketDir, d.InstanceConnectionName), d.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
	)
}

func (c *Config) SQLitePath() string {
	if c.Database.Path == "" {
		return "foresight.db"
	}
	return c.Database.Path
}

// quoteDSN quotes a libpq key/value when it is empty or contains spaces or quotes.
func quoteDSN(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
