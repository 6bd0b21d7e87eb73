package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	sdk "github.com/matrixorigin/moi-go-sdk"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Generation GenerationConfig `yaml:"generation"`
	Admin      AdminConfig      `yaml:"admin"`
	Auth       AuthConfig       `yaml:"auth"`
	Catalog    CatalogConfig    `yaml:"catalog"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	RingSize   int    `yaml:"ring_size"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
	// Mode "dev" exposes the log viewer API.
	Mode         string   `yaml:"mode"`
	AllowOrigins []string `yaml:"allow_origins"`
}

func (s ServerConfig) Dev() bool { return s.Mode == "dev" }

// Credentials is one database role. Reads and writes use different roles.
type Credentials struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type DatabaseConfig struct {
	Driver       string        `yaml:"driver"` // mysql | postgres
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	Name         string        `yaml:"name"`
	SSLMode      string        `yaml:"sslmode"`
	Reader       Credentials   `yaml:"reader"`
	Writer       Credentials   `yaml:"writer"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
	AutoMigrate  bool          `yaml:"auto_migrate"`
}

type GenerationConfig struct {
	Provider  string        `yaml:"provider"` // anthropic | gemini | moi
	APIKey    string        `yaml:"api_key"`
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

// AdminConfig is the bootstrap identity provisioned on first content save.
type AdminConfig struct {
	Name         string `yaml:"name"`
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type CatalogConfig struct {
	Enabled          bool   `yaml:"enabled"`
	BaseURL          string `yaml:"base_url"`
	APIKey           string `yaml:"api_key"`
	CatalogID        int64  `yaml:"catalog_id"`
	DatabaseName     string `yaml:"database_name"`
	DatabaseID       int64  `yaml:"database_id"`
	ReportsTableID   int64  `yaml:"reports_table_id"`
	BlogPostsTableID int64  `yaml:"blog_posts_table_id"`
}

func Load(configFile string) *Config {
	c := &Config{
		Server:   ServerConfig{Port: 9871, Mode: "release", AllowOrigins: []string{"*"}},
		Log:      LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30, RingSize: 1000},
		Database: DatabaseConfig{Driver: "mysql", Port: 3306, Name: "salon_admin", SSLMode: "require", QueryTimeout: 10 * time.Second},
		Generation: GenerationConfig{
			Provider:  "anthropic",
			MaxTokens: 4000,
			Timeout:   90 * time.Second,
		},
		Admin:   AdminConfig{Name: "管理者"},
		Catalog: CatalogConfig{DatabaseName: "salon_admin"},
		Auth:    AuthConfig{TokenTTL: 7 * 24 * time.Hour},
	}

	paths := []string{"etc/config-dev.yaml", "/etc/salon-admin/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.Server.Mode, "SERVER_MODE")
	envOverride(&c.Database.Driver, "DB_DRIVER")
	envOverride(&c.Database.Host, "DB_HOST")
	envOverride(&c.Database.Name, "DB_NAME")
	envOverride(&c.Database.Reader.User, "DB_READER_USER")
	envOverride(&c.Database.Reader.Password, "DB_READER_PASS")
	envOverride(&c.Database.Writer.User, "DB_WRITER_USER")
	envOverride(&c.Database.Writer.Password, "DB_WRITER_PASS")
	envOverride(&c.Generation.Provider, "GEN_PROVIDER")
	envOverride(&c.Generation.Model, "GEN_MODEL")
	switch c.Generation.Provider {
	case "gemini":
		envOverride(&c.Generation.APIKey, "GEMINI_API_KEY")
	case "moi":
		envOverride(&c.Generation.APIKey, "MOI_API_KEY")
	default:
		envOverride(&c.Generation.APIKey, "CLAUDE_API_KEY")
	}
	envOverride(&c.Admin.Email, "ADMIN_EMAIL")
	envOverride(&c.Admin.PasswordHash, "ADMIN_PASSWORD_HASH")
	envOverride(&c.Auth.JWTSecret, "JWT_SECRET")
	envOverride(&c.Catalog.BaseURL, "MOI_BASE_URL")
	envOverride(&c.Catalog.APIKey, "MOI_API_KEY")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Database.Port, "DB_PORT")

	c.Generation.fillDefaults(c.Catalog)
	return c
}

// fillDefaults picks the base URL and model of the selected provider. The moi
// provider talks to the catalog's LLM proxy with the catalog key.
func (g *GenerationConfig) fillDefaults(cat CatalogConfig) {
	var base, model string
	switch g.Provider {
	case "gemini":
		model = "gemini-2.5-flash"
	case "moi":
		base, model = cat.BaseURL, "qwen-plus"
		if g.APIKey == "" {
			g.APIKey = cat.APIKey
		}
	default:
		base, model = "https://api.anthropic.com", "claude-3-5-sonnet-20241022"
	}
	if g.BaseURL == "" {
		g.BaseURL = base
	}
	if g.Model == "" {
		g.Model = model
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Admin.Email == "" {
		return fmt.Errorf("admin.email is required")
	}
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return nil
}

// OpenReader connects with the read-mostly role.
func (c *Config) OpenReader() (*gorm.DB, error) {
	return c.openGormDB(c.Database.Reader)
}

// OpenWriter connects with the elevated role used for every write.
func (c *Config) OpenWriter() (*gorm.DB, error) {
	return c.openGormDB(c.Database.Writer)
}

func (c *Config) openGormDB(cred Credentials) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	if c.Database.Driver == "postgres" {
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Database.Host, c.Database.Port, cred.User, cred.Password, c.Database.Name, c.Database.SSLMode)
		db, err := gorm.Open(postgres.Open(dsn), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, nil
	}

	cfg := gomysql.NewConfig()
	cfg.User = cred.User
	cfg.Passwd = cred.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
	cfg.DBName = c.Database.Name
	cfg.ParseTime = true

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), gcfg)
}

func (c *Config) NewRawClient() (*sdk.RawClient, error) {
	return sdk.NewRawClient(c.Catalog.BaseURL, c.Catalog.APIKey)
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
