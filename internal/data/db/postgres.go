package db

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	DefaultSQLitePath = "resource_studio.db"
)

type Config struct {
	// DatabaseURL wins over the discrete POSTGRES_* parts.
	DatabaseURL string

	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	SQLitePath string
}

// PostgresDSN returns the configured postgres DSN, or "" when postgres is not configured.
func (c Config) PostgresDSN() string {
	if dsn := strings.TrimSpace(c.DatabaseURL); dsn != "" {
		return dsn
	}
	if strings.TrimSpace(c.Host) == "" {
		return ""
	}
	port := c.Port
	if port == "" {
		port = "5432"
	}
	user := c.User
	if user == "" {
		user = "postgres"
	}
	name := c.Name
	if name == "" {
		name = "aet_studio"
	}
	ssl := c.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, c.Password),
		Host:     c.Host + ":" + port,
		Path:     "/" + name,
		RawQuery: "sslmode=" + url.QueryEscape(ssl),
	}
	return u.String()
}

type Service struct {
	db      *gorm.DB
	log     *logger.Logger
	dialect string
}

// NewDatabase opens postgres when configured and falls back to a local SQLite file.
func NewDatabase(logg *logger.Logger, cfg Config) (*Service, error) {
	serviceLog := logg.With("service", "Database")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gcfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	}

	if dsn := cfg.PostgresDSN(); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		serviceLog.Info("database connected", "dialect", DialectPostgres)
		return &Service{db: db, log: serviceLog, dialect: DialectPostgres}, nil
	}

	path := strings.TrimSpace(cfg.SQLitePath)
	if path == "" {
		path = DefaultSQLitePath
	}
	serviceLog.Warn("DATABASE_URL not set; using local SQLite", "path", path)
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on&_busy_timeout=5000"), gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite at %s: %w", path, err)
	}
	return &Service{db: db, log: serviceLog, dialect: DialectSQLite}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Dialect() string { return s.dialect }

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
