package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/todo-api/internal/config"
	"github.com/yukikurage/todo-api/internal/logger"
)

type Driver string

const (
	DriverMongo    Driver = "mongodb"
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
	DriverSQLite   Driver = "sqlite"
)

// Target is a parsed DATABASE_URL.
type Target struct {
	Driver Driver
	DSN    string
	// Database is the Mongo database name; empty for SQL drivers.
	Database string
}

// ParseURL picks the backend from the URL scheme and converts the URL into
// the DSN its driver expects.
func ParseURL(raw, defaultDatabase string) (Target, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "mongodb://"), strings.HasPrefix(raw, "mongodb+srv://"):
		u, err := url.Parse(raw)
		if err != nil {
			return Target{}, fmt.Errorf("invalid mongodb url: %w", err)
		}
		name := strings.Trim(u.Path, "/")
		if name == "" {
			name = defaultDatabase
		}
		return Target{Driver: DriverMongo, DSN: raw, Database: name}, nil

	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return Target{Driver: DriverPostgres, DSN: raw}, nil

	case strings.HasPrefix(raw, "mysql://"):
		dsn, err := mysqlDSN(raw)
		if err != nil {
			return Target{}, err
		}
		return Target{Driver: DriverMySQL, DSN: dsn}, nil

	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return Target{}, fmt.Errorf("sqlite url has no path")
		}
		return Target{Driver: DriverSQLite, DSN: path}, nil

	case strings.HasPrefix(raw, "file:"):
		return Target{Driver: DriverSQLite, DSN: raw}, nil
	}

	return Target{}, fmt.Errorf("unsupported database url scheme: %q", redact(raw))
}

func mysqlDSN(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid mysql url: %w", err)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.Trim(u.Path, "/")
	cfg.ParseTime = true
	// Report matched rather than changed rows so a no-op UPDATE on an
	// existing todo is not mistaken for a missing one.
	cfg.ClientFoundRows = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	return cfg.FormatDSN(), nil
}

func redact(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.User != nil {
		u.User = url.User(u.User.Username())
		return u.String()
	}
	return raw
}

// Connection holds whichever backend DATABASE_URL selected. Exactly one of
// SQL and Mongo is set.
type Connection struct {
	Driver Driver
	SQL    *gorm.DB
	Mongo  *mongo.Database
}

// Connect opens the configured store and verifies it is reachable.
func Connect(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Connection, error) {
	target, err := ParseURL(cfg.Database.URL, cfg.Database.Name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()

	if target.Driver == DriverMongo {
		return connectMongo(ctx, target, log)
	}
	return connectSQL(ctx, target, log)
}

func connectMongo(ctx context.Context, target Target, log zerolog.Logger) (*Connection, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(target.DSN))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Str("driver", string(DriverMongo)).Str("database", target.Database).Msg("database connection established")
	return &Connection{Driver: DriverMongo, Mongo: client.Database(target.Database)}, nil
}

func connectSQL(ctx context.Context, target Target, log zerolog.Logger) (*Connection, error) {
	var dialector gorm.Dialector
	switch target.Driver {
	case DriverPostgres:
		dialector = postgres.Open(target.DSN)
	case DriverMySQL:
		dialector = gormmysql.Open(target.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(target.DSN)
	default:
		return nil, fmt.Errorf("unsupported driver %q", target.Driver)
	}

	db, err := OpenGorm(dialector, log)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if target.Driver == DriverSQLite {
		// every new connection to ":memory:" would see an empty database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Str("driver", string(target.Driver)).Msg("database connection established")
	return &Connection{Driver: target.Driver, SQL: db}, nil
}

// OpenGorm opens a GORM handle with the shared settings.
func OpenGorm(dialector gorm.Dialector, log zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Gorm(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Ping checks the store is reachable.
func (c *Connection) Ping(ctx context.Context) error {
	if c.Mongo != nil {
		return c.Mongo.Client().Ping(ctx, readpref.Primary())
	}
	sqlDB, err := c.SQL.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying pool.
func (c *Connection) Close(ctx context.Context) error {
	if c.Mongo != nil {
		return c.Mongo.Client().Disconnect(ctx)
	}
	sqlDB, err := c.SQL.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
