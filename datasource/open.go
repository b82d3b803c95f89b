package datasource

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ardnew/rptkit/log"
)

// Option configures [Open] and [OpenDSN].
type Option func(*options)

type options struct {
	logger   log.Logger
	maxConns int
}

// DefaultMaxConns is the default connection pool limit.
const DefaultMaxConns = 10

// WithLogger routes gorm's SQL trace and slow query warnings to logger.
// SQL statements are logged only when logger is at trace level.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMaxConns limits the number of open connections. Half as many are kept
// idle.
func WithMaxConns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConns = n
		}
	}
}

// Dialector returns the gorm dialector of provider p for dsn. SQLite uses a
// pure Go driver.
func Dialector(p Provider, dsn string) (gorm.Dialector, error) {
	switch p {
	case Sqlite:
		return sqlite.Open(dsn), nil
	case Postgres:
		return postgres.Open(dsn), nil
	case MySQL:
		return mysql.Open(dsn), nil
	case SqlServer:
		return sqlserver.Open(dsn), nil
	}

	return nil, ErrProvider.With(slog.String("provider", p.String()))
}

// Open connects to the database described by cs using the decrypted
// password.
func Open(ctx context.Context, cs *ConnectionString, password string, opts ...Option) (*gorm.DB, error) {
	dsn, err := cs.DSN(password)
	if err != nil {
		return nil, err
	}

	return OpenDSN(ctx, cs.Provider, dsn, opts...)
}

// OpenDSN connects to provider p with a raw DSN and verifies the connection
// before returning.
func OpenDSN(ctx context.Context, p Provider, dsn string, opts ...Option) (*gorm.DB, error) {
	o := options{maxConns: DefaultMaxConns}
	for _, opt := range opts {
		opt(&o)
	}

	dialector, err := Dialector(p, dsn)
	if err != nil {
		return nil, err
	}

	attr := slog.String("provider", p.String())

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  GormLogger(o.logger),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, ErrConnect.Wrap(err).With(attr)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, ErrConnect.Wrap(err).With(attr)
	}

	sqlDB.SetMaxOpenConns(o.maxConns)
	sqlDB.SetMaxIdleConns(max(o.maxConns/2, 1))

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()

		return nil, ErrConnect.Wrap(err).With(attr)
	}

	o.logger.DebugContext(ctx, "connected", attr)

	return db, nil
}

// Close releases the connection pool of db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// GormLogger adapts l to gorm's logger. Trace level enables statement
// logging and debug level reports slow queries. Coarser levels are silent.
func GormLogger(l log.Logger) logger.Interface {
	level := logger.Silent

	switch {
	case l.Logger == nil:
	case l.Level() <= log.LevelTrace:
		level = logger.Info
	case l.Level() <= log.LevelDebug:
		level = logger.Warn
	}

	return logger.New(gormWriter{l}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	})
}

type gormWriter struct{ log log.Logger }

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Debug(fmt.Sprintf(format, args...), slog.String("source", "gorm"))
}
