package connector

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/metric"

	"github.com/Konsultn-Engineering/pgconnect/logger"
)

// Session is the part of *pgx.Conn a Connection drives. Every call goes to
// the same backend.
type Session interface {
	Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error)
	Deallocate(ctx context.Context, name string) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

var _ Session = (*pgx.Conn)(nil)

// Option configures Open and NewConnection.
type Option func(*options)

type options struct {
	logger          logger.Logger
	meterProvider   metric.MeterProvider
	applicationName string
	connectTimeout  time.Duration
	cacheSize       int
	user            string
	password        string
	database        string
	sslMode         string
}

func (o *options) addressDefaults() addressDefaults {
	return addressDefaults{
		user:            o.user,
		password:        o.password,
		database:        o.database,
		applicationName: o.applicationName,
		sslMode:         o.sslMode,
	}
}

func newOptions(opts []Option) *options {
	d := Default()
	o := &options{
		applicationName: d.ApplicationName,
		connectTimeout:  d.ConnectTimeout,
		cacheSize:       d.StatementCacheSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger; by default the one carried by the Open
// context is used.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMeterProvider enables statement metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// WithApplicationName reports name to the server unless the address
// already sets application_name.
func WithApplicationName(name string) Option {
	return func(o *options) { o.applicationName = name }
}

// WithConnectTimeout bounds session establishment. Zero leaves it to pgx.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) { o.connectTimeout = d }
}

// WithStatementCacheSize sets how many prepared statements a connection
// keeps on the server.
func WithStatementCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// WithCredentials sets the user and password used for bare host addresses.
func WithCredentials(user, password string) Option {
	return func(o *options) {
		o.user = user
		o.password = password
	}
}

// WithDatabase sets the database used for bare host addresses.
func WithDatabase(name string) Option {
	return func(o *options) { o.database = name }
}

// WithSSLMode sets sslmode for bare host addresses. Empty leaves the pgx
// default.
func WithSSLMode(mode string) Option {
	return func(o *options) { o.sslMode = mode }
}
