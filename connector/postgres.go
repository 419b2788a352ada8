package connector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"

	"github.com/Konsultn-Engineering/pgconnect/cache"
	"github.com/Konsultn-Engineering/pgconnect/codec"
	"github.com/Konsultn-Engineering/pgconnect/logger"
	"github.com/Konsultn-Engineering/pgconnect/value"
)

var errInvalidAddress = errors.New("invalid address")

// SQLSTATEs after which a cached statement must be prepared again.
var staleStatementCodes = map[string]bool{
	"0A000": true, // cached plan must not change result type
	"26000": true, // prepared statement does not exist
}

// Connection is a handle pinned to a single backend session. It is not safe
// for concurrent use; callers serialize Execute and Query.
type Connection struct {
	id      ulid.ULID
	session Session
	pid     uint32
	stmts   *cache.StatementCache
	evicted []string
	log     logger.Logger
	metrics *Metrics
	stats   ConnectionStats
	closed  bool
}

// Open establishes a session against address. Every failure is reported
// as ConnectionFailed.
func Open(ctx context.Context, address string, opts ...Option) (*Connection, error) {
	o := newOptions(opts)
	log := o.logger
	if log == nil {
		log = logger.FromContext(ctx)
	}
	metrics := newMetrics(o, log)

	conn, err := connect(ctx, address, o)
	metrics.RecordConnect(ctx, err)
	if err != nil {
		log.Warn("connection failed", "error", err)
		return nil, err
	}

	c, err := newConnection(conn, conn.PgConn().PID(), o, log, metrics)
	if err != nil {
		_ = conn.Close(ctx)
		return nil, connectionFailed(err, "setup")
	}

	cfg := conn.Config()
	c.log.Info("connection opened", "host", cfg.Host, "port", cfg.Port, "database", cfg.Database)
	return c, nil
}

// NewConnection wraps an established session, typically a *pgx.Conn.
func NewConnection(session Session, opts ...Option) (*Connection, error) {
	if session == nil {
		return nil, errors.New("session is required")
	}
	o := newOptions(opts)
	log := o.logger
	if log == nil {
		log = logger.GetDefault()
	}

	var pid uint32
	if pc, ok := session.(interface{ PgConn() *pgconn.PgConn }); ok {
		if raw := pc.PgConn(); raw != nil {
			pid = raw.PID()
		}
	}
	return newConnection(session, pid, o, log, newMetrics(o, log))
}

func newMetrics(o *options, log logger.Logger) *Metrics {
	if o.meterProvider == nil {
		return nil
	}
	m, err := NewMetrics(o.meterProvider.Meter(meterName))
	if err != nil {
		log.Warn("metrics disabled", "error", err)
		return nil
	}
	return m
}

func newConnection(session Session, pid uint32, o *options, log logger.Logger, metrics *Metrics) (*Connection, error) {
	c := &Connection{
		id:      ulid.Make(),
		session: session,
		pid:     pid,
		metrics: metrics,
	}
	c.log = log.With("conn", c.id.String(), "pid", pid)

	stmts, err := cache.NewStatementCache(o.cacheSize, c.onEvict)
	if err != nil {
		return nil, err
	}
	c.stmts = stmts
	return c, nil
}

func connect(ctx context.Context, address string, o *options) (*pgx.Conn, error) {
	dsn, err := normalizeAddress(address, o.addressDefaults())
	if err != nil {
		return nil, connectionFailed(fmt.Errorf("%w: %w", errInvalidAddress, err), "parse address")
	}

	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, connectionFailed(fmt.Errorf("%w: %w", errInvalidAddress, err), "parse address")
	}
	if o.connectTimeout > 0 {
		cfg.ConnectTimeout = o.connectTimeout
	}
	if o.applicationName != "" {
		if _, ok := cfg.RuntimeParams["application_name"]; !ok {
			cfg.RuntimeParams["application_name"] = o.applicationName
		}
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, connectionFailed(err, "connect to %s:%d", cfg.Host, cfg.Port)
	}
	return conn, nil
}

// ID identifies the handle in logs.
func (c *Connection) ID() string { return c.id.String() }

// BackendPID returns the process id of the backend this handle is pinned
// to, or 0 when the session could not report one.
func (c *Connection) BackendPID() uint32 { return c.pid }

func (c *Connection) Stats() ConnectionStats {
	s := c.stats
	s.CachedStatements = c.stmts.Len()
	return s
}

// Execute runs a statement and returns whatever rows it produces, such as
// those of INSERT ... RETURNING. Without parameters sql is sent as a simple
// query, so several statements may be combined; the result then describes
// the first of them. With parameters the statement is prepared.
func (c *Connection) Execute(ctx context.Context, sql string, params ...value.ParameterValue) (*value.RowSet, error) {
	return c.run(ctx, "execute", sql, params, c.execute)
}

// Query runs a statement and materializes every row it returns.
func (c *Connection) Query(ctx context.Context, sql string, params ...value.ParameterValue) (*value.RowSet, error) {
	return c.run(ctx, "query", sql, params, c.query)
}

// Health pings the backend.
func (c *Connection) Health(ctx context.Context) error {
	if c.closed {
		return newError(Other, ErrClosed, "health")
	}
	if err := c.session.Ping(ctx); err != nil {
		return classify(err, "health")
	}
	return nil
}

// Close releases the session. Statements prepared on it go away with it.
func (c *Connection) Close(ctx context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.stmts.Purge()
	c.evicted = nil

	if err := c.session.Close(ctx); err != nil {
		c.log.Warn("close failed", "error", err)
		return newError(Other, err, "close")
	}
	c.log.Info("connection closed", "statements", c.stats.StatementsExecuted)
	return nil
}

type runFunc func(ctx context.Context, sql string, params []value.ParameterValue) (*value.RowSet, error)

func (c *Connection) run(ctx context.Context, op, sql string, params []value.ParameterValue, fn runFunc) (*value.RowSet, error) {
	if c.closed {
		return nil, newError(Other, ErrClosed, "%s", op)
	}

	start := time.Now()
	rs, err := fn(ctx, sql, params)
	elapsed := time.Since(start)

	c.stats.StatementsExecuted++
	rows := 0
	if rs != nil {
		rows = rs.Len()
		c.stats.RowsReturned += int64(rows)
	}
	c.metrics.RecordStatement(ctx, op, elapsed, rows, err)

	if err != nil {
		c.invalidate(ctx, sql, err)
		c.log.Warn("statement failed", "op", op, "kind", KindOf(err), "error", err)
		return nil, err
	}
	c.log.Debug("statement done", "op", op, "params", len(params), "result", rs.String(), "elapsed", elapsed)
	return rs, nil
}

func (c *Connection) execute(ctx context.Context, sql string, params []value.ParameterValue) (*value.RowSet, error) {
	if len(params) == 0 {
		if err := checkPlaceholders(sql, 0); err != nil {
			return nil, err
		}
		return c.collect(ctx, sql, []any{pgx.QueryExecModeSimpleProtocol})
	}

	sd, args, err := c.bind(ctx, sql, params)
	if err != nil {
		return nil, err
	}
	if len(sd.Fields) > 0 {
		return c.collect(ctx, sd.Name, args)
	}

	tag, err := c.session.Exec(ctx, sd.Name, args...)
	if err != nil {
		return nil, classify(err, "execute")
	}
	return &value.RowSet{RowsAffected: tag.RowsAffected()}, nil
}

func (c *Connection) query(ctx context.Context, sql string, params []value.ParameterValue) (*value.RowSet, error) {
	if len(params) == 0 {
		if err := checkPlaceholders(sql, 0); err != nil {
			return nil, err
		}
		return c.collect(ctx, sql, nil)
	}

	sd, args, err := c.bind(ctx, sql, params)
	if err != nil {
		return nil, err
	}
	return c.collect(ctx, sd.Name, args)
}

// checkPlaceholders fails with BadParameter when sql references a different
// number of parameters than supplied. Text the scanner cannot follow is left
// for the server to reject.
func checkPlaceholders(sql string, supplied int) error {
	want, err := countPlaceholders(sql)
	if err != nil {
		return nil
	}
	if want != supplied {
		return newError(BadParameter, codec.ErrParameterCount, "statement references %d, got %d", want, supplied)
	}
	return nil
}

// bind prepares sql through the statement cache and encodes params against
// the parameter types the server described.
func (c *Connection) bind(ctx context.Context, sql string, params []value.ParameterValue) (*pgconn.StatementDescription, []any, error) {
	if err := checkPlaceholders(sql, len(params)); err != nil {
		return nil, nil, err
	}

	sd, hit, err := c.stmts.GetOrPrepare(sql, func(name, sql string) (*pgconn.StatementDescription, error) {
		// a statement dropped under this name must be gone from the session
		// first, or Prepare hands back its stale description
		c.deallocateEvicted(ctx)
		return c.session.Prepare(ctx, name, sql)
	})
	c.deallocateEvicted(ctx)
	if err != nil {
		return nil, nil, classify(err, "prepare")
	}
	if hit {
		c.stats.CacheHits++
	} else {
		c.stats.CacheMisses++
	}

	args, err := codec.EncodeParams(sd.ParamOIDs, params)
	if err != nil {
		return nil, nil, classify(err, "bind")
	}
	return sd, args, nil
}

func (c *Connection) collect(ctx context.Context, sql string, args []any) (*value.RowSet, error) {
	rows, err := c.session.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify(err, "query")
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	rs := &value.RowSet{Columns: codec.Columns(fields)}
	for rows.Next() {
		src, err := rows.Values()
		if err != nil {
			return nil, classify(err, "read row %d", len(rs.Rows))
		}
		row, err := codec.DecodeRow(fields, src)
		if err != nil {
			return nil, classify(err, "decode row %d", len(rs.Rows))
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "query")
	}
	rs.RowsAffected = rows.CommandTag().RowsAffected()
	return rs, nil
}

func (c *Connection) onEvict(name string) {
	if c.closed {
		return
	}
	c.evicted = append(c.evicted, name)
}

func (c *Connection) deallocateEvicted(ctx context.Context) {
	for _, name := range c.evicted {
		if err := c.session.Deallocate(ctx, name); err != nil {
			c.log.Warn("deallocate failed", "statement", name, "error", err)
		}
	}
	c.evicted = c.evicted[:0]
}

// invalidate forgets and deallocates the prepared statement for sql when
// the server reports it unusable, so the next call prepares it again.
func (c *Connection) invalidate(ctx context.Context, sql string, err error) {
	var e *Error
	if !errors.As(err, &e) || e.Kind != QueryFailed || !staleStatementCodes[e.Code] {
		return
	}
	if _, ok := c.stmts.Get(sql); ok {
		c.stmts.Remove(sql)
		c.deallocateEvicted(ctx)
	}
}
