package connector

import (
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const defaultPort = 5432

// DSNBuilder provides a fluent interface for building database connection strings
type DSNBuilder struct {
	scheme   string
	username string
	password string
	host     string
	port     int
	database string
	params   map[string]string
}

// NewDSNBuilder creates a new DSN builder
func NewDSNBuilder(scheme string) *DSNBuilder {
	return &DSNBuilder{
		scheme: scheme,
		params: make(map[string]string),
	}
}

// Auth sets username and password
func (b *DSNBuilder) Auth(username, password string) *DSNBuilder {
	b.username = username
	b.password = password
	return b
}

// Host sets the host and port
func (b *DSNBuilder) Host(host string, port int) *DSNBuilder {
	b.host = host
	b.port = port
	return b
}

// Database sets the database name
func (b *DSNBuilder) Database(name string) *DSNBuilder {
	b.database = name
	return b
}

// Param adds a single parameter
func (b *DSNBuilder) Param(key, value string) *DSNBuilder {
	if value != "" {
		b.params[key] = value
	}
	return b
}

func (b *DSNBuilder) Validate() error {
	if b.host == "" {
		return fmt.Errorf("host is required")
	}
	if strings.ContainsAny(b.host, "/?#@ ") {
		return fmt.Errorf("invalid host: %q", b.host)
	}
	if b.port <= 0 || b.port > 65535 {
		return fmt.Errorf("invalid port: %d", b.port)
	}
	return nil
}

// Build constructs the final DSN string. Parameters are written in key order.
func (b *DSNBuilder) Build() string {
	var dsn strings.Builder

	dsn.WriteString(b.scheme)
	dsn.WriteString("://")

	if b.username != "" {
		userinfo := url.User(b.username)
		if b.password != "" {
			userinfo = url.UserPassword(b.username, b.password)
		}
		dsn.WriteString(userinfo.String())
		dsn.WriteString("@")
	}

	if strings.Contains(b.host, ":") {
		dsn.WriteString("[" + b.host + "]")
	} else {
		dsn.WriteString(b.host)
	}
	if b.port > 0 {
		dsn.WriteString(":")
		dsn.WriteString(strconv.Itoa(b.port))
	}

	if b.database != "" {
		dsn.WriteString("/")
		dsn.WriteString(url.PathEscape(b.database))
	}

	if len(b.params) > 0 {
		keys := make([]string, 0, len(b.params))
		for k := range b.params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		dsn.WriteString("?")
		for i, key := range keys {
			if i > 0 {
				dsn.WriteString("&")
			}
			dsn.WriteString(url.QueryEscape(key))
			dsn.WriteString("=")
			dsn.WriteString(url.QueryEscape(b.params[key]))
		}
	}

	return dsn.String()
}

// addressDefaults completes a bare host address. URLs and keyword/value
// strings carry their own user, database and parameters.
type addressDefaults struct {
	user            string
	password        string
	database        string
	applicationName string
	sslMode         string
}

// normalizeAddress turns the accepted address forms into something
// pgx.ParseConfig understands. URLs and keyword/value strings pass through;
// bare host, host:port and [v6]:port forms are rebuilt as URLs from d.
func normalizeAddress(address string, d addressDefaults) (string, error) {
	address = strings.TrimSpace(address)
	switch {
	case address == "":
		return "", fmt.Errorf("empty address")
	case strings.HasPrefix(address, "postgres://"), strings.HasPrefix(address, "postgresql://"):
		return address, nil
	case strings.Contains(address, "="):
		return address, nil
	case strings.Contains(address, "://"):
		return "", fmt.Errorf("unsupported scheme in %q", address)
	}

	host, port, err := splitHostPort(address)
	if err != nil {
		return "", err
	}

	b := NewDSNBuilder("postgres").
		Auth(d.user, d.password).
		Host(host, port).
		Database(d.database).
		Param("application_name", d.applicationName).
		Param("sslmode", d.sslMode)
	if err := b.Validate(); err != nil {
		return "", err
	}
	return b.Build(), nil
}

func splitHostPort(address string) (string, int, error) {
	// a bare IPv6 literal has several colons and no brackets
	if !strings.HasPrefix(address, "[") && strings.Count(address, ":") != 1 {
		if strings.Contains(address, ":") && net.ParseIP(address) == nil {
			return "", 0, fmt.Errorf("invalid address %q", address)
		}
		return address, defaultPort, nil
	}
	if strings.HasPrefix(address, "[") && strings.HasSuffix(address, "]") {
		return strings.Trim(address, "[]"), defaultPort, nil
	}

	host, portText, err := net.SplitHostPort(address)
	if err != nil {
		return "", 0, fmt.Errorf("invalid address %q: %w", address, err)
	}
	port, err := strconv.Atoi(portText)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q", address)
	}
	return host, port, nil
}
