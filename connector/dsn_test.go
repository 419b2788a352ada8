package connector

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"URL", "postgres://user:pw@db:5433/app?sslmode=disable", "postgres://user:pw@db:5433/app?sslmode=disable"},
		{"PostgresqlURL", "postgresql://db/app", "postgresql://db/app"},
		{"KeywordValue", "host=db port=5433 dbname=app", "host=db port=5433 dbname=app"},
		{"BareHost", "hello", "postgres://hello:5432"},
		{"HostPort", "localhost:10000", "postgres://localhost:10000"},
		{"IPv6WithPort", "[::1]:5433", "postgres://[::1]:5433"},
		{"IPv6Bracketed", "[::1]", "postgres://[::1]:5432"},
		{"IPv6Bare", "::1", "postgres://[::1]:5432"},
		{"Trimmed", "  localhost  ", "postgres://localhost:5432"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeAddress(tt.address, addressDefaults{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeAddressRejects(t *testing.T) {
	for _, address := range []string{
		"",
		"mysql://db/app",
		"localhost:port",
		"localhost:0",
		"localhost:70000",
		"db:1:2:x",
		"bad host:5432",
	} {
		_, err := normalizeAddress(address, addressDefaults{})
		assert.Error(t, err, address)
	}
}

func TestNormalizeAddressDefaults(t *testing.T) {
	d := addressDefaults{
		user:            "app user",
		password:        "p@ss+word",
		database:        "my db",
		applicationName: "pgconnect",
		sslMode:         "disable",
	}

	t.Run("Should complete a bare host", func(t *testing.T) {
		dsn, err := normalizeAddress("db:5433", d)
		require.NoError(t, err)
		assert.Equal(t, "postgres://app%20user:p%40ss+word@db:5433/my%20db?application_name=pgconnect&sslmode=disable", dsn)

		cfg, err := pgx.ParseConfig(dsn)
		require.NoError(t, err)
		assert.Equal(t, "app user", cfg.User)
		assert.Equal(t, "p@ss+word", cfg.Password)
		assert.Equal(t, "my db", cfg.Database)
		assert.Equal(t, "db", cfg.Host)
		assert.Equal(t, uint16(5433), cfg.Port)
		assert.Equal(t, "pgconnect", cfg.RuntimeParams["application_name"])
	})

	t.Run("Should leave URLs and keyword strings alone", func(t *testing.T) {
		for _, address := range []string{"postgres://other@db/app", "host=db user=other"} {
			dsn, err := normalizeAddress(address, d)
			require.NoError(t, err)
			assert.Equal(t, address, dsn)
		}
	})

	t.Run("Should take defaults from options", func(t *testing.T) {
		o := newOptions([]Option{
			WithCredentials("reader", "secret"),
			WithDatabase("reports"),
			WithSSLMode("require"),
			WithApplicationName("batch"),
		})
		dsn, err := normalizeAddress("db", o.addressDefaults())
		require.NoError(t, err)
		assert.Equal(t, "postgres://reader:secret@db:5432/reports?application_name=batch&sslmode=require", dsn)
	})
}

func TestDSNBuilder(t *testing.T) {
	dsn := NewDSNBuilder("postgres").
		Auth("app user", "p@ss").
		Host("db", 5432).
		Database("my db").
		Param("sslmode", "disable").
		Param("application_name", "pgconnect").
		Param("empty", "").
		Build()

	assert.Equal(t, "postgres://app%20user:p%40ss@db:5432/my%20db?application_name=pgconnect&sslmode=disable", dsn)
}

func TestDSNBuilderValidate(t *testing.T) {
	assert.NoError(t, NewDSNBuilder("postgres").Host("db", 5432).Validate())
	assert.Error(t, NewDSNBuilder("postgres").Host("", 5432).Validate())
	assert.Error(t, NewDSNBuilder("postgres").Host("db", 0).Validate())
}
