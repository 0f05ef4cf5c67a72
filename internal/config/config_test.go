package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("DB_PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.HTTPPort)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, 5*time.Second, cfg.QueryTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.TrustedProxies)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_TrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.10")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.10"}, cfg.TrustedProxies)
}

func TestLoadConfig_MySQLDefaultPort(t *testing.T) {
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, 3306, cfg.DBPort)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Run("Port", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "eighty")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "HTTP_PORT")
	})

	t.Run("Duration", func(t *testing.T) {
		t.Setenv("DB_QUERY_TIMEOUT", "soon")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "DB_QUERY_TIMEOUT")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			HTTPPort:     3000,
			DBDriver:     DriverPostgres,
			DBHost:       "localhost",
			DBPort:       5432,
			DBName:       "crud_api",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			QueryTimeout: time.Second,
			BcryptCost:   10,
			LogLevel:     "info",
			LogFormat:    "json",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad driver", func(c *Config) { c.DBDriver = "sqlite" }, "DB_DRIVER"},
		{"bad port", func(c *Config) { c.HTTPPort = 70000 }, "HTTP_PORT"},
		{"cost too low", func(c *Config) { c.BcryptCost = 1 }, "BCRYPT_COST"},
		{"idle above open", func(c *Config) { c.MaxIdleConns = 20 }, "DB_MAX_IDLE_CONNS"},
		{"no database", func(c *Config) { c.DBHost = ""; c.DatabaseURL = "" }, "DATABASE_URL"},
		{"url without host", func(c *Config) { c.DBHost = ""; c.DatabaseURL = "postgres://x/y" }, ""},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "LOG_LEVEL"},
		{"burst required", func(c *Config) { c.RateLimitRPS = 5; c.RateLimitBurst = 0 }, "RATE_LIMIT_BURST"},
		{"trusted proxies", func(c *Config) { c.TrustedProxies = []string{"10.0.0.0/8", "::1"} }, ""},
		{"bad trusted proxy", func(c *Config) { c.TrustedProxies = []string{"lb.internal"} }, "TRUSTED_PROXIES"},
		{"bad mysql url", func(c *Config) { c.DBDriver = DriverMySQL; c.DatabaseURL = "mysql://root@db/crud_api" }, "DATABASE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDSN(t *testing.T) {
	t.Run("DatabaseURLWins", func(t *testing.T) {
		cfg := &Config{DBDriver: DriverPostgres, DatabaseURL: "postgres://u:p@db:5432/app"}
		assert.Equal(t, "postgres://u:p@db:5432/app", cfg.DSN())
	})

	t.Run("Postgres", func(t *testing.T) {
		cfg := &Config{
			DBDriver: DriverPostgres, DBHost: "db", DBPort: 5432,
			DBUser: "app", DBPassword: "s3cret", DBName: "crud_api", DBSSLMode: "disable",
		}
		assert.Equal(t, "postgres://app:s3cret@db:5432/crud_api?sslmode=disable", cfg.DSN())
	})

	t.Run("MySQL", func(t *testing.T) {
		cfg := &Config{
			DBDriver: DriverMySQL, DBHost: "db", DBPort: 3306,
			DBUser: "root", DBPassword: "pw", DBName: "crud_api",
		}
		dsn := cfg.DSN()
		assert.Contains(t, dsn, "root:pw@tcp(db:3306)/crud_api")
		assert.Contains(t, dsn, "parseTime=true")
	})

	t.Run("MySQLDatabaseURLParsesTime", func(t *testing.T) {
		cfg := &Config{DBDriver: DriverMySQL, DatabaseURL: "root@tcp(localhost:3306)/crud_api"}
		dsn := cfg.DSN()
		assert.Contains(t, dsn, "root@tcp(localhost:3306)/crud_api")
		assert.Contains(t, dsn, "parseTime=true")
	})

	t.Run("MySQLDatabaseURLKeepsOptions", func(t *testing.T) {
		cfg := &Config{
			DBDriver:    DriverMySQL,
			DatabaseURL: "root:pw@tcp(db:3306)/crud_api?parseTime=false&loc=Local&charset=utf8mb4",
		}
		dsn := cfg.DSN()
		assert.Contains(t, dsn, "parseTime=true")
		assert.Contains(t, dsn, "loc=Local")
		assert.Contains(t, dsn, "charset=utf8mb4")
	})
}

func TestHTTPAddr(t *testing.T) {
	cfg := &Config{HTTPHost: "127.0.0.1", HTTPPort: 3000}
	assert.Equal(t, "127.0.0.1:3000", cfg.HTTPAddr())
}
