package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"users-api/internal/config"
	"users-api/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestDialector(t *testing.T) {
	t.Run("Postgres", func(t *testing.T) {
		d, err := Dialector(&config.Config{DBDriver: config.DriverPostgres, DatabaseURL: "postgres://localhost/crud_api"})
		require.NoError(t, err)
		assert.Equal(t, "postgres", d.Name())
	})

	t.Run("MySQL", func(t *testing.T) {
		d, err := Dialector(&config.Config{DBDriver: config.DriverMySQL, DatabaseURL: "root@tcp(localhost:3306)/crud_api"})
		require.NoError(t, err)
		assert.Equal(t, "mysql", d.Name())
	})

	t.Run("Unsupported", func(t *testing.T) {
		_, err := Dialector(&config.Config{DBDriver: "oracle"})
		assert.ErrorContains(t, err, "unsupported database driver")
	})
}

func TestGormLogger_Trace(t *testing.T) {
	sqlFn := func() (string, int64) { return "SELECT * FROM users", 1 }
	ctx := context.Background()

	t.Run("ErrorIsLogged", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewGormLogger(logging.New(&buf, "debug", "json"), time.Second)

		l.Trace(ctx, time.Now(), sqlFn, errors.New("connection reset"))
		assert.Contains(t, buf.String(), "db_query_failed")
		assert.Contains(t, buf.String(), "connection reset")
	})

	t.Run("RecordNotFoundIsQuiet", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewGormLogger(logging.New(&buf, "debug", "json"), time.Second)

		l.Trace(ctx, time.Now(), sqlFn, gorm.ErrRecordNotFound)
		assert.Empty(t, buf.String())
	})

	t.Run("SlowQuery", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewGormLogger(logging.New(&buf, "debug", "json"), time.Millisecond)

		l.Trace(ctx, time.Now().Add(-time.Second), sqlFn, nil)
		assert.Contains(t, buf.String(), "db_slow_query")
	})

	t.Run("Silent", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewGormLogger(logging.New(&buf, "debug", "json"), time.Millisecond).LogMode(gormlogger.Silent)

		l.Trace(ctx, time.Now().Add(-time.Second), sqlFn, errors.New("boom"))
		assert.Empty(t, buf.String())
	})
}
