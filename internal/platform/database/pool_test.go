package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_NoURL(t *testing.T) {
	pool, err := Connect(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, pool)
}

func TestNilPoolIsInert(t *testing.T) {
	var pool *Pool
	assert.Error(t, pool.Health(context.Background()))
	assert.NoError(t, pool.Close())
	assert.Zero(t, pool.Stats().OpenConnections)
}

func TestOptions(t *testing.T) {
	s := settings{
		maxOpenConns:    defaultMaxOpenConns,
		maxIdleConns:    defaultMaxIdleConns,
		connMaxLifetime: defaultConnMaxLifetime,
	}

	WithMaxConns(50, 10)(&s)
	WithConnLifetime(time.Minute)(&s)
	assert.Equal(t, 50, s.maxOpenConns)
	assert.Equal(t, 10, s.maxIdleConns)
	assert.Equal(t, time.Minute, s.connMaxLifetime)

	// Non-positive values keep what is already set.
	WithMaxConns(0, -1)(&s)
	WithConnLifetime(0)(&s)
	assert.Equal(t, 50, s.maxOpenConns)
	assert.Equal(t, 10, s.maxIdleConns)
	assert.Equal(t, time.Minute, s.connMaxLifetime)
}
