package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSizer struct {
	size int
	err  error
}

func (s fixedSizer) Size() (int, error) { return s.size, s.err }

func TestMonitorRefresh(t *testing.T) {
	dbErr := errors.New("down")
	var dbDown bool
	db := PingFunc(func(context.Context) error {
		if dbDown {
			return dbErr
		}
		return nil
	})
	redis := PingFunc(func(context.Context) error { return dbErr })

	m := New(db, redis, fixedSizer{size: 4}, time.Hour, nil)
	m.Refresh()

	status := m.GetStatus()
	assert.True(t, m.IsOnline())
	assert.True(t, status.Database)
	require.NotNil(t, status.Redis)
	assert.False(t, *status.Redis)
	assert.True(t, status.Buffer)
	assert.Equal(t, 4, status.BufferSize)

	dbDown = true
	m.Refresh()
	assert.False(t, m.IsOnline())
}

func TestMonitorOptionalDependencies(t *testing.T) {
	m := New(PingFunc(func(context.Context) error { return nil }), nil, nil, 0, nil)
	m.Start()
	defer m.Stop()

	status := m.GetStatus()
	assert.True(t, status.Database)
	assert.Nil(t, status.Redis)
	assert.False(t, status.Buffer)

	m.Stop()
}
