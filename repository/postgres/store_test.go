package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/questlog/domain"
)

func TestParseIsolation(t *testing.T) {
	level, err := parseIsolation("")
	require.NoError(t, err)
	assert.Equal(t, pgx.ReadCommitted, level)

	level, err = parseIsolation(IsolationSerializable)
	require.NoError(t, err)
	assert.Equal(t, pgx.Serializable, level)

	_, err = parseIsolation("chaos")
	assert.Error(t, err)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, domain.ErrTaskNotFound))
	assert.Equal(t, domain.ErrTaskNotFound, translate(pgx.ErrNoRows, domain.ErrTaskNotFound))

	serialization := &pgconn.PgError{Code: sqlStateSerializationFailure}
	assert.True(t, domain.IsDomainError(translate(serialization, nil), domain.ErrCodeConflict))

	other := errors.New("boom")
	assert.Equal(t, other, translate(other, nil))

	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: sqlStateUniqueViolation}))
	assert.False(t, isUniqueViolation(other))
}
