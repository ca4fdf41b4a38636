package database_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"library-backend/pkg/database"
)

func Test_IsRetryable(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"serialization failure", &pgconn.PgError{Code: database.CodeSerializationFailure}, true},
		{"deadlock", &pgconn.PgError{Code: database.CodeDeadlockDetected}, true},
		{"wrapped serialization failure", fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"}), true},
		{"unique violation", &pgconn.PgError{Code: database.CodeUniqueViolation}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, database.IsRetryable(tc.err))
		})
	}
}

func Test_ConstraintViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: database.CodeUniqueViolation, ConstraintName: "books_isbn_key"})

	name, ok := database.ConstraintViolation(err, database.CodeUniqueViolation)
	assert.True(t, ok)
	assert.Equal(t, "books_isbn_key", name)

	_, ok = database.ConstraintViolation(err, database.CodeForeignKeyViolation)
	assert.False(t, ok)
}
