package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, true},
		{"foreign key broken by concurrent delete", &pgconn.PgError{Code: "23503"}, true},
		{"wrapped deadlock", fmt.Errorf("update save: %w", &pgconn.PgError{Code: "40P01"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"syntax error", &pgconn.PgError{Code: "42601"}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestConstraintViolations(t *testing.T) {
	fk := fmt.Errorf("insert choice: %w", &pgconn.PgError{Code: "23503"})
	unique := &pgconn.PgError{Code: "23505"}

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestPoolConfigRedactsPassword(t *testing.T) {
	cfg := PoolConfig{Host: "db", Port: "5432", User: "novel", Password: "s3cret", Name: "novel", SSLMode: "disable"}

	assert.Contains(t, cfg.DSN(), "s3cret")
	assert.NotContains(t, cfg.RedactedDSN(), "s3cret")
	assert.Contains(t, cfg.RedactedDSN(), "db:5432")
}
