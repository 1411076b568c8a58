package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pgx unique", &pgconn.PgError{Code: "23505", ConstraintName: "idx_orders_payment_reference"}, true},
		{"pgx foreign key", &pgconn.PgError{Code: "23503"}, false},
		{"pq unique", &pq.Error{Code: "23505"}, true},
		{"pq not null", &pq.Error{Code: "23502"}, false},
		{"wrapped pgx unique", fmt.Errorf("create order: %w", &pgconn.PgError{Code: "23505"}), true},
		{"postgres message", errors.New(`duplicate key value violates unique constraint "idx_orders_payment_reference"`), true},
		{"sqlite message", errors.New("UNIQUE constraint failed: orders.payment_reference"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsUniqueViolation(tc.err))
		})
	}
}
