// internal/repository/postgres/errors_test.go
package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestPQErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})
	check := &pq.Error{Code: "23514", Constraint: "wallets_balance_check"}

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(check))
	assert.True(t, isCheckViolation(check))
	assert.False(t, isCheckViolation(sql.ErrNoRows))
	assert.True(t, isNoRows(fmt.Errorf("get: %w", sql.ErrNoRows)))
}
