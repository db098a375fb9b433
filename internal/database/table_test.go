package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/internal/store"
)

func TestLookupResolvesLogicalAndSQLNames(t *testing.T) {
	tables := NewTables(nil)

	for _, name := range []string{"Bills", "bills", " BILLS ", "ChartData", "chart_data", "WishListParents", "wishlist_parents", "budget_items"} {
		h, err := tables.Lookup(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, h.Columns())
	}

	h, err := tables.Lookup("Transactions")
	require.NoError(t, err)
	assert.Equal(t, store.Transactions.Columns, h.Columns())
}

func TestLookupUnknownIsConfigurationError(t *testing.T) {
	_, err := NewTables(nil).Lookup("Transactionz")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConfiguration))
}

func TestTableNamesCoverRegistry(t *testing.T) {
	tables := NewTables(nil)
	for _, name := range tables.TableNames() {
		_, err := tables.Lookup(name)
		assert.NoError(t, err, name)
	}
}

func TestOwnerColumn(t *testing.T) {
	assert.Equal(t, "id", NewTable(nil, store.Users).ownerCol)
	assert.Equal(t, "user_id", NewTable(nil, store.Bills).ownerCol)
	assert.Equal(t, "$3, $4, $5", placeholders(3, 3))
}

func TestWriteErrNamesTheViolatedSide(t *testing.T) {
	tbl := NewTable(nil, store.Transactions)
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "transactions_account_id_fkey"}

	err := tbl.writeErr(opDelete, fk)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "Transactions record is still referenced", apperr.Message(err))

	for _, op := range []string{opInsert, opUpdate} {
		err = tbl.writeErr(op, fmt.Errorf("exec: %w", fk))
		assert.True(t, apperr.Is(err, apperr.KindConflict), op)
		assert.Equal(t, "Transactions record references a missing row", apperr.Message(err), op)
	}

	err = tbl.writeErr(opInsert, &pgconn.PgError{Code: "23505"})
	assert.Equal(t, "Transactions record already exists", apperr.Message(err))

	plain := errors.New("connection reset")
	err = tbl.writeErr(opUpdate, plain)
	assert.ErrorIs(t, err, plain)
	assert.False(t, apperr.Is(err, apperr.KindConflict))
}
