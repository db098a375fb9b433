package backup

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftmatrix/savetrack-api/internal/memstore"
	"github.com/craftmatrix/savetrack-api/internal/store"
	"github.com/craftmatrix/savetrack-api/models"
)

func seeded(t *testing.T) *memstore.Store {
	t.Helper()
	ctx := context.Background()
	st := memstore.New()
	uid := uuid.New()
	require.NoError(t, st.Users().Insert(ctx, &models.User{ID: uid, Email: "ana@example.com", Role: models.DefaultRole}))
	require.NoError(t, st.Accounts().Insert(ctx, &models.Account{ID: uuid.New(), UserID: uid, Label: "Wallet", InitValue: decimal.NewFromInt(25)}))
	require.NoError(t, st.Bills().Insert(ctx, &models.Bill{UserID: uid, Name: "Rent", Amount: decimal.NewFromInt(900), Status: models.BillPending, Currency: "USD"}))
	return st
}

func TestRunWritesEveryTable(t *testing.T) {
	st := seeded(t)
	dir := filepath.Join(t.TempDir(), "nested")
	now := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)

	res, err := Run(context.Background(), st, dir, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "savetrack-20240301T083000Z.db"), res.Path)
	assert.Len(t, res.Rows, len(st.TableNames()))
	assert.Equal(t, 1, res.Rows["Accounts"])
	assert.Equal(t, 0, res.Rows["Insights"])

	db, err := sql.Open("sqlite", res.Path)
	require.NoError(t, err)
	defer db.Close()

	var label, initValue string
	require.NoError(t, db.QueryRow(`SELECT label, init_value FROM "Accounts"`).Scan(&label, &initValue))
	assert.Equal(t, "Wallet", label)
	assert.Equal(t, "25", initValue)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "Bills"`).Scan(&n))
	assert.Equal(t, 1, n)

	_, err = os.Stat(res.Path + ".partial")
	assert.True(t, os.IsNotExist(err))
}

type brokenSource struct{ store.Store }

func (b brokenSource) Lookup(name string) (store.TableHandle, error) {
	if name == "Bills" {
		return nil, errors.New("table gone")
	}
	return b.Store.Lookup(name)
}

func TestSnapshotLeavesNothingOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.db")

	_, err := Snapshot(context.Background(), brokenSource{seeded(t)}, path)
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(path + ".partial")
	assert.True(t, os.IsNotExist(statErr))
}
