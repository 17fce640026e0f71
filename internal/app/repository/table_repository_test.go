package repository

import (
	"context"
	"testing"

	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRepository(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewTableRepository(testDB)
	ctx := context.Background()

	require.NoError(t, testDB.Create(&model.Table{TableNumber: 7, Active: true}).Error)
	require.NoError(t, testDB.Create(&model.Table{TableNumber: 3, Active: true}).Error)
	require.NoError(t, testDB.Create(&model.Table{TableNumber: 9, Active: false}).Error)

	table, err := repo.FindActiveByNumber(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, table.TableNumber)

	_, err = repo.FindActiveByNumber(ctx, 9)
	assert.Error(t, err, "inactive tables are not resolvable")

	byID, err := repo.FindActiveByID(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, table.ID, byID.ID)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, 3, active[0].TableNumber)
}
