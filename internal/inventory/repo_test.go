package inventory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// one in-memory database per test so fixtures cannot leak across tests
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS inventory_items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  model TEXT,
  serial_number TEXT,
  quantity INTEGER NOT NULL DEFAULT 0,
  low_stock_threshold INTEGER NOT NULL DEFAULT 5,
  department TEXT NOT NULL,
  location TEXT,
  cabin_number TEXT,
  specifications TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  created_by TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedItem(t *testing.T, repo Repository, name string, dept enums.Department, createdAt time.Time) *models.InventoryItem {
	t.Helper()

	item := &models.InventoryItem{
		Name:       name,
		Category:   "Lab Equipment",
		Quantity:   3,
		Department: dept,
		Status:     enums.ItemStatusActive,
		CreatedBy:  uuid.New(),
		CreatedAt:  createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

func TestRepositoryCreateAssignsID(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)

	item := seedItem(t, repo, "Spectrometer", enums.DepartmentPhysics, time.Now())
	assert.NotEqual(t, uuid.Nil, item.ID)

	got, err := repo.GetByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spectrometer", got.Name)
	assert.Equal(t, enums.DepartmentPhysics, got.Department)
}

func TestRepositoryUpdateAndDelete(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	item := seedItem(t, repo, "pH Meter", enums.DepartmentChemistry, time.Now())
	item.Quantity = 12
	require.NoError(t, repo.Update(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Quantity)

	affected, err := repo.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	_, err = repo.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListFiltersByDepartment(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	seedItem(t, repo, "Soldering Iron", enums.DepartmentIT, base)
	seedItem(t, repo, "Crimping Tool", enums.DepartmentIT, base.Add(time.Minute))
	seedItem(t, repo, "Test Tube Rack", enums.DepartmentChemistry, base.Add(2*time.Minute))

	dept := enums.DepartmentIT
	rows, cursor, err := repo.List(ctx, listInventoryParams{Department: &dept})
	require.NoError(t, err)
	assert.Nil(t, cursor)
	require.Len(t, rows, 2)
	// newest first
	assert.Equal(t, "Crimping Tool", rows[0].Name)
	assert.Equal(t, "Soldering Iron", rows[1].Name)
}

func TestRepositoryListCursorPaging(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-2 * time.Hour)
	names := []string{"Caliper A", "Caliper B", "Caliper C"}
	for i, name := range names {
		seedItem(t, repo, name, enums.DepartmentMechanical, base.Add(time.Duration(i)*time.Minute))
	}

	dept := enums.DepartmentMechanical
	first, cursor, err := repo.List(ctx, listInventoryParams{Department: &dept, Limit: 2})
	require.NoError(t, err)
	require.NotNil(t, cursor)
	require.Len(t, first, 2)
	assert.Equal(t, "Caliper C", first[0].Name)
	assert.Equal(t, "Caliper B", first[1].Name)

	second, next, err := repo.List(ctx, listInventoryParams{Department: &dept, Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	assert.Nil(t, next)
	require.Len(t, second, 1)
	assert.Equal(t, "Caliper A", second[0].Name)
}

func TestRepositoryListNameFilter(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-3 * time.Hour)
	seedItem(t, repo, "Fume Hood Filter", enums.DepartmentBioTech, base)
	seedItem(t, repo, "Incubator Tray", enums.DepartmentBioTech, base.Add(time.Minute))

	dept := enums.DepartmentBioTech
	rows, _, err := repo.List(ctx, listInventoryParams{Department: &dept, Name: "Fume"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Fume Hood Filter", rows[0].Name)
}
