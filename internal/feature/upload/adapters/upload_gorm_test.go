package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"analytics_backend/internal/feature/upload/domain/entity"
	"analytics_backend/internal/feature/upload/usecase"
	"analytics_backend/internal/platform/db"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenSQLiteMemory(&UploadModel{})
	require.NoError(t, err, "failed to initialize test database")
	return gdb
}

func sampleUpload(owner uint, name string) *entity.Upload {
	return &entity.Upload{
		UserID:   owner,
		FileName: name,
		FileSize: 512,
		Columns:  []string{"Month", "Revenue", "Note"},
		Rows: []entity.Row{
			{"Month": "Jan", "Revenue": 100.5, "Note": nil},
			{"Month": "Feb", "Revenue": 200.0, "Note": "promo"},
		},
	}
}

func TestUploadGorm_CreateAndFind(t *testing.T) {
	repo := NewUploadGorm(setupTestDB(t))
	ctx := context.Background()

	u := sampleUpload(1, "sales.xlsx")
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := repo.FindByID(ctx, 1, u.ID)
	require.NoError(t, err)

	assert.Equal(t, u.Columns, got.Columns)
	assert.Equal(t, u.Rows, got.Rows)
	assert.Equal(t, "sales.xlsx", got.FileName)
	assert.Equal(t, int64(512), got.FileSize)
}

func TestUploadGorm_FindByID_OwnerScoped(t *testing.T) {
	repo := NewUploadGorm(setupTestDB(t))
	ctx := context.Background()

	u := sampleUpload(1, "mine.xlsx")
	require.NoError(t, repo.Create(ctx, u))

	_, foreignErr := repo.FindByID(ctx, 2, u.ID)
	_, missingErr := repo.FindByID(ctx, 1, u.ID+99)

	assert.ErrorIs(t, foreignErr, usecase.ErrUploadNotFound)
	assert.ErrorIs(t, missingErr, usecase.ErrUploadNotFound)
	assert.Equal(t, foreignErr.Error(), missingErr.Error())
}

func TestUploadGorm_ListByOwner_Ordering(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewUploadGorm(gdb)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first := sampleUpload(1, "first.csv")
	first.CreatedAt = base
	tieA := sampleUpload(1, "tie-a.csv")
	tieA.CreatedAt = base.Add(time.Hour)
	tieB := sampleUpload(1, "tie-b.csv")
	tieB.CreatedAt = base.Add(time.Hour)
	other := sampleUpload(2, "other.csv")

	for _, u := range []*entity.Upload{first, tieA, tieB, other} {
		require.NoError(t, repo.Create(ctx, u))
	}

	list, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)

	names := make([]string, len(list))
	for i, u := range list {
		names[i] = u.FileName
	}
	// equal timestamps fall back to id descending
	assert.Equal(t, []string{"tie-b.csv", "tie-a.csv", "first.csv"}, names)

	again, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, list, again)

	none, err := repo.ListByOwner(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUploadGorm_ListSummariesByOwner(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewUploadGorm(gdb)
	ctx := context.Background()

	older := sampleUpload(1, "older.csv")
	older.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := sampleUpload(1, "newer.xlsx")
	newer.CreatedAt = older.CreatedAt.Add(time.Minute)
	newer.Rows = append(newer.Rows, entity.Row{"Month": "Mar", "Revenue": 1.0, "Note": nil})
	for _, u := range []*entity.Upload{older, newer, sampleUpload(2, "foreign.csv")} {
		require.NoError(t, repo.Create(ctx, u))
	}

	// Summaries never touch row_data, so a damaged payload does not matter.
	require.NoError(t, gdb.Exec("UPDATE uploads SET row_data = ?", "not json").Error)

	list, err := repo.ListSummariesByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, "newer.xlsx", list[0].FileName)
	assert.Equal(t, 3, list[0].RowCount)
	assert.Equal(t, []string{"Month", "Revenue", "Note"}, list[0].Columns)
	assert.Equal(t, older.ID, list[1].ID)
	assert.Equal(t, 2, list[1].RowCount)

	_, err = repo.ListByOwner(ctx, 1)
	assert.Error(t, err, "full listing decodes row_data")
}
