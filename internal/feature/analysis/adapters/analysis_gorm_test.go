package adapters

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics_backend/internal/feature/analysis/domain/entity"
	"analytics_backend/internal/feature/analysis/usecase"
	uploadadapters "analytics_backend/internal/feature/upload/adapters"
	uploadentity "analytics_backend/internal/feature/upload/domain/entity"
	"analytics_backend/internal/platform/db"
)

type fixture struct {
	repo    *analysisGorm
	uploads map[uint]*uploadentity.Upload
}

// setup migrates both tables and inserts one upload per owner 1 and 2.
func setup(t *testing.T) fixture {
	t.Helper()

	gdb, err := db.OpenSQLiteMemory(&uploadadapters.UploadModel{}, &AnalysisModel{})
	require.NoError(t, err)

	uploadRepo := uploadadapters.NewUploadGorm(gdb)
	uploads := map[uint]*uploadentity.Upload{}
	for _, owner := range []uint{1, 2} {
		u := &uploadentity.Upload{
			UserID:   owner,
			FileName: fmt.Sprintf("owner-%d.xlsx", owner),
			Columns:  []string{"Month", "Revenue"},
			Rows:     []uploadentity.Row{{"Month": "Jan", "Revenue": 1.0}},
		}
		require.NoError(t, uploadRepo.Create(context.Background(), u))
		uploads[owner] = u
	}
	return fixture{repo: NewAnalysisGorm(gdb), uploads: uploads}
}

func TestAnalysisGorm_CreateAndFind(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := &entity.Analysis{
		UserID:     1,
		UploadID:   f.uploads[1].ID,
		XAxis:      "Month",
		YAxis:      "Revenue",
		ChartType:  entity.ChartBar,
		AISummary:  "steady",
		ChartImage: "data:image/png;base64,AAAA",
	}
	require.NoError(t, f.repo.Create(ctx, a))
	assert.NotZero(t, a.ID)

	got, err := f.repo.FindByID(ctx, 1, a.ID)
	require.NoError(t, err)

	assert.Equal(t, "owner-1.xlsx", got.UploadFileName)
	assert.Equal(t, entity.ChartBar, got.ChartType)
	assert.Equal(t, "steady", got.AISummary)
	assert.Equal(t, "data:image/png;base64,AAAA", got.ChartImage)
	assert.Equal(t, a.UploadID, got.UploadID)
}

func TestAnalysisGorm_FindByID_OwnerScoped(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := &entity.Analysis{UserID: 1, UploadID: f.uploads[1].ID, XAxis: "Month", YAxis: "Revenue", ChartType: entity.ChartLine}
	require.NoError(t, f.repo.Create(ctx, a))

	_, err := f.repo.FindByID(ctx, 2, a.ID)
	assert.ErrorIs(t, err, usecase.ErrAnalysisNotFound)

	_, err = f.repo.FindByID(ctx, 1, a.ID+1)
	assert.ErrorIs(t, err, usecase.ErrAnalysisNotFound)
}

func TestAnalysisGorm_ListByOwner(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	mk := func(owner uint, ct entity.ChartType, at time.Time) *entity.Analysis {
		a := &entity.Analysis{UserID: owner, UploadID: f.uploads[owner].ID, XAxis: "Month", YAxis: "Revenue", ChartType: ct, CreatedAt: at}
		require.NoError(t, f.repo.Create(ctx, a))
		return a
	}
	older := mk(1, entity.ChartBar, base)
	tieA := mk(1, entity.ChartLine, base.Add(time.Minute))
	tieB := mk(1, entity.ChartPie, base.Add(time.Minute))
	mk(2, entity.ChartScatter, base.Add(time.Hour))

	list, err := f.repo.ListByOwner(ctx, 1)
	require.NoError(t, err)

	require.Len(t, list, 3)
	assert.Equal(t, []uint{tieB.ID, tieA.ID, older.ID}, []uint{list[0].ID, list[1].ID, list[2].ID})
	for _, v := range list {
		assert.Equal(t, "owner-1.xlsx", v.UploadFileName)
		assert.Equal(t, uint(1), v.UserID)
	}

	again, err := f.repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, list, again)
}
