package repository_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vinhtqfx07044/laptop/internal/domain"
	"github.com/vinhtqfx07044/laptop/internal/repository"
	"github.com/vinhtqfx07044/laptop/internal/testutil"
)

func TestRequestRepository_CreateCascadesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRequestRepository(db)

	request := &domain.Request{
		Name:            "Nguyễn Văn An",
		Phone:           "0901234567",
		AppointmentDate: time.Now().Add(24 * time.Hour),
		Description:     "Màn hình bị sọc dọc, cần thay mới",
		Status:          domain.StatusScheduled,
	}
	request.ID = uuid.New()
	request.Items = []domain.RequestItem{{
		RequestID:     request.ID,
		ServiceItemID: uuid.New(),
		Name:          "Thay màn hình",
		Price:         decimal.RequireFromString("2500000"),
		VATRate:       decimal.RequireFromString("0.1"),
		Quantity:      1,
		Discount:      decimal.Zero,
	}}
	request.History = []domain.RequestHistory{{
		ID:        uuid.New(),
		RequestID: request.ID,
		Changes:   "Tạo mới yêu cầu",
		CreatedAt: time.Now(),
		CreatedBy: "admin",
	}}

	require.NoError(t, repo.Create(testutil.Ctx(), request))

	loaded, err := repo.GetByID(testutil.Ctx(), request.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 1)
	assert.Len(t, loaded.History, 1)
	assert.Equal(t, "Tạo mới yêu cầu", loaded.History[0].Changes)
}

func TestRequestRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRequestRepository(db)

	_, err := repo.GetByID(testutil.Ctx(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRequestRepository_SaveDoesNotTouchCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRequestRepository(db)

	request := testutil.CreateTestRequest(t, db, "Nguyễn Văn An", domain.StatusScheduled)
	catalog := testutil.CreateTestServiceItem(t, db, "Thay pin", "900000")
	testutil.AttachTestItem(t, db, request.ID, catalog, 1)

	loaded, err := repo.GetByIDWithItems(testutil.Ctx(), request.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)

	// Mutate the in-memory item list, then save only scalars
	loaded.Items[0].Quantity = 99
	loaded.Description = "Đã cập nhật mô tả chi tiết hơn"
	require.NoError(t, repo.Save(testutil.Ctx(), loaded))

	reloaded, err := repo.GetByIDWithItems(testutil.Ctx(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, "Đã cập nhật mô tả chi tiết hơn", reloaded.Description)
	assert.Equal(t, 1, reloaded.Items[0].Quantity, "items are written through ReplaceItems, not Save")
}

func TestRequestRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRequestRepository(db)

	testutil.CreateTestRequest(t, db, "Nguyễn Văn An", domain.StatusScheduled)
	testutil.CreateTestRequest(t, db, "Trần Thị Bình", domain.StatusCompleted)
	testutil.CreateTestRequest(t, db, "Lê Văn Cường", domain.StatusCompleted)

	requests, total, err := repo.List(testutil.Ctx(), "", nil, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, requests, 3)

	completed := domain.StatusCompleted
	_, total, err = repo.List(testutil.Ctx(), "", &completed, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// Keyword matches the name case-insensitively
	_, total, err = repo.List(testutil.Ctx(), "bình", nil, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// Keyword also matches the phone
	_, total, err = repo.List(testutil.Ctx(), "0901234567", nil, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	// Paging
	pageOne, total, err := repo.List(testutil.Ctx(), "", nil, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, pageOne, 2)
	pageTwo, _, err := repo.List(testutil.Ctx(), "", nil, 2, 2)
	require.NoError(t, err)
	assert.Len(t, pageTwo, 1)
}

func TestRequestRepository_FindByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRequestRepository(db)

	testutil.CreateTestRequest(t, db, "Nguyễn Văn An", domain.StatusScheduled)

	requests, err := repo.FindByEmail(testutil.Ctx(), "TEST@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Len(t, requests, 1)

	requests, err = repo.FindByEmail(testutil.Ctx(), "other@example.com")
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestRequestRepository_ReplaceItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRequestRepository(db)

	request := testutil.CreateTestRequest(t, db, "Nguyễn Văn An", domain.StatusScheduled)
	catalog := testutil.CreateTestServiceItem(t, db, "Thay pin", "900000")
	testutil.AttachTestItem(t, db, request.ID, catalog, 1)

	replacement := []domain.RequestItem{{
		ServiceItemID: catalog.ID,
		Name:          catalog.Name,
		Price:         catalog.Price,
		VATRate:       catalog.VATRate,
		WarrantyDays:  catalog.WarrantyDays,
		Quantity:      3,
		Discount:      decimal.Zero,
	}}
	require.NoError(t, repo.ReplaceItems(testutil.Ctx(), request.ID, replacement))

	loaded, err := repo.GetByIDWithItems(testutil.Ctx(), request.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 3, loaded.Items[0].Quantity)
	assert.Equal(t, request.ID, loaded.Items[0].RequestID)
}

func TestRequestRepository_ReplaceItems_WithEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRequestRepository(db)

	request := testutil.CreateTestRequest(t, db, "Nguyễn Văn An", domain.StatusScheduled)
	catalog := testutil.CreateTestServiceItem(t, db, "Thay pin", "900000")
	testutil.AttachTestItem(t, db, request.ID, catalog, 1)

	require.NoError(t, repo.ReplaceItems(testutil.Ctx(), request.ID, nil))

	loaded, err := repo.GetByIDWithItems(testutil.Ctx(), request.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Items)
}

func TestRequestRepository_Images(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRequestRepository(db)

	request := testutil.CreateTestRequest(t, db, "Nguyễn Văn An", domain.StatusScheduled)
	other := testutil.CreateTestRequest(t, db, "Trần Thị Bình", domain.StatusScheduled)

	img := &domain.RequestImage{ID: uuid.New(), RequestID: request.ID, Filename: "a.png"}
	require.NoError(t, repo.AddImage(testutil.Ctx(), img))
	require.NoError(t, repo.AddImage(testutil.Ctx(), &domain.RequestImage{ID: uuid.New(), RequestID: other.ID, Filename: "b.png"}))

	known, err := repo.AllImageFilenames(testutil.Ctx())
	require.NoError(t, err)
	assert.True(t, known[request.ID]["a.png"])
	assert.True(t, known[other.ID]["b.png"])
	assert.False(t, known[request.ID]["b.png"])

	require.NoError(t, repo.DeleteImage(testutil.Ctx(), request.ID, "a.png"))
	known, err = repo.AllImageFilenames(testutil.Ctx())
	require.NoError(t, err)
	assert.False(t, known[request.ID]["a.png"])
}
