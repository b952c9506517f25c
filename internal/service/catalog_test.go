package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinhtqfx07044/laptop/internal/domain"
	"github.com/vinhtqfx07044/laptop/internal/repository"
	"github.com/vinhtqfx07044/laptop/internal/testutil"
)

func setupCatalogValidator(t *testing.T) (*CatalogValidator, *repository.ServiceItemRepository) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewServiceItemRepository(db)
	return NewCatalogValidator(repo), repo
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRefreshItems_Empty(t *testing.T) {
	validator, _ := setupCatalogValidator(t)

	items, err := validator.RefreshItems(testutil.Ctx(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRefreshItems_SnapshotsFromCatalog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	validator := NewCatalogValidator(repository.NewServiceItemRepository(db))

	entry := testutil.CreateTestServiceItem(t, db, "Thay màn hình", "2500000")

	payloads := []domain.RequestItemPayload{{
		ServiceItemID: entry.ID,
		Name:          entry.Name,
		Price:         dec("2500000"),
		VATRate:       dec("0.1"),
		Quantity:      2,
		Discount:      dec("100000"),
	}}

	items, err := validator.RefreshItems(testutil.Ctx(), payloads)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, entry.ID, items[0].ServiceItemID)
	assert.Equal(t, "Thay màn hình", items[0].Name)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("2500000")))
	assert.Equal(t, 30, items[0].WarrantyDays)
	// User-authored fields survive the refresh
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].Discount.Equal(decimal.RequireFromString("100000")))
}

func TestRefreshItems_UnknownService(t *testing.T) {
	validator, _ := setupCatalogValidator(t)

	payloads := []domain.RequestItemPayload{{
		ServiceItemID: uuid.New(),
		Name:          "Vệ sinh máy",
		Quantity:      1,
	}}

	_, err := validator.RefreshItems(testutil.Ctx(), payloads)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Không tìm dịch vụ sửa chửa: Vệ sinh máy", err.Error())
}

func TestRefreshItems_InactiveServiceIsUnknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	validator := NewCatalogValidator(repository.NewServiceItemRepository(db))

	entry := testutil.CreateTestServiceItem(t, db, "Thay bàn phím", "800000")
	require.NoError(t, db.Model(entry).Update("active", false).Error)

	payloads := []domain.RequestItemPayload{{
		ServiceItemID: entry.ID,
		Name:          entry.Name,
		Quantity:      1,
	}}

	_, err := validator.RefreshItems(testutil.Ctx(), payloads)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRefreshItems_AccumulatesDriftAcrossItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	validator := NewCatalogValidator(repository.NewServiceItemRepository(db))

	screen := testutil.CreateTestServiceItem(t, db, "Thay màn hình", "2500000")
	battery := testutil.CreateTestServiceItem(t, db, "Thay pin", "900000")

	payloads := []domain.RequestItemPayload{
		{
			ServiceItemID: screen.ID,
			Name:          screen.Name,
			Price:         dec("2400000"), // stale
			Quantity:      1,
		},
		{
			ServiceItemID: battery.ID,
			Name:          battery.Name,
			Price:         dec("850000"), // stale too
			Quantity:      1,
		},
	}

	_, err := validator.RefreshItems(testutil.Ctx(), payloads)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))

	// One conflict carrying every stale field, not just the first
	msg := err.Error()
	assert.Contains(t, msg, "Giá dịch vụ 'Thay màn hình' đã thay đổi từ 2400000 thành 2500000. ")
	assert.Contains(t, msg, "Giá dịch vụ 'Thay pin' đã thay đổi từ 850000 thành 900000. ")
	assert.True(t, len(msg) > 0 && msg[len(msg)-1] == '.')
	assert.Contains(t, msg, "Vui lòng làm mới trang và thử lại.")
}

func TestRefreshItems_DriftOnVATAndWarranty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	validator := NewCatalogValidator(repository.NewServiceItemRepository(db))

	entry := testutil.CreateTestServiceItem(t, db, "Thay quạt tản nhiệt", "400000")

	staleWarranty := 90
	payloads := []domain.RequestItemPayload{{
		ServiceItemID: entry.ID,
		Name:          entry.Name,
		VATRate:       dec("0.08"),
		WarrantyDays:  &staleWarranty,
		Quantity:      1,
	}}

	_, err := validator.RefreshItems(testutil.Ctx(), payloads)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Contains(t, err.Error(), "VAT dịch vụ 'Thay quạt tản nhiệt' đã thay đổi từ 8% thành 10%. ")
	assert.Contains(t, err.Error(), "Thời hạn bảo hành dịch vụ 'Thay quạt tản nhiệt' đã thay đổi từ 90 ngày thành 30 ngày. ")
}

func TestRefreshItems_OmittedSnapshotFieldsSkipDriftCheck(t *testing.T) {
	db := testutil.SetupTestDB(t)
	validator := NewCatalogValidator(repository.NewServiceItemRepository(db))

	entry := testutil.CreateTestServiceItem(t, db, "Cài đặt phần mềm", "200000")

	// No price/vat/warranty submitted: nothing to compare against
	payloads := []domain.RequestItemPayload{{
		ServiceItemID: entry.ID,
		Name:          entry.Name,
		Quantity:      1,
	}}

	items, err := validator.RefreshItems(testutil.Ctx(), payloads)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("200000")))
}

func TestRefreshItems_DiscountExceedsPrice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	validator := NewCatalogValidator(repository.NewServiceItemRepository(db))

	entry := testutil.CreateTestServiceItem(t, db, "Vệ sinh máy", "300000")

	payloads := []domain.RequestItemPayload{{
		ServiceItemID: entry.ID,
		Name:          entry.Name,
		Quantity:      1,
		Discount:      dec("350000"),
	}}

	_, err := validator.RefreshItems(testutil.Ctx(), payloads)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "Giảm giá vượt quá giá gốc: Vệ sinh máy", err.Error())
}
