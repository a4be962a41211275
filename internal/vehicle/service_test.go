package vehicle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/car-rental-backend/internal/vehicle"
	"github.com/nekogravitycat/car-rental-backend/internal/vehicle/vehicletest"
)

func validCreate() vehicle.CreateRequest {
	return vehicle.CreateRequest{
		Make:         "Toyota",
		Model:        "Corolla",
		Year:         2022,
		Category:     vehicle.CategoryCompact,
		Transmission: vehicle.TransmissionAutomatic,
		Seats:        5,
		PricePerDay:  4500,
		City:         "Lisbon",
	}
}

func TestCreateVehicle(t *testing.T) {
	svc := vehicle.NewService(vehicletest.NewMemoryRepository())

	v, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.True(t, v.IsActive)
	assert.Nil(t, v.PhotoFileID)
}

func TestCreateVehicleValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *vehicle.CreateRequest)
		wantErr error
	}{
		{"missing make", func(r *vehicle.CreateRequest) { r.Make = "  " }, vehicle.ErrNameRequired},
		{"bad category", func(r *vehicle.CreateRequest) { r.Category = "truck" }, vehicle.ErrInvalidCategory},
		{"bad transmission", func(r *vehicle.CreateRequest) { r.Transmission = "cvt" }, vehicle.ErrInvalidTransmission},
		{"ancient", func(r *vehicle.CreateRequest) { r.Year = 1900 }, vehicle.ErrInvalidYear},
		{"no seats", func(r *vehicle.CreateRequest) { r.Seats = 0 }, vehicle.ErrInvalidSeats},
		{"free", func(r *vehicle.CreateRequest) { r.PricePerDay = 0 }, vehicle.ErrInvalidPrice},
	}

	svc := vehicle.NewService(vehicletest.NewMemoryRepository())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(&req)
			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, errors.Is(err, apperror.ErrValidation))
		})
	}
}

func TestListFilters(t *testing.T) {
	repo := vehicletest.NewMemoryRepository()
	suv := repo.Add(&vehicle.Vehicle{Make: "Kia", Model: "Sportage", Year: 2023, Category: vehicle.CategorySUV,
		Transmission: vehicle.TransmissionAutomatic, Seats: 5, PricePerDay: 7000, City: "Porto", IsActive: true})
	repo.Add(&vehicle.Vehicle{Make: "Fiat", Model: "Panda", Year: 2020, Category: vehicle.CategoryEconomy,
		Transmission: vehicle.TransmissionManual, Seats: 4, PricePerDay: 2500, City: "Porto", IsActive: true})
	repo.Add(&vehicle.Vehicle{Make: "Kia", Model: "Carnival", Year: 2021, Category: vehicle.CategoryVan,
		Transmission: vehicle.TransmissionAutomatic, Seats: 8, PricePerDay: 9000, City: "Faro", IsActive: false})

	svc := vehicle.NewService(repo)
	ctx := context.Background()

	items, total, err := svc.List(ctx, vehicle.Filter{OnlyActive: true, Keyword: "kia"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, suv.ID, items[0].ID)

	maxPrice := int64(5000)
	items, _, err = svc.List(ctx, vehicle.Filter{MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Panda", items[0].Model)

	_, _, err = svc.List(ctx, vehicle.Filter{Category: "truck"})
	assert.ErrorIs(t, err, vehicle.ErrInvalidCategory)
}

func TestListAvailabilityWindow(t *testing.T) {
	repo := vehicletest.NewMemoryRepository()
	busy := repo.Add(&vehicle.Vehicle{Make: "VW", Model: "Golf", Year: 2022, Category: vehicle.CategoryCompact,
		Transmission: vehicle.TransmissionManual, Seats: 5, PricePerDay: 4000, City: "Porto", IsActive: true})
	free := repo.Add(&vehicle.Vehicle{Make: "VW", Model: "Polo", Year: 2022, Category: vehicle.CategoryEconomy,
		Transmission: vehicle.TransmissionManual, Seats: 5, PricePerDay: 3500, City: "Porto", IsActive: true})
	repo.Booked = func(id string, _, _ time.Time) bool { return id == busy.ID }

	svc := vehicle.NewService(repo)
	from := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 3)

	items, total, err := svc.List(context.Background(), vehicle.Filter{AvailableFrom: &from, AvailableTo: &to})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, free.ID, items[0].ID)

	_, _, err = svc.List(context.Background(), vehicle.Filter{AvailableFrom: &to, AvailableTo: &from})
	assert.ErrorIs(t, err, vehicle.ErrInvalidDateWindow)

	_, _, err = svc.List(context.Background(), vehicle.Filter{AvailableFrom: &from})
	assert.ErrorIs(t, err, vehicle.ErrInvalidDateWindow)
}

func TestUpdateAndDeactivate(t *testing.T) {
	svc := vehicle.NewService(vehicletest.NewMemoryRepository())
	ctx := context.Background()
	v, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	price := int64(5200)
	inactive := false
	updated, err := svc.Update(ctx, v.ID, vehicle.UpdateRequest{PricePerDay: &price, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, int64(5200), updated.PricePerDay)
	assert.False(t, updated.IsActive)

	negative := int64(-1)
	_, err = svc.Update(ctx, v.ID, vehicle.UpdateRequest{PricePerDay: &negative})
	assert.ErrorIs(t, err, vehicle.ErrInvalidPrice)

	_, err = svc.Update(ctx, "missing", vehicle.UpdateRequest{})
	assert.ErrorIs(t, err, vehicle.ErrNotFound)
}

func TestDeleteRefusedWithBookings(t *testing.T) {
	repo := vehicletest.NewMemoryRepository()
	svc := vehicle.NewService(repo)
	ctx := context.Background()
	v, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	repo.Referenced = func(string) bool { return true }
	err = svc.Delete(ctx, v.ID)
	assert.ErrorIs(t, err, vehicle.ErrHasBookings)
	assert.True(t, errors.Is(err, apperror.ErrConflict))

	repo.Referenced = nil
	require.NoError(t, svc.Delete(ctx, v.ID))
	_, err = svc.GetByID(ctx, v.ID)
	assert.ErrorIs(t, err, vehicle.ErrNotFound)
}

func TestSetPhotoReturnsPrevious(t *testing.T) {
	svc := vehicle.NewService(vehicletest.NewMemoryRepository())
	ctx := context.Background()
	v, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	prev, err := svc.SetPhoto(ctx, v.ID, "file-1")
	require.NoError(t, err)
	assert.Nil(t, prev)

	prev, err = svc.SetPhoto(ctx, v.ID, "file-2")
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "file-1", *prev)
}
