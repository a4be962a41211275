package vehicle

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.Wrap(apperror.ErrNotFound, http.StatusNotFound, "vehicle not found")
	ErrNameRequired         = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "make and model are required")
	ErrInvalidCategory      = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "invalid vehicle category")
	ErrInvalidTransmission  = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "invalid transmission")
	ErrInvalidYear          = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "invalid model year")
	ErrInvalidSeats         = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "seats must be between 1 and 15")
	ErrInvalidPrice         = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "price_per_day must be positive")
	ErrInvalidDateWindow    = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "available_from must be before available_to")
	ErrHasBookings          = apperror.Wrap(apperror.ErrConflict, http.StatusConflict, "vehicle has bookings; deactivate it instead")
	ErrPriceRangeInvalidMax = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "min_price must not exceed max_price")
)

type Category string

const (
	CategoryEconomy Category = "economy"
	CategoryCompact Category = "compact"
	CategorySUV     Category = "suv"
	CategoryLuxury  Category = "luxury"
	CategoryVan     Category = "van"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryEconomy, CategoryCompact, CategorySUV, CategoryLuxury, CategoryVan:
		return true
	}
	return false
}

type Transmission string

const (
	TransmissionAutomatic Transmission = "automatic"
	TransmissionManual    Transmission = "manual"
)

func (t Transmission) Valid() bool {
	return t == TransmissionAutomatic || t == TransmissionManual
}

// Vehicle is a rentable car. PricePerDay is in minor currency units.
type Vehicle struct {
	ID           string
	Make         string
	Model        string
	Year         int
	Category     Category
	Transmission Transmission
	Seats        int
	PricePerDay  int64
	City         string
	IsActive     bool
	PhotoFileID  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Filter defines parameters for listing vehicles.
type Filter struct {
	Category     Category
	Transmission Transmission
	City         string
	Keyword      string // matched against make and model
	MinPrice     *int64
	MaxPrice     *int64
	MinSeats     int
	OnlyActive   bool

	// When both are set, only vehicles without a blocking booking
	// overlapping [AvailableFrom, AvailableTo) are returned.
	AvailableFrom *time.Time
	AvailableTo   *time.Time

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
