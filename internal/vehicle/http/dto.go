package http

import (
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/file"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/car-rental-backend/internal/vehicle"
)

// ListVehiclesRequest defines query parameters for the public catalogue.
type ListVehiclesRequest struct {
	request.ListParams
	Category      string `form:"category" binding:"omitempty,oneof=economy compact suv luxury van"`
	Transmission  string `form:"transmission" binding:"omitempty,oneof=automatic manual"`
	City          string `form:"city"`
	Keyword       string `form:"q"`
	MinPrice      *int64 `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice      *int64 `form:"max_price" binding:"omitempty,min=0"`
	MinSeats      int    `form:"min_seats" binding:"omitempty,min=1"`
	AvailableFrom string `form:"available_from" binding:"omitempty,datetime=2006-01-02"`
	AvailableTo   string `form:"available_to" binding:"omitempty,datetime=2006-01-02"`
	SortBy        string `form:"sort_by" binding:"omitempty,oneof=price_per_day year seats created_at"`
}

type CreateVehicleRequest struct {
	Make         string `json:"make" binding:"required"`
	Model        string `json:"model" binding:"required"`
	Year         int    `json:"year" binding:"required"`
	Category     string `json:"category" binding:"required"`
	Transmission string `json:"transmission" binding:"required"`
	Seats        int    `json:"seats" binding:"required"`
	PricePerDay  int64  `json:"price_per_day" binding:"required"`
	City         string `json:"city"`
}

type UpdateVehicleRequest struct {
	Make         *string `json:"make"`
	Model        *string `json:"model"`
	Year         *int    `json:"year"`
	Category     *string `json:"category"`
	Transmission *string `json:"transmission"`
	Seats        *int    `json:"seats"`
	PricePerDay  *int64  `json:"price_per_day"`
	City         *string `json:"city"`
	IsActive     *bool   `json:"is_active"`
}

type VehicleResponse struct {
	ID                string    `json:"id"`
	Make              string    `json:"make"`
	Model             string    `json:"model"`
	Year              int       `json:"year"`
	Category          string    `json:"category"`
	Transmission      string    `json:"transmission"`
	Seats             int       `json:"seats"`
	PricePerDay       int64     `json:"price_per_day"`
	City              string    `json:"city"`
	IsActive          bool      `json:"is_active"`
	PhotoURL          *string   `json:"photo_url"`
	PhotoThumbnailURL *string   `json:"photo_thumbnail_url"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewVehicleResponse(v *vehicle.Vehicle) VehicleResponse {
	resp := VehicleResponse{
		ID:           v.ID,
		Make:         v.Make,
		Model:        v.Model,
		Year:         v.Year,
		Category:     string(v.Category),
		Transmission: string(v.Transmission),
		Seats:        v.Seats,
		PricePerDay:  v.PricePerDay,
		City:         v.City,
		IsActive:     v.IsActive,
		CreatedAt:    v.CreatedAt,
	}
	if v.PhotoFileID != nil {
		url := file.FileURL(*v.PhotoFileID)
		thumb := file.ThumbnailURL(*v.PhotoFileID)
		resp.PhotoURL = &url
		resp.PhotoThumbnailURL = &thumb
	}
	return resp
}
