package http

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/car-rental-backend/internal/file"
	fileHttp "github.com/nekogravitycat/car-rental-backend/internal/file/http"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/response"
	"github.com/nekogravitycat/car-rental-backend/internal/vehicle"
)

type VehicleHandler struct {
	service        vehicle.Service
	fileService    file.Service
	fileHandler    *fileHttp.Handler
	maxUploadBytes int64
}

func NewHandler(service vehicle.Service, fileService file.Service, maxUploadBytes int64) *VehicleHandler {
	return &VehicleHandler{
		service:        service,
		fileService:    fileService,
		fileHandler:    fileHttp.NewHandler(fileService),
		maxUploadBytes: maxUploadBytes,
	}
}

// List returns active vehicles matching the catalogue filters.
func (h *VehicleHandler) List(c *gin.Context) {
	var req ListVehiclesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	from, err := request.ParseOptionalDate(req.AvailableFrom)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	to, err := request.ParseOptionalDate(req.AvailableTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	filter := vehicle.Filter{
		Category:      vehicle.Category(req.Category),
		Transmission:  vehicle.Transmission(req.Transmission),
		City:          strings.TrimSpace(req.City),
		Keyword:       strings.TrimSpace(req.Keyword),
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		MinSeats:      req.MinSeats,
		OnlyActive:    true,
		AvailableFrom: from,
		AvailableTo:   to,
		Page:          req.Page,
		PageSize:      req.PageSize,
		SortBy:        req.SortBy,
		SortOrder:     strings.ToUpper(req.SortOrder),
	}

	vehicles, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]VehicleResponse, len(vehicles))
	for i, v := range vehicles {
		items[i] = NewVehicleResponse(v)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *VehicleHandler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	v, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewVehicleResponse(v))
}

// Create adds a vehicle to the fleet. System Admin only.
func (h *VehicleHandler) Create(c *gin.Context) {
	var body CreateVehicleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	v, err := h.service.Create(c.Request.Context(), vehicle.CreateRequest{
		Make:         body.Make,
		Model:        body.Model,
		Year:         body.Year,
		Category:     vehicle.Category(body.Category),
		Transmission: vehicle.Transmission(body.Transmission),
		Seats:        body.Seats,
		PricePerDay:  body.PricePerDay,
		City:         body.City,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewVehicleResponse(v))
}

// Update patches a vehicle. System Admin only.
func (h *VehicleHandler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateVehicleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	req := vehicle.UpdateRequest{
		Make:        body.Make,
		Model:       body.Model,
		Year:        body.Year,
		Seats:       body.Seats,
		PricePerDay: body.PricePerDay,
		City:        body.City,
		IsActive:    body.IsActive,
	}
	if body.Category != nil {
		cat := vehicle.Category(*body.Category)
		req.Category = &cat
	}
	if body.Transmission != nil {
		tr := vehicle.Transmission(*body.Transmission)
		req.Transmission = &tr
	}

	v, err := h.service.Update(c.Request.Context(), uri.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewVehicleResponse(v))
}

// Delete removes a vehicle that has never been booked. System Admin only.
func (h *VehicleHandler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadPhoto replaces the vehicle photo. System Admin only.
func (h *VehicleHandler) UploadPhoto(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	// Fail before reading the body.
	if _, err := h.service.GetByID(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	h.fileHandler.HandleFileUpload(c, fileHttp.FileUploadConfig{
		FormFieldName:    "photo",
		Prefix:           "vehicles",
		MaxSizeBytes:     h.maxUploadBytes,
		AllowedTypes:     file.ImageTypes,
		RequireThumbnail: true,
		AfterUpload: func(ctx context.Context, fileID string) error {
			previous, err := h.service.SetPhoto(ctx, uri.ID, fileID)
			if err != nil {
				return err
			}
			if previous != nil {
				if err := h.fileService.Delete(ctx, *previous); err != nil {
					log.Printf("delete replaced photo %s of vehicle %s failed: %v", *previous, uri.ID, err)
				}
			}
			return nil
		},
	})
}
