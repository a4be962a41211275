package vehicle

import (
	"context"
	"strings"
	"time"
)

// CreateRequest carries the fields of a new vehicle.
type CreateRequest struct {
	Make         string
	Model        string
	Year         int
	Category     Category
	Transmission Transmission
	Seats        int
	PricePerDay  int64
	City         string
}

// UpdateRequest carries optional fields for a partial update.
type UpdateRequest struct {
	Make         *string
	Model        *string
	Year         *int
	Category     *Category
	Transmission *Transmission
	Seats        *int
	PricePerDay  *int64
	City         *string
	IsActive     *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Vehicle, error)
	GetByID(ctx context.Context, id string) (*Vehicle, error)
	List(ctx context.Context, filter Filter) ([]*Vehicle, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Vehicle, error)
	Delete(ctx context.Context, id string) error
	// SetPhoto points the vehicle at fileID and returns the file it replaced, if any.
	SetPhoto(ctx context.Context, id, fileID string) (*string, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Vehicle, error) {
	v := &Vehicle{
		Make:         strings.TrimSpace(req.Make),
		Model:        strings.TrimSpace(req.Model),
		Year:         req.Year,
		Category:     req.Category,
		Transmission: req.Transmission,
		Seats:        req.Seats,
		PricePerDay:  req.PricePerDay,
		City:         strings.TrimSpace(req.City),
		IsActive:     true,
	}
	if err := s.validate(v); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Vehicle, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Vehicle, int, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, 0, ErrInvalidCategory
	}
	if filter.Transmission != "" && !filter.Transmission.Valid() {
		return nil, 0, ErrInvalidTransmission
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, 0, ErrPriceRangeInvalidMax
	}
	if (filter.AvailableFrom == nil) != (filter.AvailableTo == nil) {
		return nil, 0, ErrInvalidDateWindow
	}
	if filter.AvailableFrom != nil && !filter.AvailableFrom.Before(*filter.AvailableTo) {
		return nil, 0, ErrInvalidDateWindow
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Vehicle, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Make != nil {
		v.Make = strings.TrimSpace(*req.Make)
	}
	if req.Model != nil {
		v.Model = strings.TrimSpace(*req.Model)
	}
	if req.Year != nil {
		v.Year = *req.Year
	}
	if req.Category != nil {
		v.Category = *req.Category
	}
	if req.Transmission != nil {
		v.Transmission = *req.Transmission
	}
	if req.Seats != nil {
		v.Seats = *req.Seats
	}
	if req.PricePerDay != nil {
		v.PricePerDay = *req.PricePerDay
	}
	if req.City != nil {
		v.City = strings.TrimSpace(*req.City)
	}
	if req.IsActive != nil {
		v.IsActive = *req.IsActive
	}

	if err := s.validate(v); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) SetPhoto(ctx context.Context, id, fileID string) (*string, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := v.PhotoFileID
	v.PhotoFileID = &fileID
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return previous, nil
}

func (s *service) validate(v *Vehicle) error {
	if v.Make == "" || v.Model == "" {
		return ErrNameRequired
	}
	if !v.Category.Valid() {
		return ErrInvalidCategory
	}
	if !v.Transmission.Valid() {
		return ErrInvalidTransmission
	}
	// Allow next year's models.
	if v.Year < 1950 || v.Year > s.now().Year()+1 {
		return ErrInvalidYear
	}
	if v.Seats < 1 || v.Seats > 15 {
		return ErrInvalidSeats
	}
	if v.PricePerDay <= 0 {
		return ErrInvalidPrice
	}
	return nil
}
