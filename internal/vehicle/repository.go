package vehicle

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/car-rental-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, v *Vehicle) error
	GetByID(ctx context.Context, id string) (*Vehicle, error)
	List(ctx context.Context, filter Filter) ([]*Vehicle, int, error)
	Update(ctx context.Context, v *Vehicle) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// BlockingBookingStatuses are the booking statuses that hold a vehicle for the
// availability filter. It must equal booking.BlockingStatuses; booking imports
// this package, so the values are spelled out here.
var BlockingBookingStatuses = []string{"pending", "confirmed", "active"}

var vehicleColumns = []string{
	"v.id", "v.make", "v.model", "v.year", "v.category", "v.transmission", "v.seats",
	"v.price_per_day", "v.city", "v.is_active", "v.photo_file_id", "v.created_at", "v.updated_at",
}

func scanVehicle(row pgx.Row, extra ...any) (*Vehicle, error) {
	var v Vehicle
	dest := []any{
		&v.ID, &v.Make, &v.Model, &v.Year, &v.Category, &v.Transmission, &v.Seats,
		&v.PricePerDay, &v.City, &v.IsActive, &v.PhotoFileID, &v.CreatedAt, &v.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *pgxRepository) Create(ctx context.Context, v *Vehicle) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.vehicles").
		Columns("make", "model", "year", "category", "transmission", "seats", "price_per_day", "city", "is_active").
		Values(v.Make, v.Model, v.Year, v.Category, v.Transmission, v.Seats, v.PricePerDay, v.City, v.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create vehicle query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return fmt.Errorf("create vehicle failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Vehicle, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(vehicleColumns...).
		From("public.vehicles v").
		Where(squirrel.Eq{"v.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get vehicle query failed: %w", err)
	}

	v, err := scanVehicle(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle failed: %w", err)
	}
	return v, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Vehicle, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(vehicleColumns, "count(*) OVER() AS total_count")...).
		From("public.vehicles v")

	if filter.OnlyActive {
		query = query.Where(squirrel.Eq{"v.is_active": true})
	}
	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"v.category": filter.Category})
	}
	if filter.Transmission != "" {
		query = query.Where(squirrel.Eq{"v.transmission": filter.Transmission})
	}
	if filter.City != "" {
		query = query.Where(squirrel.ILike{"v.city": filter.City})
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"v.make": kw},
			squirrel.ILike{"v.model": kw},
		})
	}
	if filter.MinPrice != nil {
		query = query.Where(squirrel.GtOrEq{"v.price_per_day": *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		query = query.Where(squirrel.LtOrEq{"v.price_per_day": *filter.MaxPrice})
	}
	if filter.MinSeats > 0 {
		query = query.Where(squirrel.GtOrEq{"v.seats": filter.MinSeats})
	}
	if filter.AvailableFrom != nil && filter.AvailableTo != nil {
		// Half-open overlap: existing.start < to AND existing.end > from
		// Nested builders keep "?" placeholders; the outer builder numbers them.
		busy := squirrel.Select("1").
			From("public.bookings b").
			Where("b.vehicle_id = v.id").
			Where(squirrel.Eq{"b.status": BlockingBookingStatuses}).
			Where(squirrel.Lt{"b.start_date": *filter.AvailableTo}).
			Where(squirrel.Gt{"b.end_date": *filter.AvailableFrom})
		query = query.Where(squirrel.Expr("NOT EXISTS (?)", busy))
	}

	orderBy := "v.created_at"
	switch filter.SortBy {
	case "price_per_day", "year", "created_at", "seats":
		orderBy = "v." + filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64((filter.Page - 1) * filter.PageSize))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list vehicles query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list vehicles failed: %w", err)
	}
	defer rows.Close()

	var vehicles []*Vehicle
	var total int
	for rows.Next() {
		v, err := scanVehicle(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan vehicle failed: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate vehicles failed: %w", err)
	}

	return vehicles, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, v *Vehicle) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.vehicles").
		Set("make", v.Make).
		Set("model", v.Model).
		Set("year", v.Year).
		Set("category", v.Category).
		Set("transmission", v.Transmission).
		Set("seats", v.Seats).
		Set("price_per_day", v.PricePerDay).
		Set("city", v.City).
		Set("is_active", v.IsActive).
		Set("photo_file_id", v.PhotoFileID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": v.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update vehicle query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&v.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update vehicle failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.vehicles").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete vehicle query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrHasBookings
		}
		return fmt.Errorf("delete vehicle failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
