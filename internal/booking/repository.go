package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/car-rental-backend/internal/db"
)

type Repository interface {
	// LockVehicle takes a row lock on the vehicle until the surrounding
	// transaction ends, serializing bookings of the same vehicle.
	LockVehicle(ctx context.Context, vehicleID string) error
	// HasOverlap reports whether a blocking booking intersects [start, end).
	HasOverlap(ctx context.Context, vehicleID string, start, end time.Time) (bool, error)

	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	// GetForUpdate is GetByID holding a row lock for the rest of the transaction.
	GetForUpdate(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	// UpdateStatus persists Status and PaymentStatus.
	UpdateStatus(ctx context.Context, b *Booking) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var bookingColumns = []string{
	"b.id", "b.vehicle_id", "b.user_id", "b.start_date", "b.end_date", "b.status", "b.payment_status",
	"b.total_days", "b.price_per_day", "b.subtotal", "b.discount_code", "b.discount_amount", "b.total_amount",
	"b.pickup_location", "b.dropoff_location", "b.created_at", "b.updated_at",
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := []any{
		&b.ID, &b.VehicleID, &b.UserID, &b.StartDate, &b.EndDate, &b.Status, &b.PaymentStatus,
		&b.TotalDays, &b.PricePerDay, &b.Subtotal, &b.DiscountCode, &b.DiscountAmount, &b.TotalAmount,
		&b.PickupLocation, &b.DropoffLocation, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	// DATE columns scan as midnight in UTC already; normalize anyway.
	b.StartDate, b.EndDate = DateOnly(b.StartDate), DateOnly(b.EndDate)
	return &b, nil
}

func blockingStatusValues() []string {
	values := make([]string, len(BlockingStatuses))
	for i, s := range BlockingStatuses {
		values[i] = string(s)
	}
	return values
}

func (r *pgxRepository) LockVehicle(ctx context.Context, vehicleID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id").
		From("public.vehicles").
		Where(squirrel.Eq{"id": vehicleID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("build lock vehicle query failed: %w", err)
	}

	var id string
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrVehicleNotFound
		}
		return fmt.Errorf("lock vehicle failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, vehicleID string, start, end time.Time) (bool, error) {
	// (NewStart < ExistingEnd) AND (NewEnd > ExistingStart), half-open.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sub := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"vehicle_id": vehicleID}).
		Where(squirrel.Eq{"status": blockingStatusValues()}).
		Where(squirrel.Lt{"start_date": end}).
		Where(squirrel.Gt{"end_date": start})

	sql, args, err := sub.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}
	query := "SELECT EXISTS (" + sql + ")"

	var exists bool
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns(
			"vehicle_id", "user_id", "start_date", "end_date", "status", "payment_status",
			"total_days", "price_per_day", "subtotal", "discount_code", "discount_amount", "total_amount",
			"pickup_location", "dropoff_location",
		).
		Values(
			b.VehicleID, b.UserID, b.StartDate, b.EndDate, b.Status, b.PaymentStatus,
			b.TotalDays, b.PricePerDay, b.Subtotal, b.DiscountCode, b.DiscountAmount, b.TotalAmount,
			b.PickupLocation, b.DropoffLocation,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.ExclusionViolation:
				return ErrDateConflict
			case pgerrcode.ForeignKeyViolation:
				return ErrVehicleNotFound
			}
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	return r.get(ctx, id, false)
}

func (r *pgxRepository) GetForUpdate(ctx context.Context, id string) (*Booking, error) {
	return r.get(ctx, id, true)
}

func (r *pgxRepository) get(ctx context.Context, id string, forUpdate bool) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	q := psql.Select(bookingColumns...).
		From("public.bookings b").
		Where(squirrel.Eq{"b.id": id})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(bookingColumns, "count(*) OVER() AS total_count")...).
		From("public.bookings b")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.VehicleID != "" {
		query = query.Where(squirrel.Eq{"b.vehicle_id": filter.VehicleID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if filter.PaymentStatus != "" {
		query = query.Where(squirrel.Eq{"b.payment_status": filter.PaymentStatus})
	}
	if filter.From != nil {
		query = query.Where(squirrel.Gt{"b.end_date": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.Lt{"b.start_date": *filter.To})
	}

	orderBy := "b.start_date"
	switch filter.SortBy {
	case "start_date", "end_date", "created_at", "total_amount":
		orderBy = "b." + filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy+" "+orderDir, "b.id")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64((filter.Page - 1) * filter.PageSize))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}

	return bookings, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", b.Status).
		Set("payment_status", b.PaymentStatus).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update booking failed: %w", err)
	}
	return nil
}
