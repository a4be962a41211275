package discount

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
	Create(ctx context.Context, d *DiscountCode) error
	GetByCode(ctx context.Context, code string) (*DiscountCode, error)
	List(ctx context.Context, filter Filter) ([]*DiscountCode, int, error)
	Deactivate(ctx context.Context, code string) error
	// Redeem counts one use. It returns ErrExhaustedCode when the limit is reached.
	Redeem(ctx context.Context, code string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var discountColumns = []string{
	"code", "kind", "value", "is_active", "valid_from", "valid_until", "max_redemptions", "redemptions", "created_at",
}

func scanDiscount(row pgx.Row, extra ...any) (*DiscountCode, error) {
	var d DiscountCode
	dest := []any{&d.Code, &d.Kind, &d.Value, &d.IsActive, &d.ValidFrom, &d.ValidUntil, &d.MaxRedemptions, &d.Redemptions, &d.CreatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *pgxRepository) Create(ctx context.Context, d *DiscountCode) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.discount_codes").
		Columns("code", "kind", "value", "is_active", "valid_from", "valid_until", "max_redemptions").
		Values(d.Code, d.Kind, d.Value, d.IsActive, d.ValidFrom, d.ValidUntil, d.MaxRedemptions).
		Suffix("RETURNING redemptions, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create discount query failed: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&d.Redemptions, &d.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrCodeTaken
		}
		return fmt.Errorf("create discount failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByCode(ctx context.Context, code string) (*DiscountCode, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(discountColumns...).
		From("public.discount_codes").
		Where(squirrel.Eq{"code": code}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get discount query failed: %w", err)
	}

	d, err := scanDiscount(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get discount failed: %w", err)
	}
	return d, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*DiscountCode, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(discountColumns, "count(*) OVER() AS total_count")...).
		From("public.discount_codes").
		OrderBy("created_at DESC")

	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64((filter.Page - 1) * filter.PageSize))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list discounts query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list discounts failed: %w", err)
	}
	defer rows.Close()

	var codes []*DiscountCode
	var total int
	for rows.Next() {
		d, err := scanDiscount(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan discount failed: %w", err)
		}
		codes = append(codes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate discounts failed: %w", err)
	}
	return codes, total, nil
}

func (r *pgxRepository) Deactivate(ctx context.Context, code string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.discount_codes").
		Set("is_active", false).
		Where(squirrel.Eq{"code": code}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate discount query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deactivate discount failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Redeem(ctx context.Context, code string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	// The guard makes concurrent redemptions of the last use race-free.
	query, args, err := psql.Update("public.discount_codes").
		Set("redemptions", squirrel.Expr("redemptions + 1")).
		Where(squirrel.Eq{"code": code}).
		Where(squirrel.Or{
			squirrel.Eq{"max_redemptions": nil},
			squirrel.Expr("redemptions < max_redemptions"),
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build redeem discount query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("redeem discount failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrExhaustedCode
	}
	return nil
}
