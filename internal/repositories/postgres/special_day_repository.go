package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/webdiner/internal/models"
)

type SpecialDayRepository struct {
	pool *pgxpool.Pool
}

func NewSpecialDayRepository(pool *pgxpool.Pool) *SpecialDayRepository {
	return &SpecialDayRepository{pool: pool}
}

func (r *SpecialDayRepository) BulkCreate(ctx context.Context, days []*models.SpecialDay) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"special_days"},
		[]string{"id", "day", "is_holiday", "description"},
		pgx.CopyFromSlice(len(days), func(i int) ([]interface{}, error) {
			return []interface{}{days[i].ID, dateArg(days[i].Date), days[i].IsHoliday, days[i].Description}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy special days: %w", err)
	}
	return nil
}

// Upsert keeps the existing id when the date is already overridden.
func (r *SpecialDayRepository) Upsert(ctx context.Context, day *models.SpecialDay) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO special_days (id, day, is_holiday, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (day) DO UPDATE
		SET is_holiday = EXCLUDED.is_holiday, description = EXCLUDED.description
		RETURNING id`,
		day.ID, dateArg(day.Date), day.IsHoliday, day.Description,
	).Scan(&day.ID)
	if err != nil {
		return fmt.Errorf("upsert special day: %w", err)
	}
	return nil
}

func (r *SpecialDayRepository) DeleteByDate(ctx context.Context, date models.Date) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM special_days WHERE day = $1`, dateArg(date))
	if err != nil {
		return fmt.Errorf("delete special day: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrSpecialDayNotFound
	}
	return nil
}

func (r *SpecialDayRepository) GetAll(ctx context.Context) ([]models.SpecialDay, error) {
	return r.list(ctx, `SELECT id, day, is_holiday, description FROM special_days ORDER BY day`)
}

func (r *SpecialDayRepository) GetRange(ctx context.Context, from, to models.Date) ([]models.SpecialDay, error) {
	return r.list(ctx, `SELECT id, day, is_holiday, description FROM special_days
		WHERE day BETWEEN $1 AND $2 ORDER BY day`, dateArg(from), dateArg(to))
}

func (r *SpecialDayRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM special_days").Scan(&count)
	return count, err
}

func (r *SpecialDayRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE special_days")
	return err
}

func (r *SpecialDayRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.SpecialDay, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list special days: %w", err)
	}
	defer rows.Close()

	days := []models.SpecialDay{}
	for rows.Next() {
		var sd models.SpecialDay
		var day time.Time
		if err := rows.Scan(&sd.ID, &day, &sd.IsHoliday, &sd.Description); err != nil {
			return nil, err
		}
		sd.Date = dateFromDB(day)
		days = append(days, sd)
	}
	return days, rows.Err()
}
