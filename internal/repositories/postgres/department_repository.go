package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/webdiner/internal/models"
)

type DepartmentRepository struct {
	pool *pgxpool.Pool
}

func NewDepartmentRepository(pool *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{pool: pool}
}

const departmentColumns = `id, name, display_order, is_active, created_at`

func (r *DepartmentRepository) BulkCreate(ctx context.Context, departments []*models.Department) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"departments"},
		[]string{"id", "name", "display_order", "is_active"},
		pgx.CopyFromSlice(len(departments), func(i int) ([]interface{}, error) {
			d := departments[i]
			return []interface{}{d.ID, d.Name, d.DisplayOrder, d.IsActive}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy departments: %w", err)
	}
	return nil
}

func (r *DepartmentRepository) Create(ctx context.Context, d *models.Department) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO departments (id, name, display_order, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		d.ID, d.Name, d.DisplayOrder, d.IsActive,
	).Scan(&d.CreatedAt)
	if isUniqueViolation(err) {
		return models.ErrDepartmentExists
	}
	if err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

func (r *DepartmentRepository) Update(ctx context.Context, d *models.Department) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE departments SET name = $2, display_order = $3, is_active = $4
		WHERE id = $1`,
		d.ID, d.Name, d.DisplayOrder, d.IsActive,
	)
	switch {
	case isUniqueViolation(err):
		return models.ErrDepartmentExists
	case err != nil:
		return fmt.Errorf("update department: %w", err)
	case tag.RowsAffected() == 0:
		return models.ErrDepartmentNotFound
	}
	return nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*models.Department, error) {
	return r.getOne(ctx, `SELECT `+departmentColumns+` FROM departments WHERE id = $1`, id)
}

func (r *DepartmentRepository) GetByName(ctx context.Context, name string) (*models.Department, error) {
	return r.getOne(ctx, `SELECT `+departmentColumns+` FROM departments WHERE name = $1`, name)
}

func (r *DepartmentRepository) GetAll(ctx context.Context, activeOnly bool) ([]*models.Department, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+departmentColumns+` FROM departments
		WHERE is_active OR NOT $1 ORDER BY display_order, name`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	departments := []*models.Department{}
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (r *DepartmentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM departments").Scan(&count)
	return count, err
}

func (r *DepartmentRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE departments CASCADE")
	return err
}

func (r *DepartmentRepository) getOne(ctx context.Context, query, arg string) (*models.Department, error) {
	d, err := scanDepartment(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrDepartmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get department: %w", err)
	}
	return d, nil
}

func scanDepartment(row pgx.Row) (*models.Department, error) {
	d := &models.Department{}
	if err := row.Scan(&d.ID, &d.Name, &d.DisplayOrder, &d.IsActive, &d.CreatedAt); err != nil {
		return nil, err
	}
	return d, nil
}
