package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/webdiner/internal/models"
)

type VendorRepository struct {
	pool *pgxpool.Pool
}

func NewVendorRepository(pool *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{pool: pool}
}

const vendorColumns = `id, name, description, color, is_active, created_at`

func (r *VendorRepository) BulkCreate(ctx context.Context, vendors []*models.Vendor) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"vendors"},
		[]string{"id", "name", "description", "color", "is_active"},
		pgx.CopyFromSlice(len(vendors), func(i int) ([]interface{}, error) {
			return []interface{}{
				vendors[i].ID,
				vendors[i].Name,
				vendors[i].Description,
				vendors[i].Color,
				vendors[i].IsActive,
			}, nil
		}),
	)
	if isUniqueViolation(err) {
		return models.ErrVendorExists
	}
	if err != nil {
		return fmt.Errorf("copy vendors: %w", err)
	}
	return nil
}

func (r *VendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO vendors (id, name, description, color, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		vendor.ID, vendor.Name, vendor.Description, vendor.Color, vendor.IsActive,
	).Scan(&vendor.CreatedAt)
	if isUniqueViolation(err) {
		return models.ErrVendorExists
	}
	if err != nil {
		return fmt.Errorf("create vendor: %w", err)
	}
	return nil
}

func (r *VendorRepository) Update(ctx context.Context, vendor *models.Vendor) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE vendors SET name = $2, description = $3, color = $4, is_active = $5
		WHERE id = $1`,
		vendor.ID, vendor.Name, vendor.Description, vendor.Color, vendor.IsActive,
	)
	switch {
	case isUniqueViolation(err):
		return models.ErrVendorExists
	case err != nil:
		return fmt.Errorf("update vendor: %w", err)
	case tag.RowsAffected() == 0:
		return models.ErrVendorNotFound
	}
	return nil
}

func (r *VendorRepository) GetByID(ctx context.Context, id string) (*models.Vendor, error) {
	return r.getOne(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id)
}

func (r *VendorRepository) GetByName(ctx context.Context, name string) (*models.Vendor, error) {
	return r.getOne(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE name = $1`, name)
}

func (r *VendorRepository) GetAll(ctx context.Context, activeOnly bool) ([]*models.Vendor, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+vendorColumns+` FROM vendors
		WHERE is_active OR NOT $1 ORDER BY name`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	vendors := []*models.Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (r *VendorRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM vendors").Scan(&count)
	return count, err
}

func (r *VendorRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE vendors CASCADE")
	return err
}

func (r *VendorRepository) getOne(ctx context.Context, query string, arg string) (*models.Vendor, error) {
	v, err := scanVendor(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrVendorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

func scanVendor(row pgx.Row) (*models.Vendor, error) {
	v := &models.Vendor{}
	if err := row.Scan(&v.ID, &v.Name, &v.Description, &v.Color, &v.IsActive, &v.CreatedAt); err != nil {
		return nil, err
	}
	return v, nil
}
