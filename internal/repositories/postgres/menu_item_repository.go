package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/webdiner/internal/models"
)

type MenuItemRepository struct {
	pool *pgxpool.Pool
}

func NewMenuItemRepository(pool *pgxpool.Pool) *MenuItemRepository {
	return &MenuItemRepository{pool: pool}
}

const menuItemColumns = `id, vendor_id, name, description, price, weekday, is_active, created_at`

func (r *MenuItemRepository) BulkCreate(ctx context.Context, menuItems []*models.MenuItem) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"menu_items"},
		[]string{"id", "vendor_id", "name", "description", "price", "weekday", "is_active"},
		pgx.CopyFromSlice(len(menuItems), func(i int) ([]interface{}, error) {
			return []interface{}{
				menuItems[i].ID,
				menuItems[i].VendorID,
				menuItems[i].Name,
				menuItems[i].Description,
				menuItems[i].Price,
				menuItems[i].Weekday,
				menuItems[i].IsActive,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy menu items: %w", err)
	}
	return nil
}

func (r *MenuItemRepository) Create(ctx context.Context, menuItem *models.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, vendor_id, name, description, price, weekday, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		menuItem.ID,
		menuItem.VendorID,
		menuItem.Name,
		menuItem.Description,
		menuItem.Price,
		menuItem.Weekday,
		menuItem.IsActive,
	).Scan(&menuItem.CreatedAt)
	if isForeignKeyViolation(err) {
		return models.ErrVendorNotFound
	}
	if err != nil {
		return fmt.Errorf("create menu item: %w", err)
	}
	return nil
}

func (r *MenuItemRepository) Update(ctx context.Context, menuItem *models.MenuItem) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE menu_items
		SET name = $2, description = $3, price = $4, weekday = $5, is_active = $6
		WHERE id = $1`,
		menuItem.ID,
		menuItem.Name,
		menuItem.Description,
		menuItem.Price,
		menuItem.Weekday,
		menuItem.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrMenuItemNotFound
	}
	return nil
}

func (r *MenuItemRepository) GetByID(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := scanMenuItem(r.pool.QueryRow(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrMenuItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return item, nil
}

func (r *MenuItemRepository) GetByVendorID(ctx context.Context, vendorID string, activeOnly bool) ([]*models.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items
		WHERE vendor_id = $1 AND (is_active OR NOT $2)
		ORDER BY weekday NULLS FIRST, name`
	rows, err := r.pool.Query(ctx, query, vendorID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	menuItems := []*models.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		menuItems = append(menuItems, item)
	}
	return menuItems, rows.Err()
}

func (r *MenuItemRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM menu_items").Scan(&count)
	return count, err
}

func (r *MenuItemRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE menu_items CASCADE")
	return err
}

func scanMenuItem(row pgx.Row) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	err := row.Scan(
		&item.ID,
		&item.VendorID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.Weekday,
		&item.IsActive,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}
